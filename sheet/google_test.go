package sheet

import "testing"

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://docs.google.com/spreadsheets/d/abc123/edit#gid=0", "abc123", false},
		{"https://docs.google.com/spreadsheets/d/abc123", "abc123", false},
		{"abc123", "abc123", false},
		{"", "", true},
		{"https://example.com/spreadsheets/d/abc123", "", true},
	}

	for _, tt := range tests {
		got, err := ExtractSpreadsheetID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ExtractSpreadsheetID(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExtractSpreadsheetID(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractSpreadsheetID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
