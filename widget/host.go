package widget

import (
	"checkout/models"
	"context"
	"log"
)

// Host is the narrow surface the widget needs from the dashboard it is
// embedded in. The real binding is the HTTP adapter in the cli package;
// tests supply fakes.
type Host interface {
	// Worksheets lists the views and the data sources they reference.
	Worksheets(ctx context.Context) ([]models.Worksheet, error)

	// SummaryTable fetches the current summary snapshot of one worksheet.
	SummaryTable(ctx context.Context, worksheet string) (*models.DataTable, error)

	// RefreshDataSource requests a refresh of one backing data source and
	// returns once it completes.
	RefreshDataSource(ctx context.Context, id string) error
}

// RefreshAllSources refreshes every distinct data source referenced by any
// worksheet, deduplicated by source identity. Failures are logged and
// swallowed: a failed refresh must never block the confirmation flow, the
// next reconciliation tick simply sees whatever data is there.
func RefreshAllSources(ctx context.Context, host Host) {
	worksheets, err := host.Worksheets(ctx)
	if err != nil {
		log.Printf("refresh: listing worksheets failed: %v", err)
		return
	}

	seen := map[string]bool{}
	for _, ws := range worksheets {
		for _, source := range ws.DataSources {
			if seen[source.ID] {
				continue
			}
			seen[source.ID] = true
			if err := host.RefreshDataSource(ctx, source.ID); err != nil {
				log.Printf("refresh: data source %s failed: %v", source.ID, err)
			}
		}
	}
}
