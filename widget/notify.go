package widget

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier shows confirmations and errors as desktop notifications,
// falling back to the console when the desktop bus is unavailable.
type DesktopNotifier struct {
	Title   string
	Enabled bool
}

func NewDesktopNotifier(title string, enabled bool) *DesktopNotifier {
	return &DesktopNotifier{Title: title, Enabled: enabled}
}

func (n *DesktopNotifier) Confirm(message string) {
	n.send(n.Title, message)
}

func (n *DesktopNotifier) Error(message string) {
	n.send(n.Title+" - Error", message)
}

func (n *DesktopNotifier) send(title, message string) {
	if !n.Enabled {
		fmt.Printf("\n%s: %s\n", title, message)
		return
	}
	if err := beeep.Alert(title, message, ""); err != nil {
		// Fallback to console if notification fails
		fmt.Printf("\n%s: %s\n", title, message)
	}
}
