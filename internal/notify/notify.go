// Package notify shows desktop notifications for connection events.
package notify

import (
	"log"

	"github.com/gen2brain/beeep"
)

// Notifier wraps desktop notifications behind the user preference.
type Notifier struct {
	enabled bool
}

// New creates a notifier. A disabled notifier swallows all calls.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Notify shows a desktop notification. Failures only log; a missing
// notification daemon must not affect press handling.
func (n *Notifier) Notify(title, body string) {
	if n == nil || !n.enabled {
		return
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		log.Printf("Notify: %v", err)
	}
}
