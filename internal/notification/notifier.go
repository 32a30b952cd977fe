package notification

import (
	"context"
	"log"
)

// Notifier is the notification collaborator: owner alerts about new
// submissions and confirmation messages back to artists. Both are
// best-effort; callers must never fail a request on a notification error.
type Notifier interface {
	NotifyOwner(ctx context.Context, title, content string) (bool, error)
	SendArtistConfirmation(ctx context.Context, artistName, email, songTitle string) error
}

// ConsoleNotifier logs instead of delivering. Used in development and
// tests; a real mail/webhook transport implements the same interface.
type ConsoleNotifier struct {
	enabled bool
}

func NewConsoleNotifier(enabled bool) *ConsoleNotifier {
	return &ConsoleNotifier{enabled: enabled}
}

func (n *ConsoleNotifier) NotifyOwner(_ context.Context, title, content string) (bool, error) {
	if n.enabled {
		log.Printf("[DEV-NOTIFY] owner title=%q content=%q", title, content)
	}
	return true, nil
}

func (n *ConsoleNotifier) SendArtistConfirmation(_ context.Context, artistName, email, songTitle string) error {
	if n.enabled {
		log.Printf("[DEV-EMAIL] artist confirmation artist=%q email=%s song=%q", artistName, email, songTitle)
	}
	return nil
}
