package ports

import "context"

// Messenger defines the contract for delivering chat replies
type Messenger interface {
	// SendMessage delivers text to the given chat
	SendMessage(ctx context.Context, chatID int64, text string) error

	// Enabled reports whether the messenger has credentials configured
	Enabled() bool
}
