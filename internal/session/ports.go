package session

import "context"

// Store remembers the last identifier a conversation supplied.
type Store interface {
	Get(ctx context.Context, conversationID string) (string, bool, error)
	Set(ctx context.Context, conversationID, identifier string) error
}
