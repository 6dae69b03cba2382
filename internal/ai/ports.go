package ai

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when a backend answers without any text.
var ErrEmptyCompletion = errors.New("ai: empty completion")

// Completer is the external text-generation backend. It knows nothing about
// patients or chats: one prompt in, generated text out.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn completion call.
type Request struct {
	Model       string
	Prompt      string
	Temperature float32
}
