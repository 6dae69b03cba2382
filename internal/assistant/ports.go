package assistant

import (
	"context"

	"github.com/Vovarama1992/kine-assistant/internal/patients"
)

// Message is one inbound chat message.
type Message struct {
	// ChatID is where the reply goes.
	ChatID string
	// ConversationID keys the session; the sender's user id on Telegram.
	ConversationID string
	Text           string
}

// Outbound delivers replies to the chat platform.
type Outbound interface {
	SendToChat(ctx context.Context, chatID string, text string) error
}

// PatientFinder resolves an identifier against the current record store.
type PatientFinder interface {
	Find(ctx context.Context, identifier string) (patients.Record, bool, error)
}

// ResponseGenerator turns a patient context and a question into a reply.
type ResponseGenerator interface {
	Generate(ctx context.Context, patientContext, question string) (string, error)
}

// ReplyObserver counts replies by outcome.
type ReplyObserver interface {
	ObserveReply(outcome string)
}

// CompletionObserver records completion latency.
type CompletionObserver interface {
	ObserveCompletion(seconds float64, err error)
}

// Service is the conversation orchestrator.
type Service interface {
	// Respond computes the single reply for msg. ok is false only for
	// messages that are deliberately ignored (unknown slash commands).
	Respond(ctx context.Context, msg *Message) (reply string, ok bool)
	// HandleIncoming responds and delivers the reply through Outbound.
	HandleIncoming(ctx context.Context, msg *Message) error
}
