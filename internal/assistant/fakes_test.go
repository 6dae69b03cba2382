package assistant

import (
	"context"
	"sync"

	"github.com/Vovarama1992/kine-assistant/internal/ai"
	"github.com/Vovarama1992/kine-assistant/internal/patients"
)

type fakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []ai.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type stubStore struct {
	mu      sync.Mutex
	records patients.RecordSet
	err     error
	calls   int
}

func (s *stubStore) FetchAll(_ context.Context) (patients.RecordSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.records, s.err
}

type sentMessage struct {
	chatID string
	text   string
}

type fakeOutbound struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeOutbound) SendToChat(_ context.Context, chatID string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return f.err
}

type failingSessions struct {
	err error
}

func (f failingSessions) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingSessions) Set(context.Context, string, string) error         { return f.err }

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *outcomeRecorder) ObserveReply(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}
