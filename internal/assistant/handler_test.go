package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Vovarama1992/kine-assistant/internal/worker"
	"github.com/Vovarama1992/kine-assistant/pkg/logging"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	mu       sync.Mutex
	received []*Message
}

func (s *recordingService) Respond(_ context.Context, msg *Message) (string, bool) {
	return "", false
}

func (s *recordingService) HandleIncoming(_ context.Context, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, msg)
	return nil
}

// inlineSubmitter runs jobs synchronously.
type inlineSubmitter struct{}

func (inlineSubmitter) Submit(job worker.Job) error {
	job(context.Background())
	return nil
}

type refusingSubmitter struct {
	err error
}

func (r refusingSubmitter) Submit(worker.Job) error { return r.err }

type rejectRecorder struct {
	reasons []string
}

func (r *rejectRecorder) ObserveRejected(reason string) { r.reasons = append(r.reasons, reason) }

func newTestRouter(svc Service, pool Submitter, rejects RejectObserver) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(svc, pool, rejects, logging.Nop()))
	return r
}

func postUpdate(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleWebhook_QueuesTextMessage(t *testing.T) {
	svc := &recordingService{}
	router := newTestRouter(svc, inlineSubmitter{}, nil)

	rec := postUpdate(t, router, `{"update_id":1,"message":{"message_id":5,"from":{"id":777},"chat":{"id":-100},"text":"/start Alice"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	require.Len(t, svc.received, 1)
	assert.Equal(t, &Message{ChatID: "-100", ConversationID: "777", Text: "/start Alice"}, svc.received[0])
}

func TestHandleWebhook_FallsBackToChatID(t *testing.T) {
	svc := &recordingService{}
	router := newTestRouter(svc, inlineSubmitter{}, nil)

	rec := postUpdate(t, router, `{"update_id":2,"message":{"chat":{"id":42},"text":"bonjour"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.received, 1)
	assert.Equal(t, "42", svc.received[0].ConversationID)
}

func TestHandleWebhook_IgnoresNonText(t *testing.T) {
	svc := &recordingService{}
	router := newTestRouter(svc, inlineSubmitter{}, nil)

	rec := postUpdate(t, router, `{"update_id":3,"edited_message":{"chat":{"id":42},"text":"x"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postUpdate(t, router, `{"update_id":4,"message":{"chat":{"id":42},"sticker":{}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, svc.received)
}

func TestHandleWebhook_InvalidJSON(t *testing.T) {
	router := newTestRouter(&recordingService{}, inlineSubmitter{}, nil)

	rec := postUpdate(t, router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWebhook_Backpressure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{name: "queue full", err: worker.ErrPoolFull, reason: "pool_full"},
		{name: "shutting down", err: worker.ErrPoolStopped, reason: "pool_stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejects := &rejectRecorder{}
			router := newTestRouter(&recordingService{}, refusingSubmitter{err: tt.err}, rejects)

			rec := postUpdate(t, router, `{"update_id":1,"message":{"chat":{"id":1},"text":"hi"}}`)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Equal(t, []string{tt.reason}, rejects.reasons)
		})
	}
}

func TestIndex(t *testing.T) {
	router := newTestRouter(&recordingService{}, inlineSubmitter{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bot Webhook actif")
}
