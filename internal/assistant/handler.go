package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/kine-assistant/internal/worker"
	"github.com/Vovarama1992/kine-assistant/pkg/logging"
)

// Submitter queues background work; worker.Pool in production.
type Submitter interface {
	Submit(job worker.Job) error
}

// RejectObserver counts webhooks refused under backpressure.
type RejectObserver interface {
	ObserveRejected(reason string)
}

type Handler struct {
	svc     Service
	pool    Submitter
	metrics RejectObserver
	logger  *logging.Logger
}

func NewHandler(svc Service, pool Submitter, metrics RejectObserver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, pool: pool, metrics: metrics, logger: logger}
}

type telegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *telegramMessage `json:"message"`
}

type telegramMessage struct {
	MessageID int64 `json:"message_id"`
	From      *struct {
		ID int64 `json:"id"`
	} `json:"from"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Text string `json:"text"`
}

// Index answers liveness probes on the webhook host.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Bot Webhook actif ✅"))
}

// HandleWebhook queues a Telegram update and ACKs right away; the reply is
// sent by a pool worker.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update telegramUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	// Edits, callbacks, stickers and the like carry no text to answer.
	if update.Message == nil || update.Message.Text == "" {
		writeOK(w)
		return
	}

	msg := toMessage(update.Message)
	err := h.pool.Submit(func(ctx context.Context) {
		if err := h.svc.HandleIncoming(ctx, msg); err != nil {
			h.logger.Error("incoming message failed", "update_id", update.UpdateID, "error", err)
		}
	})
	if err != nil {
		reason := "pool_full"
		if errors.Is(err, worker.ErrPoolStopped) {
			reason = "pool_stopped"
		}
		if h.metrics != nil {
			h.metrics.ObserveRejected(reason)
		}
		h.logger.Warn("webhook rejected", "update_id", update.UpdateID, "reason", reason)
		http.Error(w, "busy, retry later", http.StatusServiceUnavailable)
		return
	}

	writeOK(w)
}

func toMessage(m *telegramMessage) *Message {
	chatID := strconv.FormatInt(m.Chat.ID, 10)
	conversationID := chatID
	if m.From != nil && m.From.ID != 0 {
		conversationID = strconv.FormatInt(m.From.ID, 10)
	}
	return &Message{
		ChatID:         chatID,
		ConversationID: conversationID,
		Text:           m.Text,
	}
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
