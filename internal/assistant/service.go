package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/Vovarama1992/kine-assistant/internal/patients"
	"github.com/Vovarama1992/kine-assistant/internal/session"
	"github.com/Vovarama1992/kine-assistant/pkg/logging"
)

const identifyCommand = "start"

// Deps wires the orchestrator.
type Deps struct {
	Finder            PatientFinder
	Generator         ResponseGenerator
	Sessions          session.Store
	Locks             *session.Locks
	Outbound          Outbound
	Metrics           ReplyObserver
	Logger            *logging.Logger
	StoreTimeout      time.Duration
	CompletionTimeout time.Duration
}

type service struct {
	finder            PatientFinder
	generator         ResponseGenerator
	sessions          session.Store
	locks             *session.Locks
	outbound          Outbound
	metrics           ReplyObserver
	logger            *logging.Logger
	storeTimeout      time.Duration
	completionTimeout time.Duration
}

func NewService(d Deps) Service {
	if d.Locks == nil {
		d.Locks = session.NewLocks()
	}
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	return &service{
		finder:            d.Finder,
		generator:         d.Generator,
		sessions:          d.Sessions,
		locks:             d.Locks,
		outbound:          d.Outbound,
		metrics:           d.Metrics,
		logger:            d.Logger,
		storeTimeout:      d.StoreTimeout,
		completionTimeout: d.CompletionTimeout,
	}
}

func (s *service) HandleIncoming(ctx context.Context, msg *Message) error {
	reply, ok := s.Respond(ctx, msg)
	if !ok {
		return nil
	}
	if err := s.outbound.SendToChat(ctx, msg.ChatID, reply); err != nil {
		s.logger.Error("reply delivery failed", "chat_id", msg.ChatID, "error", err)
		return err
	}
	return nil
}

func (s *service) Respond(ctx context.Context, msg *Message) (string, bool) {
	unlock := s.locks.Lock(msg.ConversationID)
	defer unlock()

	s.logger.Info("message received", "conversation_id", msg.ConversationID)

	if cmd, arg, isCommand := parseCommand(msg.Text); isCommand {
		if cmd != identifyCommand {
			s.logger.Debug("command ignored", "conversation_id", msg.ConversationID, "command", cmd)
			return "", false
		}
		return s.identify(ctx, msg.ConversationID, arg), true
	}

	return s.answer(ctx, msg.ConversationID, strings.TrimSpace(msg.Text)), true
}

// identify remembers the supplied identifier; resolution happens on the next
// free-text message.
func (s *service) identify(ctx context.Context, conversationID, arg string) string {
	if arg != "" {
		if err := s.sessions.Set(ctx, conversationID, strings.ToLower(arg)); err != nil {
			s.logger.Error("session write failed", "conversation_id", conversationID, "error", err)
		}
	}
	s.observe(OutcomeGreeting)
	return GreetingReply
}

func (s *service) answer(ctx context.Context, conversationID, question string) string {
	identifier := question
	stored, ok, err := s.sessions.Get(ctx, conversationID)
	switch {
	case err != nil:
		s.logger.Warn("session read failed, using message text", "conversation_id", conversationID, "error", err)
	case ok:
		identifier = stored
	}

	findCtx, cancel := withTimeout(ctx, s.storeTimeout)
	rec, found, err := s.finder.Find(findCtx, identifier)
	cancel()
	if err != nil {
		s.logger.Error("patient lookup failed", "conversation_id", conversationID, "error", err)
		s.observe(OutcomeStoreUnavailable)
		return RetryLaterReply
	}
	if !found {
		s.observe(OutcomeNotFound)
		return NotFoundReply
	}

	genCtx, cancel := withTimeout(ctx, s.completionTimeout)
	reply, err := s.generator.Generate(genCtx, patients.Assemble(rec), question)
	cancel()
	if err != nil {
		// The prompt carries patient data and stays out of the logs.
		s.logger.Error("reply generation failed", "conversation_id", conversationID, "error", err)
		s.observe(OutcomeGenerationFailed)
		return ApologyReply
	}

	s.observe(OutcomeAnswered)
	return reply
}

func (s *service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveReply(outcome)
	}
}

// parseCommand splits "/cmd@bot arg ..." into its lower-cased command and
// first argument.
func parseCommand(text string) (cmd, arg string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", "", false
	}

	cmd = strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	if len(fields) > 1 {
		arg = fields[1]
	}
	return strings.ToLower(cmd), arg, true
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
