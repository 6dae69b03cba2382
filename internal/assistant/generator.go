package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vovarama1992/kine-assistant/internal/ai"
)

// ErrGenerationFailed wraps every completion service failure.
var ErrGenerationFailed = errors.New("assistant: generation failed")

// ReplyTemperature is fixed; it is not user configurable.
const ReplyTemperature float32 = 0.7

// Generator builds the reply prompt and delegates to the completion service.
type Generator struct {
	completer ai.Completer
	model     string
	observer  CompletionObserver
}

func NewGenerator(completer ai.Completer, model string, observer CompletionObserver) *Generator {
	return &Generator{completer: completer, model: model, observer: observer}
}

func (g *Generator) Generate(ctx context.Context, patientContext, question string) (string, error) {
	start := time.Now()
	out, err := g.completer.Complete(ctx, ai.Request{
		Model:       g.model,
		Prompt:      BuildPrompt(patientContext, question),
		Temperature: ReplyTemperature,
	})
	if g.observer != nil {
		g.observer.ObserveCompletion(time.Since(start).Seconds(), err)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, ai.ErrEmptyCompletion)
	}
	return out, nil
}
