package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Vovarama1992/kine-assistant/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type latencyRecorder struct {
	calls int
	err   error
}

func (l *latencyRecorder) ObserveCompletion(_ float64, err error) {
	l.calls++
	l.err = err
}

func TestGenerator_Generate(t *testing.T) {
	completer := &fakeCompleter{reply: "\n  Continuez vos squats.  \n"}
	observer := &latencyRecorder{}
	gen := NewGenerator(completer, ai.DefaultOpenAIModel, observer)

	out, err := gen.Generate(context.Background(), "Prénom : Alice", "Combien de répétitions ?")
	require.NoError(t, err)
	assert.Equal(t, "Continuez vos squats.", out)

	require.Len(t, completer.requests, 1)
	req := completer.requests[0]
	assert.Equal(t, ai.DefaultOpenAIModel, req.Model)
	assert.Equal(t, ReplyTemperature, req.Temperature)
	assert.Contains(t, req.Prompt, "Prénom : Alice")
	assert.Contains(t, req.Prompt, "Combien de répétitions ?")
	assert.True(t, strings.HasSuffix(req.Prompt, "Tu es un assistant kinésithérapeute."))
	assert.Equal(t, 1, observer.calls)
	assert.NoError(t, observer.err)
}

func TestGenerator_GenerateFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("timeout")}
	observer := &latencyRecorder{}
	gen := NewGenerator(completer, "m", observer)

	_, err := gen.Generate(context.Background(), "ctx", "q")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorContains(t, err, "timeout")
	assert.Error(t, observer.err)
}

func TestGenerator_GenerateBlankIsFailure(t *testing.T) {
	gen := NewGenerator(&fakeCompleter{reply: "   "}, "m", nil)

	_, err := gen.Generate(context.Background(), "ctx", "q")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("Prénom : Alice", "100% sûr ?")
	b := BuildPrompt("Prénom : Alice", "100% sûr ?")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "100% sûr ?")
}
