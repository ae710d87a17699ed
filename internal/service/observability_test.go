package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "update-preferences",
		Duration: 12 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"session": "s1"},
	})
	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "use_case=update-preferences")
	assert.Contains(t, out, "duration_ms=12")
	assert.Contains(t, out, "session=s1")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "detect-location",
		Err:  errors.New("boom"),
	})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}
