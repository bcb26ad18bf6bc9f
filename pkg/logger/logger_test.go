package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "gifty", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithTraceID(context.Background(), "trace-123")
	ctx = log.WithSessionID(ctx, "sess-1")
	log.Error(ctx, "generation failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"trace_id":"trace-123"`)
	assert.Contains(t, out, `"session_id":"sess-1"`)
	assert.Contains(t, out, `"service":"gifty"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"stack"`)
}

func TestWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	New(Options{Output: buf}).Warn(context.Background(), "plain")
	assert.NotContains(t, buf.String(), `"stack"`)

	buf.Reset()
	New(Options{Output: buf, WarnStack: true}).Warn(context.Background(), "stacked")
	assert.Contains(t, buf.String(), `"stack"`)
}

func TestLevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Level: ParseLevel("warn"), Output: buf})
	log.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info(context.Background(), "ignored")
	assert.NotNil(t, log.Zerolog(context.Background()))
}
