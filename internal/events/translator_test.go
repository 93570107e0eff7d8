package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"toolhub/internal/api"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func feed(events ...TraceEvent) <-chan TraceEvent {
	ch := make(chan TraceEvent, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return ch
}

func collect(t *testing.T, out <-chan api.Event) []api.Event {
	t.Helper()
	var got []api.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-out:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("event stream did not close")
			return nil
		}
	}
}

func types(evs []api.Event) []api.EventType {
	out := make([]api.EventType, len(evs))
	for i, e := range evs {
		out[i] = e.Type
	}
	return out
}

func TestTranslator_Sequence(t *testing.T) {
	var persisted []string
	tr := NewTranslator(WithPersister(func(_ context.Context, answer string) error {
		persisted = append(persisted, answer)
		return nil
	}))

	got := collect(t, tr.Run(context.Background(), feed(
		TextFragment{Text: "Let me "},
		TextFragment{Text: ""},
		CapabilityStart{Name: "get_weather", Args: map[string]any{"loc": "Paris"}},
		CapabilityEnd{Name: "get_weather", Result: `{"temp":20}`},
		TextFragment{Text: "check."},
		StreamFinish{},
	)))

	assert.Equal(t, []api.EventType{
		api.EventToken, api.EventToolStart, api.EventToolEnd, api.EventToken, api.EventFinish,
	}, types(got))
	assert.Equal(t, api.TokenData{Content: "Let me "}, got[0].Data)
	assert.Equal(t, api.ToolStartData{ToolName: "get_weather", Input: map[string]any{"loc": "Paris"}}, got[1].Data)
	assert.Equal(t, api.ToolEndData{ToolName: "get_weather", Output: `{"temp":20}`}, got[2].Data)
	assert.Equal(t, api.FinishData{Status: "success"}, got[4].Data)
	assert.Equal(t, []string{"Let me check."}, persisted)
	assert.Equal(t, StateFinished, tr.State())
}

func TestTranslator_ClosedTraceFinishes(t *testing.T) {
	tr := NewTranslator()
	got := collect(t, tr.Run(context.Background(), feed(TextFragment{Text: "hi"})))
	assert.Equal(t, []api.EventType{api.EventToken, api.EventFinish}, types(got))
}

func TestTranslator_FinishWithoutTextSkipsPersistence(t *testing.T) {
	called := false
	tr := NewTranslator(WithPersister(func(context.Context, string) error {
		called = true
		return nil
	}))

	got := collect(t, tr.Run(context.Background(), feed(StreamFinish{})))
	assert.Equal(t, []api.EventType{api.EventFinish}, types(got))
	assert.False(t, called)
}

func TestTranslator_PersistFailureStillFinishes(t *testing.T) {
	tr := NewTranslator(WithPersister(func(context.Context, string) error {
		return errors.New("disk full")
	}))

	got := collect(t, tr.Run(context.Background(), feed(TextFragment{Text: "answer"}, StreamFinish{})))
	assert.Equal(t, []api.EventType{api.EventToken, api.EventFinish}, types(got))
}

func TestTranslator_StreamErrorTerminates(t *testing.T) {
	tr := NewTranslator()
	got := collect(t, tr.Run(context.Background(), feed(
		TextFragment{Text: "partial"},
		StreamError{Message: "model overloaded"},
		TextFragment{Text: "never sent"},
	)))

	assert.Equal(t, []api.EventType{api.EventToken, api.EventError}, types(got))
	assert.Equal(t, api.ErrorData{Message: "model overloaded"}, got[1].Data)
	assert.Equal(t, StateErrored, tr.State())
}

func TestTranslator_NilEventIsAnError(t *testing.T) {
	ch := make(chan TraceEvent, 1)
	ch <- nil
	close(ch)

	got := collect(t, NewTranslator().Run(context.Background(), ch))
	require.Len(t, got, 1)
	assert.Equal(t, api.EventError, got[0].Type)
}

func TestTranslator_SingleUse(t *testing.T) {
	tr := NewTranslator()
	collect(t, tr.Run(context.Background(), feed(StreamFinish{})))

	got := collect(t, tr.Run(context.Background(), feed(TextFragment{Text: "again"})))
	require.Len(t, got, 1)
	assert.Equal(t, api.EventError, got[0].Type)
	assert.Contains(t, got[0].Data.(api.ErrorData).Message, "already used")
	assert.Equal(t, StateFinished, tr.State())
}

func TestTranslator_CancelledCallerStopsWithoutLeak(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	trace := make(chan TraceEvent)
	tr := NewTranslator()
	out := tr.Run(ctx, trace)

	trace <- TextFragment{Text: "first"}
	ev := <-out
	assert.Equal(t, api.EventToken, ev.Type)

	cancel()
	_, ok := <-out
	for ok {
		_, ok = <-out
	}
	assert.Equal(t, StateErrored, tr.State())
}

func TestTranslator_BlockedReaderHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewTranslator()
	out := tr.Run(ctx, feed(TextFragment{Text: "unread"}, StreamFinish{}))

	// Nobody reads; cancellation must still release the translator.
	cancel()
	assert.Eventually(t, func() bool { return tr.State() == StateErrored }, time.Second, 10*time.Millisecond)
	for range out {
	}
}

func TestTranslator_ArgumentSanitization(t *testing.T) {
	long := strings.Repeat("x", 500)
	tr := NewTranslator()
	got := collect(t, tr.Run(context.Background(), feed(
		CapabilityStart{Name: "query_db", Args: map[string]any{
			"sql":         long,
			"limit":       10,
			"runtime":     struct{}{},
			"callbacks":   []string{"cb"},
			"run_manager": "rm",
			"__state":     "internal",
			"handler":     func() {},
		}},
		StreamFinish{},
	)))

	input := got[0].Data.(api.ToolStartData).Input
	assert.Equal(t, []string{"limit", "sql"}, sortedKeys(input))
	assert.Equal(t, 10, input["limit"])
	sql := input["sql"].(string)
	assert.Equal(t, 200+len("..."), utf8.RuneCountInString(sql))
	assert.True(t, strings.HasSuffix(sql, "..."))
}

func TestTranslator_ToolEndRendering(t *testing.T) {
	tr := NewTranslator()
	got := collect(t, tr.Run(context.Background(), feed(
		CapabilityEnd{Name: "mcp", Result: mcp.NewToolResultText("from server")},
		CapabilityEnd{Name: "map", Result: map[string]any{"a": 1}},
		StreamFinish{},
	)))

	assert.Equal(t, "from server", got[0].Data.(api.ToolEndData).Output)
	assert.Equal(t, `{"a":1}`, got[1].Data.(api.ToolEndData).Output)
}
