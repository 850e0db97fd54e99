package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"code-manta/internal/conversation"
	"code-manta/internal/events"
	"code-manta/internal/tools"
	"code-manta/internal/tools/handlers"
)

// scriptedClient replays canned replies and records what it was sent.
type scriptedClient struct {
	replies []string
	calls   [][]Message
	err     error
}

func (c *scriptedClient) Complete(_ context.Context, messages []Message) (string, error) {
	c.calls = append(c.calls, append([]Message(nil), messages...))
	if c.err != nil {
		return "", c.err
	}
	if len(c.calls) > len(c.replies) {
		return "", errors.New("script exhausted")
	}
	return c.replies[len(c.calls)-1], nil
}

func newTestAgent(t *testing.T, client ModelClient, maxTurns int, bus *events.Bus) (*Agent, string) {
	t.Helper()
	dir := t.TempDir()
	runner := tools.DirectRunner{Dir: dir}
	reg := tools.NewRegistry(
		handlers.ReadFileTool{Runner: runner},
		handlers.WriteFileTool{Runner: runner},
		handlers.AskFollowupQuestionTool{},
		handlers.AttemptCompletionTool{},
	)
	a, err := New(Options{
		Client:   client,
		Registry: reg,
		History:  conversation.NewHistory(100000, nil),
		Workdir:  dir,
		MaxTurns: maxTurns,
		Events:   bus,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, dir
}

func TestRunToolThenCompletion(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"Let me look.\n<read_file>\n<path>notes.txt</path>\n</read_file>",
		"<attempt_completion>\n<result>The note says hi.</result>\n<command>cat notes.txt</command>\n</attempt_completion>",
	}}
	a, dir := newTestAgent(t, client, 5, nil)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := a.Run(context.Background(), "what does notes.txt say?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind != OutcomeCompleted || out.Text != "The note says hi." || out.Command != "cat notes.txt" || out.Turns != 2 {
		t.Fatalf("outcome = %+v", out)
	}

	second := client.calls[1]
	last := second[len(second)-1]
	if last.Role != RoleUser || last.Content != "[read_file] Result:\nhi" {
		t.Fatalf("observation = %+v", last)
	}
	if second[0].Role != RoleSystem || !strings.Contains(second[0].Content, "## read_file") {
		t.Fatalf("system prompt missing tool descriptions: %q", second[0].Content)
	}
}

func TestRunPlainTextEndsTurn(t *testing.T) {
	client := &scriptedClient{replies: []string{"Sure, what would you like me to do?"}}
	a, _ := newTestAgent(t, client, 5, nil)

	out, err := a.Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind != OutcomeText || out.Text != "Sure, what would you like me to do?" || out.Turns != 1 {
		t.Fatalf("outcome = %+v", out)
	}
	if got := a.History().Len(); got != 3 {
		t.Fatalf("history len = %d, want 3", got)
	}
}

func TestRunQuestionThenResume(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"<ask_followup_question><question>Which file?</question></ask_followup_question>",
		"<attempt_completion><result>Done with b.txt</result></attempt_completion>",
	}}
	a, _ := newTestAgent(t, client, 5, nil)

	out, err := a.Run(context.Background(), "edit the file")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind != OutcomeQuestion || out.Text != "Which file?" {
		t.Fatalf("outcome = %+v", out)
	}

	out, err = a.Run(context.Background(), "b.txt")
	if err != nil {
		t.Fatalf("Run (resume): %v", err)
	}
	if out.Kind != OutcomeCompleted {
		t.Fatalf("outcome = %+v", out)
	}
	msgs := client.calls[1]
	systems := 0
	for _, m := range msgs {
		if m.Role == RoleSystem {
			systems++
		}
	}
	if systems != 1 || msgs[len(msgs)-1].Content != "b.txt" {
		t.Fatalf("resumed conversation = %+v", msgs)
	}
}

func TestRunFailedToolIsFedBack(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"<ghost_tool><x>1</x></ghost_tool><read_file><path>missing.txt</path></read_file>",
		"<attempt_completion><result>gave up</result></attempt_completion>",
	}}
	a, _ := newTestAgent(t, client, 5, nil)

	if _, err := a.Run(context.Background(), "read it"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	obs := client.calls[1][len(client.calls[1])-1].Content
	if !strings.HasPrefix(obs, "[read_file] Error:\nTool execution failed: read_file") {
		t.Fatalf("observation = %q", obs)
	}
}

func TestRunMaxTurns(t *testing.T) {
	loop := "<read_file><path>x</path></read_file>"
	client := &scriptedClient{replies: []string{loop, loop, loop}}
	a, _ := newTestAgent(t, client, 2, nil)

	out, err := a.Run(context.Background(), "spin")
	if !errors.Is(err, ErrMaxTurns) {
		t.Fatalf("err = %v, want ErrMaxTurns", err)
	}
	if out.Turns != 2 || len(client.calls) != 2 {
		t.Fatalf("turns = %d, calls = %d", out.Turns, len(client.calls))
	}
}

func TestRunModelError(t *testing.T) {
	client := &scriptedClient{err: errors.New("boom")}
	a, _ := newTestAgent(t, client, 3, nil)
	if _, err := a.Run(context.Background(), "x"); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunPublishesEvents(t *testing.T) {
	bus := events.NewBus()
	ch := bus.Subscribe()
	var got []events.EventType
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for evt := range ch {
			got = append(got, evt.Type)
		}
	}()

	client := &scriptedClient{replies: []string{
		"<attempt_completion><result>ok</result></attempt_completion>",
	}}
	a, _ := newTestAgent(t, client, 3, bus)
	if _, err := a.Run(context.Background(), "go"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	bus.Close()
	wg.Wait()

	want := []events.EventType{
		events.EventTaskStarted, events.EventModelReply, events.EventToolCall,
		events.EventToolResult, events.EventTaskFinished,
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Options{Registry: tools.NewRegistry()}); err == nil {
		t.Fatalf("expected error without client")
	}
	if _, err := New(Options{Client: EchoClient{}}); err == nil {
		t.Fatalf("expected error without registry")
	}
}

func TestEchoClient(t *testing.T) {
	got, err := EchoClient{Prefix: "echo: "}.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil || got != "echo: hi" {
		t.Fatalf("EchoClient = %q, %v", got, err)
	}
	if _, err := (EchoClient{}).Complete(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty conversation")
	}
}

func TestObservation(t *testing.T) {
	if got := Observation("x", tools.Failed("")); got != "[x] Error:\n(no output)" {
		t.Fatalf("Observation = %q", got)
	}
}
