package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/google/uuid"

	"code-manta/internal/agent"
	"code-manta/internal/conversation"
	"code-manta/internal/events"
	"code-manta/internal/history"
	"code-manta/internal/instructions"
	"code-manta/internal/session"
)

type chatArgs struct {
	overrides stringSlice
	resumeID  string
	last      bool
	maxTurns  int
	prompt    string
}

func newChatFlagSet(name string) (*flag.FlagSet, *chatArgs) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cli := &chatArgs{}
	fs.Var(&cli.overrides, "c", "Override config key=value (repeatable)")
	fs.StringVar(&cli.resumeID, "resume", "", "Session id to resume")
	fs.BoolVar(&cli.last, "last", false, "Resume the most recent session in this workdir")
	fs.IntVar(&cli.maxTurns, "max-turns", 0, "Model turns allowed per task (default from config)")
	return fs, cli
}

func chatMain(root rootArgs, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := runChat(ctx, root, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("chat: %v", err)
	}
}

// runChat 运行交互式会话：首个任务来自参数或 stdin，之后每行输入继续同一会话，EOF 或空行结束。
func runChat(ctx context.Context, root rootArgs, args []string, in io.Reader, out io.Writer) error {
	fs, cli := newChatFlagSet("chat")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cli.prompt = strings.TrimSpace(strings.Join(fs.Args(), " "))

	rt, err := loadRuntime(root, cli.overrides)
	if err != nil {
		return err
	}
	client, err := buildModelClient(rt.cfg.Model)
	if errors.Is(err, errNoCredentials) {
		log.Warnf("no token for provider %s; falling back to echo mode", rt.cfg.Model.Provider)
		client, err = agent.EchoClient{Prefix: "assistant: "}, nil
	}
	if err != nil {
		return err
	}

	store, err := session.NewDefault()
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	hist := rt.history()
	rec := session.Record{Workdir: rt.workdir}
	if cli.resumeID != "" || cli.last {
		rec, err = loadSession(store, cli.resumeID, rt.workdir)
		if err != nil {
			return fmt.Errorf("resume session: %w", err)
		}
		seedHistory(hist, rec.Messages)
		fmt.Fprintf(out, "%s %s\n", dimStyle.Render("resumed session"), rec.ID)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	reader := bufio.NewReader(in)
	var ioMu sync.Mutex
	bus := events.NewBus()
	stream := bus.Subscribe()
	rendered := make(chan struct{})
	go renderEvents(lockedWriter{w: out, mu: &ioMu}, stream, rendered)

	maxTurns := rt.cfg.MaxTurns
	if cli.maxTurns > 0 {
		maxTurns = cli.maxTurns
	}
	ag, err := agent.New(agent.Options{
		Client:       client,
		Registry:     rt.registry(newPromptApprover(reader, out, &ioMu)),
		History:      hist,
		Workdir:      rt.workdir,
		Instructions: instructions.Discover(rt.workdir),
		MaxTurns:     maxTurns,
		SessionID:    rec.ID,
		Events:       bus,
	})
	if err != nil {
		bus.Close()
		<-rendered
		return err
	}

	tasks := openTaskLog()
	input := cli.prompt
	var runErr error
	for {
		if input == "" {
			input = readLine(reader, out, &ioMu, "> ")
			if input == "" {
				break
			}
		}
		if rec.Task == "" {
			rec.Task = input
		}
		outcome, err := ag.Run(ctx, input)
		waitRendered(bus)
		ioMu.Lock()
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", failStyle.Render("error:"), err)
		} else {
			renderOutcome(out, outcome)
		}
		ioMu.Unlock()
		recordTask(tasks, input, rec.ID, outcome, err)
		if err != nil {
			runErr = err
			if !errors.Is(err, agent.ErrMaxTurns) {
				break
			}
		}
		if outcome.Kind == agent.OutcomeCompleted {
			break
		}
		input = ""
	}
	bus.Close()
	<-rendered

	rec.Messages = hist.Context()
	if len(rec.Messages) > 0 {
		id, err := store.Save(rec)
		if err != nil {
			log.Warnf("failed to save session: %v", err)
		} else {
			fmt.Fprintf(out, "To continue this session, run code-manta chat -resume %s\n", id)
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func loadSession(store *session.Store, id, workdir string) (session.Record, error) {
	if id != "" {
		return store.Load(id)
	}
	recs, err := store.List(workdir)
	if err != nil {
		return session.Record{}, err
	}
	if len(recs) == 0 {
		return store.Last()
	}
	return recs[0], nil
}

// seedHistory 将保存的消息按原顺序写回，system 消息保持置顶。
func seedHistory(h *conversation.History, msgs []conversation.Message) {
	for _, m := range msgs {
		if m.Role == conversation.RoleSystem {
			h.AddSystemMessage(m.Content)
			continue
		}
		h.AddMessage(m.Role, m.Content)
	}
}

func openTaskLog() *history.Store {
	store, err := history.NewDefault()
	if err != nil {
		log.Warnf("task history unavailable: %v", err)
		return nil
	}
	return store
}

func recordTask(store *history.Store, task, sessionID string, out agent.Outcome, err error) {
	if store == nil {
		return
	}
	outcome := string(out.Kind)
	if err != nil {
		outcome = "error"
	}
	if appendErr := store.Append(history.Entry{Task: task, SessionID: sessionID, Outcome: outcome}); appendErr != nil {
		log.Warnf("failed to record task: %v", appendErr)
	}
}

// waitRendered 等待渲染协程处理完此前发布的全部事件。
func waitRendered(bus *events.Bus) {
	done := make(chan struct{})
	bus.Publish(events.Event{Type: renderFlush, Payload: flushMarker(done)})
	<-done
}

func readLine(r *bufio.Reader, out io.Writer, mu *sync.Mutex, prompt string) string {
	mu.Lock()
	fmt.Fprint(out, titleStyle.Render(prompt))
	mu.Unlock()
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// promptApprover 在终端上询问是否执行命令，只有 y/yes 视为同意。
type promptApprover struct {
	in  *bufio.Reader
	out io.Writer
	mu  *sync.Mutex
}

func newPromptApprover(in *bufio.Reader, out io.Writer, mu *sync.Mutex) *promptApprover {
	return &promptApprover{in: in, out: out, mu: mu}
}

func (p *promptApprover) Approve(ctx context.Context, command string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	fmt.Fprintf(p.out, "%s %s\n%s", titleStyle.Render("Run command?"), command, dimStyle.Render("[y/N] "))
	p.mu.Unlock()
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
