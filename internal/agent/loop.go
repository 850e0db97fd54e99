package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"code-manta/internal/conversation"
	"code-manta/internal/events"
	"code-manta/internal/logger"
	"code-manta/internal/prompts"
	"code-manta/internal/tools"
)

const (
	DefaultMaxTurns = 25

	completionTool = "attempt_completion"
	questionTool   = "ask_followup_question"
)

// ErrMaxTurns is returned when the model keeps calling tools past the turn limit.
var ErrMaxTurns = errors.New("turn limit reached before the task finished")

// OutcomeKind 描述一次 Run 的结束方式。
type OutcomeKind string

const (
	// OutcomeText: the model replied without a tool call.
	OutcomeText OutcomeKind = "text"
	// OutcomeCompleted: attempt_completion succeeded.
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomeQuestion: ask_followup_question succeeded; the answer goes into the next Run.
	OutcomeQuestion OutcomeKind = "question"
)

type Outcome struct {
	Kind    OutcomeKind
	Text    string
	Command string
	Turns   int
}

type Options struct {
	Client   ModelClient
	Registry *tools.Registry
	History  *conversation.History
	Workdir  string
	// Instructions are project notes appended to the system prompt.
	Instructions string
	MaxTurns     int
	SessionID    string
	Events       *events.Bus
}

// Agent drives the model/tool loop over a bounded conversation history.
type Agent struct {
	client       ModelClient
	registry     *tools.Registry
	history      *conversation.History
	workdir      string
	instructions string
	maxTurns     int
	sessionID    string
	bus          *events.Bus
	log          *logger.LogEntry
}

func New(opts Options) (*Agent, error) {
	if opts.Client == nil {
		return nil, errors.New("agent: model client is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("agent: tool registry is required")
	}
	history := opts.History
	if history == nil {
		history = conversation.NewHistory(conversation.DefaultMaxTokens, nil)
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Agent{
		client:       opts.Client,
		registry:     opts.Registry,
		history:      history,
		workdir:      opts.Workdir,
		instructions: opts.Instructions,
		maxTurns:     maxTurns,
		sessionID:    opts.SessionID,
		bus:          opts.Events,
		log:          logger.Named("agent"),
	}, nil
}

func (a *Agent) History() *conversation.History { return a.history }

// SystemPrompt 由内置提示词、工具描述与项目说明组成。
func (a *Agent) SystemPrompt() string {
	return prompts.BuildSystemPrompt(prompts.SystemOptions{
		Tools:   a.registry.DescribeAll(),
		Workdir: a.workdir,
		Extra:   a.instructions,
	})
}

// Run appends input as a user message and loops until the model answers
// without a tool call, completes the task or asks a question. The system
// prompt is seeded on the first call; later calls continue the conversation.
func (a *Agent) Run(ctx context.Context, input string) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.history.Len() == 0 {
		a.history.AddSystemMessage(a.SystemPrompt())
	}
	a.history.AddMessage(RoleUser, input)
	a.publish(0, events.EventTaskStarted, input)

	for turn := 1; turn <= a.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return Outcome{Turns: turn - 1}, err
		}
		reply, err := a.client.Complete(ctx, a.history.Context())
		if err != nil {
			a.publish(turn, events.EventError, err)
			return Outcome{Turns: turn}, fmt.Errorf("model completion (turn %d): %w", turn, err)
		}
		a.history.AddMessage(RoleAssistant, reply)
		a.publish(turn, events.EventModelReply, reply)

		name, params, ok := a.registry.ParseCall(reply)
		if !ok {
			return a.finish(Outcome{Kind: OutcomeText, Text: reply, Turns: turn}), nil
		}
		a.log.Debugf("turn %d: tool call %s", turn, name)
		a.publish(turn, events.EventToolCall, events.ToolCall{Name: name, Params: params})

		res := a.registry.Dispatch(ctx, name, params)
		a.publish(turn, events.EventToolResult, events.ToolResult{
			Name: name, Success: res.Success, Message: res.Message, Data: res.Data,
		})

		if res.Success {
			switch name {
			case completionTool:
				return a.finish(Outcome{
					Kind:    OutcomeCompleted,
					Text:    params["result"],
					Command: strings.TrimSpace(params["command"]),
					Turns:   turn,
				}), nil
			case questionTool:
				return a.finish(Outcome{Kind: OutcomeQuestion, Text: params["question"], Turns: turn}), nil
			}
		}
		a.history.AddMessage(RoleUser, Observation(name, res))
	}
	a.publish(a.maxTurns, events.EventError, ErrMaxTurns)
	return Outcome{Turns: a.maxTurns}, ErrMaxTurns
}

func (a *Agent) finish(out Outcome) Outcome {
	a.publish(out.Turns, events.EventTaskFinished, events.TaskFinished{
		Status: string(out.Kind), Text: out.Text, Command: out.Command, Turns: out.Turns,
	})
	return out
}

func (a *Agent) publish(turn int, typ events.EventType, payload any) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(events.Event{
		Type:      typ,
		SessionID: a.sessionID,
		Turn:      turn,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// Observation formats a tool result as the next user message.
func Observation(name string, res tools.Result) string {
	status := "Result"
	if !res.Success {
		status = "Error"
	}
	msg := strings.TrimSpace(res.Message)
	if msg == "" {
		msg = "(no output)"
	}
	return fmt.Sprintf("[%s] %s:\n%s", name, status, msg)
}
