package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"code-manta/internal/agent"
	"code-manta/internal/logger"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 4096

type Options struct {
	Token      string
	BaseURL    string
	Model      string
	MaxTokens  int64
	MaxRetries int
}

type Client struct {
	api       *anthropic.Client
	model     string
	maxTokens int64
}

var _ agent.ModelClient = (*Client)(nil)

func New(opts Options) (*Client, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, errors.New("missing token")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, errors.New("missing model name")
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(token),
	}
	if base := normalizeBaseURL(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	if opts.MaxRetries > 0 {
		reqOpts = append(reqOpts, option.WithMaxRetries(opts.MaxRetries))
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	client := anthropic.NewClient(reqOpts...)
	return &Client{
		api:       &client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	base = strings.TrimRight(base, "/")
	base = strings.TrimSuffix(base, "/messages")
	if strings.HasSuffix(base, "/v1") {
		base = strings.TrimSuffix(base, "/v1")
		base = strings.TrimRight(base, "/")
	}
	return base
}

func (c *Client) Model() string { return c.model }

func (c *Client) Complete(ctx context.Context, messages []agent.Message) (string, error) {
	logger.Request(c.model, agent.ToLLMMessages(messages), 1)
	params := buildMessageParams(messages, anthropic.Model(c.model), c.maxTokens)
	if len(params.Messages) == 0 {
		err := errors.New("no user or assistant messages to send")
		logger.Error(c.model, err, 1)
		return "", err
	}
	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		err = wrapHTTPError(err)
		logger.Error(c.model, err, 1)
		return "", err
	}
	logger.Usage(c.model, msg.Usage.InputTokens, msg.Usage.OutputTokens)
	text := strings.TrimSpace(extractText(msg.Content))
	logger.Response(c.model, text, 1)
	return text, nil
}

// buildMessageParams 将 system 消息合并为 System 块，其余消息按角色映射，
// 相邻同角色消息合并以满足接口的交替要求。
func buildMessageParams(msgs []agent.Message, model anthropic.Model, maxTokens int64) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	var lastRole agent.Role

	for _, msg := range msgs {
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			continue
		}
		if msg.Role == agent.RoleSystem {
			system = append(system, anthropic.TextBlockParam{Text: text})
			continue
		}
		role := agent.RoleUser
		if msg.Role == agent.RoleAssistant {
			role = agent.RoleAssistant
		}
		if len(messages) > 0 && role == lastRole {
			last := &messages[len(messages)-1]
			last.Content = append(last.Content, anthropic.NewTextBlock(text))
			continue
		}
		if role == agent.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
		} else {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		}
		lastRole = role
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}
	return params
}

func extractText(blocks []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range blocks {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(v.Text)
		}
	}
	return sb.String()
}

func wrapHTTPError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		if raw := strings.TrimSpace(apiErr.RawJSON()); raw != "" {
			return fmt.Errorf("http_%d: %s", apiErr.StatusCode, raw)
		}
		return fmt.Errorf("http_%d: %v", apiErr.StatusCode, err)
	}
	return err
}
