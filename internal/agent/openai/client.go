package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"code-manta/internal/agent"
	"code-manta/internal/logger"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// WireAPI selects "chat" (default) or "responses".
	WireAPI    string
	MaxRetries int
}

type Client struct {
	api   *openai.Client
	model string
	wire  string
}

// 确保Client实现了agent.ModelClient接口
var _ agent.ModelClient = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("missing model name")
	}
	cfg := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg = append(cfg, option.WithBaseURL(strings.TrimRight(normalizeBaseURL(base), "/")))
	}
	if opts.MaxRetries > 0 {
		cfg = append(cfg, option.WithMaxRetries(opts.MaxRetries))
	}
	client := openai.NewClient(cfg...)

	return &Client{
		api:   &client,
		model: strings.TrimSpace(opts.Model),
		wire:  strings.ToLower(strings.TrimSpace(opts.WireAPI)),
	}, nil
}

func (c *Client) Model() string { return c.model }

func (c *Client) Complete(ctx context.Context, messages []agent.Message) (string, error) {
	logger.Request(c.model, agent.ToLLMMessages(messages), 1)
	var (
		text string
		err  error
	)
	if c.wire == "responses" {
		text, err = c.completeResponses(ctx, messages)
	} else {
		text, err = c.completeChat(ctx, messages)
	}
	if err != nil {
		logger.Error(c.model, err, 1)
		return "", err
	}
	logger.Response(c.model, text, 1)
	return text, nil
}

func (c *Client) completeChat(ctx context.Context, messages []agent.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: toChatMessages(messages),
	}
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapHTTPError(err)
	}
	logger.Usage(c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) completeResponses(ctx context.Context, messages []agent.Message) (string, error) {
	instructions, convo := splitInstructions(messages)
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
	}
	if instructions != "" {
		params.Instructions = openai.String(instructions)
	}
	if len(convo) > 0 {
		params.Input.OfInputItemList = responses.ResponseInputParam(toResponseInput(convo))
	}

	resp, err := c.api.Responses.New(ctx, params)
	if err != nil {
		return "", wrapHTTPError(err)
	}
	if resp.Error.Message != "" && resp.Error.JSON.Message.Valid() {
		return "", errors.New(resp.Error.Message)
	}
	logger.Usage(c.model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	if text := extractResponseText(resp); text != "" {
		return text, nil
	}
	return "", errors.New("responses api returned no text")
}

func toChatMessages(msgs []agent.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case agent.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case agent.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func toResponseInput(msgs []agent.Message) []responses.ResponseInputItemUnionParam {
	items := make([]responses.ResponseInputItemUnionParam, 0, len(msgs))
	for _, msg := range msgs {
		items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, toResponseRole(msg.Role)))
	}
	return items
}

func toResponseRole(role agent.Role) responses.EasyInputMessageRole {
	switch role {
	case agent.RoleAssistant:
		return responses.EasyInputMessageRoleAssistant
	case agent.RoleSystem:
		return responses.EasyInputMessageRoleSystem
	default:
		return responses.EasyInputMessageRoleUser
	}
}

func splitInstructions(messages []agent.Message) (string, []agent.Message) {
	var instructions []string
	convo := make([]agent.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == agent.RoleSystem {
			instructions = append(instructions, strings.TrimSpace(msg.Content))
			continue
		}
		convo = append(convo, msg)
	}
	return strings.Join(instructions, "\n\n"), convo
}

func extractResponseText(resp *responses.Response) string {
	if resp == nil {
		return ""
	}
	if text := strings.TrimSpace(resp.OutputText()); text != "" {
		return text
	}
	for _, item := range resp.Output {
		for _, content := range item.Content {
			if text := strings.TrimSpace(content.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func wrapHTTPError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		respDump := strings.TrimSpace(string(apiErr.DumpResponse(true)))
		if respDump != "" {
			return fmt.Errorf("http_%d: %s", apiErr.StatusCode, respDump)
		}
		raw := strings.TrimSpace(apiErr.RawJSON())
		if raw != "" {
			return fmt.Errorf("http_%d: %s", apiErr.StatusCode, raw)
		}
		return fmt.Errorf("http_%d: %v", apiErr.StatusCode, err)
	}
	return err
}
