package agent

import (
	"context"
	"errors"

	"code-manta/internal/logger"
)

// ModelClient 定义模型客户端接口：输入完整对话，返回助手的文本回复。
type ModelClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// EchoClient is a fallback when no API key is available.
type EchoClient struct {
	Prefix string
}

func (c EchoClient) Complete(_ context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages to echo")
	}
	last := messages[len(messages)-1]
	return c.Prefix + last.Content, nil
}

// ToLLMMessages 将内部消息转换为日志友好的结构。
func ToLLMMessages(msgs []Message) []logger.LLMMessage {
	out := make([]logger.LLMMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, logger.LLMMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}
