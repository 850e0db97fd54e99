package agent

import "code-manta/internal/conversation"

// Message 与对话历史共用同一结构。
type Message = conversation.Message

type Role = conversation.Role

const (
	RoleUser      = conversation.RoleUser
	RoleAssistant = conversation.RoleAssistant
	RoleSystem    = conversation.RoleSystem
)
