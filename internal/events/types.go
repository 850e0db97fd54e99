package events

import "time"

// EventType 描述 agent 循环中分发的事件类型。
type EventType string

const (
	EventTaskStarted  EventType = "task.started"
	EventModelReply   EventType = "model.reply"
	EventToolCall     EventType = "tool.call"
	EventToolResult   EventType = "tool.result"
	EventTaskFinished EventType = "task.finished"
	EventError        EventType = "task.error"
)

// ToolCall is the payload of EventToolCall.
type ToolCall struct {
	Name   string
	Params map[string]string
}

// ToolResult is the payload of EventToolResult.
type ToolResult struct {
	Name    string
	Success bool
	Message string
	Data    any
}

// TaskFinished is the payload of EventTaskFinished.
// Status is one of completed|question|text.
type TaskFinished struct {
	Status  string
	Text    string
	Command string
	Turns   int
}

// Event 是事件流中传递的唯一消息格式，Payload 的结构由 Type 决定。
type Event struct {
	Type      EventType
	SessionID string
	Turn      int
	Timestamp time.Time
	Payload   any
}
