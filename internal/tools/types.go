package tools

import "context"

// Tool 定义具体工具的执行入口。
type Tool interface {
	Name() string
	// Description is the prompt-facing usage text, including the tag format.
	Description() string
	Validate(params map[string]string) error
	Execute(ctx context.Context, params map[string]string) (Result, error)
}

// Result is what every tool execution and every dispatch returns.
type Result struct {
	Success bool
	Message string
	Data    any
}

// Succeeded builds a successful Result.
func Succeeded(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Failed builds a failed Result.
func Failed(message string) Result {
	return Result{Success: false, Message: message}
}

// ParsedTool is one tool call extracted from model text.
type ParsedTool struct {
	Name   string
	Params map[string]string
	// Keys lists parameter names in the order they appeared.
	Keys []string
}

// Param returns a parameter value and whether it was present.
func (p ParsedTool) Param(key string) (string, bool) {
	v, ok := p.Params[key]
	return v, ok
}
