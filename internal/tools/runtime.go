package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// Dispatch 查找并执行工具。Dispatch never panics and never returns an error:
// unknown names, validation rejections, execution errors and panics all
// become a failed Result.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]string) Result {
	callID := uuid.NewString()
	if params == nil {
		params = map[string]string{}
	}
	tool, ok := r.Tool(name)
	logToolRequest(callID, name, params, ok)
	if !ok {
		res := Failed(unknownToolMessage(name, r.Names()))
		logToolResult(callID, name, res)
		return res
	}
	if ctx == nil {
		ctx = context.Background()
	}

	res := runTool(ctx, tool, name, params)
	logToolResult(callID, name, res)
	return res
}

func runTool(ctx context.Context, tool Tool, name string, params map[string]string) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Failed(executionFailedMessage(name, fmt.Errorf("panic: %v", p)))
		}
	}()

	if err := tool.Validate(params); err != nil {
		return Failed(executionFailedMessage(name, err))
	}
	out, err := tool.Execute(ctx, params)
	if err != nil {
		return Failed(executionFailedMessage(name, err))
	}
	return out
}

func executionFailedMessage(name string, err error) string {
	return fmt.Sprintf("Tool execution failed: %s: %v", name, err)
}

func unknownToolMessage(name string, known []string) string {
	msg := "Unknown tool: " + name
	if hint := closestNames(name, known); len(hint) > 0 {
		msg += " (did you mean " + strings.Join(hint, ", ") + "?)"
	}
	return msg
}

// closestNames returns up to three registered names fuzzily matching name.
func closestNames(name string, known []string) []string {
	name = strings.TrimSpace(name)
	if name == "" || len(known) == 0 {
		return nil
	}
	matches := fuzzy.Find(name, known)
	out := make([]string, 0, 3)
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}
