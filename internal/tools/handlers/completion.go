package handlers

import (
	"context"

	"code-manta/internal/tools"
)

// Completion is the Data payload of attempt_completion.
type Completion struct {
	Result  string
	Command string
}

type AttemptCompletionTool struct{}

func (AttemptCompletionTool) Name() string { return "attempt_completion" }

func (AttemptCompletionTool) Description() string {
	return `## attempt_completion
Description: Present the final result of the task once every previous tool use has succeeded.
Parameters:
- result: (required) The final result. Do not end it with a question or an offer of further help.
- command: (optional) A command the user can run to see the result, for example "open index.html".
Usage:
<attempt_completion>
<result>
Your final result description here
</result>
<command>Command to demonstrate result (optional)</command>
</attempt_completion>`
}

func (AttemptCompletionTool) Validate(params map[string]string) error {
	return tools.RequireParams(params, "result")
}

func (AttemptCompletionTool) Execute(_ context.Context, params map[string]string) (tools.Result, error) {
	c := Completion{Result: params["result"], Command: params["command"]}
	return tools.Succeeded(c.Result, c), nil
}
