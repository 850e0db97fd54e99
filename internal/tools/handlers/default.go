package handlers

import (
	"code-manta/internal/policy"
	"code-manta/internal/tools"
)

// Deps are the collaborators shared by the built-in tools.
type Deps struct {
	Runner   tools.Runner
	Policy   policy.Policy
	Approver tools.Approver
}

// Default returns the built-in tools in prompt order.
func Default(deps Deps) []tools.Tool {
	return []tools.Tool{
		ExecuteCommandTool{Runner: deps.Runner, Policy: deps.Policy, Approver: deps.Approver},
		ReadFileTool{Runner: deps.Runner},
		WriteFileTool{Runner: deps.Runner},
		ReplaceInFileTool{Runner: deps.Runner},
		ListFilesTool{Runner: deps.Runner},
		AskFollowupQuestionTool{},
		AttemptCompletionTool{},
	}
}
