package handlers

import (
	"context"

	"code-manta/internal/tools"
)

// Question is the Data payload of ask_followup_question.
type Question struct {
	Text string
}

type AskFollowupQuestionTool struct{}

func (AskFollowupQuestionTool) Name() string { return "ask_followup_question" }

func (AskFollowupQuestionTool) Description() string {
	return `## ask_followup_question
Description: Ask the user a question to gather information needed to finish the task. Use it only when the answer cannot be found with the other tools.
Parameters:
- question: (required) The question to ask. It should be clear and specific.
Usage:
<ask_followup_question>
<question>Your question here</question>
</ask_followup_question>`
}

func (AskFollowupQuestionTool) Validate(params map[string]string) error {
	return tools.RequireParams(params, "question")
}

func (AskFollowupQuestionTool) Execute(_ context.Context, params map[string]string) (tools.Result, error) {
	q := params["question"]
	return tools.Succeeded(q, Question{Text: q}), nil
}
