package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"code-manta/internal/policy"
	"code-manta/internal/tools"
)

// CommandOutput is the Data payload of execute_command.
type CommandOutput struct {
	Command  string
	Output   string
	ExitCode int
}

type ExecuteCommandTool struct {
	Runner   tools.Runner
	Policy   policy.Policy
	Approver tools.Approver
}

func (ExecuteCommandTool) Name() string { return "execute_command" }

func (ExecuteCommandTool) Description() string {
	return `## execute_command
Description: Execute a shell command in the working directory and return its combined output.
Parameters:
- command: (required) The command to run.
- requires_approval: (required) "true" for commands with side effects the user should confirm (installing packages, deleting files, network access), otherwise "false".
Usage:
<execute_command>
<command>Your command here</command>
<requires_approval>true or false</requires_approval>
</execute_command>`
}

func (ExecuteCommandTool) Validate(params map[string]string) error {
	if err := tools.RequireParams(params, "command"); err != nil {
		return err
	}
	_, err := tools.ParseBoolParam(params, "requires_approval", false)
	return err
}

func (t ExecuteCommandTool) Execute(ctx context.Context, params map[string]string) (tools.Result, error) {
	if t.Runner == nil {
		return tools.Result{}, fmt.Errorf("runner not configured")
	}
	command := strings.TrimSpace(params["command"])
	requested, _ := tools.ParseBoolParam(params, "requires_approval", false)

	decision := t.Policy.AllowCommand(requested)
	if !decision.Allowed {
		if !decision.RequiresApproval {
			return tools.Result{}, tools.SandboxError{Reason: decision.Reason}
		}
		if t.Approver == nil {
			return tools.Result{}, errors.New("approval required but no approver configured")
		}
		approved, err := t.Approver.Approve(ctx, command)
		if err != nil {
			return tools.Result{}, fmt.Errorf("approval: %w", err)
		}
		if !approved {
			return tools.Failed("The user denied this command: " + command), nil
		}
	}

	out, code, err := t.Runner.RunCommand(ctx, command)
	data := CommandOutput{Command: command, Output: out, ExitCode: code}
	if err != nil {
		if code < 0 {
			return tools.Result{}, err
		}
		return tools.Result{
			Success: false,
			Message: fmt.Sprintf("Command exited with code %d.\nOutput:\n%s", code, out),
			Data:    data,
		}, nil
	}
	return tools.Succeeded(fmt.Sprintf("Command executed.\nOutput:\n%s", out), data), nil
}
