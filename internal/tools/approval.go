package tools

import "context"

// Approver asks a human whether a command may run.
type Approver interface {
	Approve(ctx context.Context, command string) (bool, error)
}

// ApproverFunc adapts a function to Approver.
type ApproverFunc func(ctx context.Context, command string) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, command string) (bool, error) {
	return f(ctx, command)
}
