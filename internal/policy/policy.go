package policy

// Sandbox modes.
const (
	SandboxReadOnly       = "read-only"
	SandboxWorkspaceWrite = "workspace-write"
	SandboxFullAccess     = "danger-full-access"
)

// Approval policies.
const (
	ApprovalNever     = "never"
	ApprovalOnRequest = "on-request"
	ApprovalUntrusted = "untrusted"
	ApprovalAutoDeny  = "auto-deny"
)

type Policy struct {
	SandboxMode    string
	ApprovalPolicy string
}

type Decision struct {
	Allowed          bool
	Reason           string
	RequiresApproval bool
}

// AllowCommand decides whether a command may run. requested reports whether
// the model itself flagged the command as needing approval.
func (p Policy) AllowCommand(requested bool) Decision {
	if p.SandboxMode == SandboxReadOnly {
		return Decision{Allowed: false, Reason: "blocked by sandbox read-only"}
	}
	switch p.ApprovalPolicy {
	case ApprovalUntrusted:
		return Decision{Allowed: false, Reason: "requires approval", RequiresApproval: true}
	case ApprovalOnRequest:
		if requested {
			return Decision{Allowed: false, Reason: "requires approval", RequiresApproval: true}
		}
	case ApprovalAutoDeny:
		if requested {
			return Decision{Allowed: false, Reason: "auto-deny policy"}
		}
	}
	return Decision{Allowed: true}
}

func (p Policy) AllowWrite() Decision {
	if p.SandboxMode == SandboxReadOnly {
		return Decision{Allowed: false, Reason: "blocked by sandbox read-only"}
	}
	return Decision{Allowed: true}
}
