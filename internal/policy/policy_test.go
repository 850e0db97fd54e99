package policy

import "testing"

func TestAllowCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		policy       Policy
		requested    bool
		wantAllowed  bool
		wantApproval bool
	}{
		{name: "read-only blocks", policy: Policy{SandboxMode: SandboxReadOnly}, wantAllowed: false},
		{name: "never allows flagged", policy: Policy{ApprovalPolicy: ApprovalNever}, requested: true, wantAllowed: true},
		{name: "on-request allows unflagged", policy: Policy{ApprovalPolicy: ApprovalOnRequest}, wantAllowed: true},
		{name: "on-request asks for flagged", policy: Policy{ApprovalPolicy: ApprovalOnRequest}, requested: true, wantApproval: true},
		{name: "untrusted always asks", policy: Policy{ApprovalPolicy: ApprovalUntrusted}, wantApproval: true},
		{name: "auto-deny rejects flagged", policy: Policy{ApprovalPolicy: ApprovalAutoDeny}, requested: true, wantAllowed: false},
		{name: "auto-deny allows unflagged", policy: Policy{ApprovalPolicy: ApprovalAutoDeny}, wantAllowed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.policy.AllowCommand(tc.requested)
			if got.Allowed != tc.wantAllowed || got.RequiresApproval != tc.wantApproval {
				t.Fatalf("AllowCommand(%v) = %#v", tc.requested, got)
			}
		})
	}
}

func TestAllowWrite(t *testing.T) {
	t.Parallel()

	if (Policy{SandboxMode: SandboxReadOnly}).AllowWrite().Allowed {
		t.Fatalf("read-only must block writes")
	}
	if !(Policy{SandboxMode: SandboxWorkspaceWrite}).AllowWrite().Allowed {
		t.Fatalf("workspace-write must allow writes")
	}
}
