package sandbox

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"code-manta/internal/policy"
	"code-manta/internal/tools"
)

// Runner abstracts file access and command execution under a sandbox mode.
type Runner = tools.Runner

// SafeRunner confines file access and commands to a set of workspace roots.
type SafeRunner struct {
	mode    policy.Policy
	workdir string
	roots   []string
	timeout time.Duration
}

type Options struct {
	Mode    string
	Workdir string
	// Roots defaults to Workdir when empty.
	Roots   []string
	Timeout time.Duration
}

func NewRunner(opts Options) SafeRunner {
	workdir := strings.TrimSpace(opts.Workdir)
	if workdir == "" {
		workdir = "."
	}
	if abs, err := filepath.Abs(workdir); err == nil {
		workdir = abs
	}
	roots := cleanRoots(opts.Roots)
	if len(roots) == 0 {
		roots = cleanRoots([]string{workdir})
	}
	mode := strings.TrimSpace(opts.Mode)
	if mode == "" {
		mode = policy.SandboxWorkspaceWrite
	}
	return SafeRunner{
		mode:    policy.Policy{SandboxMode: mode},
		workdir: workdir,
		roots:   roots,
		timeout: opts.Timeout,
	}
}

func (r SafeRunner) Workdir() string { return r.workdir }

func (r SafeRunner) Mode() string { return r.mode.SandboxMode }

// ResolvePath resolves path against the workdir and rejects anything that
// escapes the allowed roots, unless running with full access.
func (r SafeRunner) ResolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", tools.SandboxError{Reason: "empty path"}
	}
	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(r.workdir, target)
	}
	target = filepath.Clean(target)
	if r.mode.SandboxMode == policy.SandboxFullAccess {
		return target, nil
	}
	if !withinRoots(target, r.roots) {
		return "", tools.SandboxError{Reason: "path outside workspace: " + path}
	}
	return target, nil
}

func (r SafeRunner) ReadFile(_ context.Context, path string) (string, error) {
	target, err := r.ResolvePath(path)
	if err != nil {
		return "", err
	}
	return tools.ReadTextFile(target)
}

func (r SafeRunner) WriteFile(_ context.Context, path string, content string) error {
	if d := r.mode.AllowWrite(); !d.Allowed {
		return tools.SandboxError{Reason: "sandbox read-only: write blocked"}
	}
	target, err := r.ResolvePath(path)
	if err != nil {
		return err
	}
	return tools.WriteTextFile(target, content)
}

func (r SafeRunner) RunCommand(ctx context.Context, command string) (string, int, error) {
	if r.mode.SandboxMode == policy.SandboxReadOnly {
		return "", -1, tools.SandboxError{Reason: "sandbox read-only: command blocked"}
	}
	if r.mode.SandboxMode != policy.SandboxFullAccess && !withinRoots(r.workdir, r.roots) {
		return "", -1, tools.SandboxError{Reason: "workdir outside allowed roots"}
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.runWithSandbox(ctx, command)
}

func (r SafeRunner) runWithSandbox(ctx context.Context, command string) (string, int, error) {
	if r.mode.SandboxMode == policy.SandboxFullAccess {
		return direct(ctx, r.workdir, command)
	}

	if runtime.GOOS == "darwin" {
		if path, err := exec.LookPath("sandbox-exec"); err == nil {
			profile := seatbeltProfile(r.mode.SandboxMode, r.roots)
			wrapped := exec.CommandContext(ctx, path, "-p", profile, "bash", "-lc", command)
			wrapped.Dir = r.workdir
			return tools.RunWrapped(wrapped)
		}
	}

	if runtime.GOOS == "linux" {
		if path, err := exec.LookPath("landlock-run"); err == nil {
			wrapped := exec.CommandContext(ctx, path, "bash", "-lc", command)
			wrapped.Dir = r.workdir
			return tools.RunWrapped(wrapped)
		}
	}

	return direct(ctx, r.workdir, command)
}

func direct(ctx context.Context, workdir, command string) (string, int, error) {
	out, err := tools.RunCommand(ctx, workdir, command)
	if err != nil {
		return out, tools.ExitCode(err), err
	}
	return out, 0, nil
}

func seatbeltProfile(mode string, roots []string) string {
	if mode == policy.SandboxFullAccess {
		return `(version 1)
(allow default)`
	}
	perms := "file-read*"
	if mode != policy.SandboxReadOnly {
		perms += " file-write*"
	}
	roots = cleanRoots(roots)
	var builder strings.Builder
	builder.WriteString("(version 1)\n")
	builder.WriteString("(deny default)\n")
	builder.WriteString("(allow process*)\n")
	builder.WriteString("(deny network*)\n")
	builder.WriteString("(allow " + perms)
	if len(roots) == 0 {
		builder.WriteString(")\n")
		return builder.String()
	}
	for _, root := range roots {
		builder.WriteString(` (subpath "` + root + `")`)
	}
	builder.WriteString(")\n")
	return builder.String()
}

func cleanRoots(roots []string) []string {
	seen := make(map[string]struct{})
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		if strings.TrimSpace(r) == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		abs = filepath.Clean(abs)
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		cleaned = append(cleaned, abs)
	}
	return cleaned
}

func withinRoots(path string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, r := range roots {
		if strings.TrimSpace(r) == "" {
			continue
		}
		rootAbs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(rootAbs, abs)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}
