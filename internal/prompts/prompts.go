package prompts

import (
	"runtime"
	"strings"
)

const (
	toolsPlaceholder   = "{{TOOLS}}"
	workdirPlaceholder = "{{WORKDIR}}"
	osPlaceholder      = "{{OS}}"
)

// SystemOptions 是构建系统提示词所需的运行时信息。
type SystemOptions struct {
	// Tools is the registry's DescribeAll output.
	Tools   string
	Workdir string
	OS      string
	// Extra is appended verbatim, e.g. project instructions.
	Extra string
}

// BuildSystemPrompt 组合 core 与 rules 提示词并填充占位符。
func BuildSystemPrompt(opts SystemOptions) string {
	core := builtinPrompts[PromptCore]
	rules := builtinPrompts[PromptRules]

	tools := strings.TrimSpace(opts.Tools)
	if tools == "" {
		tools = "(no tools available)"
	}
	workdir := strings.TrimSpace(opts.Workdir)
	if workdir == "" {
		workdir = "."
	}
	osName := strings.TrimSpace(opts.OS)
	if osName == "" {
		osName = runtime.GOOS
	}

	replacer := strings.NewReplacer(
		toolsPlaceholder, tools,
		workdirPlaceholder, workdir,
		osPlaceholder, osName,
	)
	parts := []string{replacer.Replace(core), replacer.Replace(rules)}
	if extra := strings.TrimSpace(opts.Extra); extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, "\n\n")
}
