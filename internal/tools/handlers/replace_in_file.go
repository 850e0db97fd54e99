package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"code-manta/internal/tools"
)

// PatchReport is the Data payload of replace_in_file. Block numbers are 1-based.
type PatchReport struct {
	Path    string
	Blocks  int
	Applied []int
	Skipped []int
	Diff    string
}

type ReplaceInFileTool struct {
	Runner tools.Runner
}

func (ReplaceInFileTool) Name() string { return "replace_in_file" }

func (ReplaceInFileTool) Description() string {
	return `## replace_in_file
Description: Replace sections of an existing file using SEARCH/REPLACE blocks. Blocks are applied in order, each to the result of the previous one.
Parameters:
- path: (required) The path of the file to modify.
- diff: (required) One or more SEARCH/REPLACE blocks:
  <<<<<<< SEARCH
  [exact content to find, including whitespace and line breaks]
  =======
  [new content to replace it with]
  >>>>>>> REPLACE
  Only the first match of each SEARCH section is replaced. A SEARCH section that does not match is skipped and reported.
Usage:
<replace_in_file>
<path>File path here</path>
<diff>
Search and replace blocks here
</diff>
</replace_in_file>`
}

func (ReplaceInFileTool) Validate(params map[string]string) error {
	return tools.RequireParams(params, "path", "diff")
}

func (t ReplaceInFileTool) Execute(ctx context.Context, params map[string]string) (tools.Result, error) {
	if t.Runner == nil {
		return tools.Result{}, fmt.Errorf("runner not configured")
	}
	path := params["path"]
	blocks, err := tools.ParseEditBlocks(params["diff"])
	if err != nil {
		return tools.Result{}, err
	}
	original, err := t.Runner.ReadFile(ctx, path)
	if err != nil {
		return tools.Result{}, err
	}

	outcome := tools.ApplyEditBlocks(original, blocks)
	if err := t.Runner.WriteFile(ctx, path, outcome.Content); err != nil {
		return tools.Result{}, err
	}

	report := PatchReport{
		Path:    path,
		Blocks:  len(blocks),
		Applied: oneBased(outcome.Applied),
		Skipped: oneBased(outcome.Skipped),
		Diff:    tools.UnifiedDiff(path, original, outcome.Content),
	}
	return tools.Succeeded(patchMessage(report), report), nil
}

func patchMessage(r PatchReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Applied %d of %d edit block(s) to %s.", len(r.Applied), r.Blocks, r.Path)
	if len(r.Skipped) > 0 {
		nums := make([]string, 0, len(r.Skipped))
		for _, n := range r.Skipped {
			nums = append(nums, strconv.Itoa(n))
		}
		fmt.Fprintf(&sb, " Skipped block(s) %s: SEARCH text not found in the current file content.", strings.Join(nums, ", "))
	}
	if r.Diff != "" {
		sb.WriteString("\n\n")
		sb.WriteString(r.Diff)
	}
	return sb.String()
}

func oneBased(idx []int) []int {
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		out = append(out, i+1)
	}
	return out
}
