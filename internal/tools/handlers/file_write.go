package handlers

import (
	"context"
	"fmt"

	"code-manta/internal/tools"
)

type WriteFileTool struct {
	Runner tools.Runner
}

func (WriteFileTool) Name() string { return "write_to_file" }

func (WriteFileTool) Description() string {
	return `## write_to_file
Description: Write content to a file at the given path. The file is created if it does not exist and overwritten if it does; missing directories are created.
Parameters:
- path: (required) The path of the file to write to.
- content: (required) The complete content of the file. Always provide the full file, never a fragment.
Usage:
<write_to_file>
<path>File path here</path>
<content>
Your file content here
</content>
</write_to_file>`
}

func (WriteFileTool) Validate(params map[string]string) error {
	if err := tools.RequireParams(params, "path"); err != nil {
		return err
	}
	if _, ok := params["content"]; !ok {
		return &tools.ValidationError{Param: "content", Reason: "missing required parameter"}
	}
	return nil
}

func (t WriteFileTool) Execute(ctx context.Context, params map[string]string) (tools.Result, error) {
	if t.Runner == nil {
		return tools.Result{}, fmt.Errorf("runner not configured")
	}
	path := params["path"]
	content := params["content"]
	if err := t.Runner.WriteFile(ctx, path, content); err != nil {
		return tools.Result{}, err
	}
	return tools.Succeeded(fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), path), nil), nil
}
