package handlers

import (
	"context"
	"fmt"

	"code-manta/internal/tools"
)

// FileContent is the Data payload of read_file.
type FileContent struct {
	Path    string
	Content string
}

type ReadFileTool struct {
	Runner tools.Runner
}

func (ReadFileTool) Name() string { return "read_file" }

func (ReadFileTool) Description() string {
	return `## read_file
Description: Read the contents of a file at the given path, relative to the working directory.
Parameters:
- path: (required) The path of the file to read.
Usage:
<read_file>
<path>File path here</path>
</read_file>`
}

func (ReadFileTool) Validate(params map[string]string) error {
	return tools.RequireParams(params, "path")
}

func (t ReadFileTool) Execute(ctx context.Context, params map[string]string) (tools.Result, error) {
	if t.Runner == nil {
		return tools.Result{}, fmt.Errorf("runner not configured")
	}
	path := params["path"]
	content, err := t.Runner.ReadFile(ctx, path)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.Succeeded(content, FileContent{Path: path, Content: content}), nil
}
