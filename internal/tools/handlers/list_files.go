package handlers

import (
	"context"
	"fmt"
	"strings"

	"code-manta/internal/search"
	"code-manta/internal/tools"
)

const listFilesLimit = 200

type ListFilesTool struct {
	Runner tools.Runner
}

func (ListFilesTool) Name() string { return "list_files" }

func (ListFilesTool) Description() string {
	return `## list_files
Description: List files and directories under a directory. Directories end with "/". Version control and dependency folders are skipped.
Parameters:
- path: (required) The directory to list, relative to the working directory.
- recursive: (optional) "true" to list recursively, "false" (default) for the top level only.
Usage:
<list_files>
<path>Directory path here</path>
<recursive>true or false (optional)</recursive>
</list_files>`
}

func (ListFilesTool) Validate(params map[string]string) error {
	if err := tools.RequireParams(params, "path"); err != nil {
		return err
	}
	_, err := tools.ParseBoolParam(params, "recursive", false)
	return err
}

func (t ListFilesTool) Execute(_ context.Context, params map[string]string) (tools.Result, error) {
	if t.Runner == nil {
		return tools.Result{}, fmt.Errorf("runner not configured")
	}
	root, err := t.Runner.ResolvePath(params["path"])
	if err != nil {
		return tools.Result{}, err
	}
	recursive, _ := tools.ParseBoolParam(params, "recursive", false)

	var paths []string
	if recursive {
		paths, err = search.FindFiles(root, listFilesLimit)
	} else {
		paths, err = search.ListDir(root)
	}
	if err != nil {
		return tools.Result{}, err
	}
	if len(paths) == 0 {
		return tools.Succeeded("No files found.", paths), nil
	}
	msg := strings.Join(paths, "\n")
	if len(paths) >= listFilesLimit {
		msg += fmt.Sprintf("\n\n(File list truncated at %d entries.)", listFilesLimit)
	}
	return tools.Succeeded(msg, paths), nil
}
