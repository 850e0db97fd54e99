package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"code-manta/internal/tools"
)

var errToolFailed = errors.New("tool call failed")

func toolsMain(root rootArgs, args []string) {
	if err := runTools(root, os.Stdout); err != nil {
		log.Fatalf("tools: %v", err)
	}
}

// runTools 打印已注册工具的提示词描述。
func runTools(root rootArgs, out io.Writer) error {
	rt, err := loadRuntime(root, nil)
	if err != nil {
		return err
	}
	reg := rt.registry(nil)
	fmt.Fprintln(out, titleStyle.Render(strings.Join(reg.Names(), ", ")))
	fmt.Fprintln(out)
	fmt.Fprintln(out, reg.DescribeAll())
	return nil
}

type parsedCall struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params"`
	Keys   []string          `json:"keys,omitempty"`
}

func parseMain(root rootArgs, args []string) {
	if err := runParse(root, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("parse: %v", err)
	}
}

// runParse 从文件或 stdin 读取模型输出，打印解析出的工具调用（JSON）。
func runParse(root rootArgs, args []string, in io.Reader, out io.Writer) error {
	text, err := readSource(args, in)
	if err != nil {
		return err
	}
	rt, err := loadRuntime(root, nil)
	if err != nil {
		return err
	}
	call, ok := tools.NewParser(rt.registry(nil).Names()).Parse(text)
	if !ok {
		fmt.Fprintln(out, "no tool call")
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(parsedCall{Name: call.Name, Params: call.Params, Keys: call.Keys})
}

func runMain(root rootArgs, args []string) {
	if err := runRun(context.Background(), root, args, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errToolFailed) {
			os.Exit(1)
		}
		log.Fatalf("run: %v", err)
	}
}

// runRun 解析并执行一段模型输出中的工具调用。命令审批走终端交互。
func runRun(ctx context.Context, root rootArgs, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var overrides stringSlice
	fs.Var(&overrides, "c", "Override config key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text, err := readSource(fs.Args(), in)
	if err != nil {
		return err
	}
	rt, err := loadRuntime(root, overrides)
	if err != nil {
		return err
	}
	// 模型输出来自 stdin 时 stdin 已耗尽，审批按拒绝处理。
	approvalIn := in
	if len(fs.Args()) == 0 || fs.Arg(0) == "-" {
		approvalIn = strings.NewReader("")
	}
	approver := newPromptApprover(bufio.NewReader(approvalIn), out, &sync.Mutex{})
	reg := rt.registry(approver)
	name, params, ok := reg.ParseCall(text)
	if !ok {
		fmt.Fprintln(out, "no tool call")
		return errToolFailed
	}
	res := reg.Dispatch(ctx, name, params)
	renderResult(out, name, res)
	if !res.Success {
		return errToolFailed
	}
	return nil
}

func patchMain(root rootArgs, args []string) {
	if err := runPatch(context.Background(), root, args, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errToolFailed) {
			os.Exit(1)
		}
		log.Fatalf("patch: %v", err)
	}
}

// runPatch applies a SEARCH/REPLACE diff file to -path via replace_in_file.
func runPatch(ctx context.Context, root rootArgs, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("patch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var path, diffPath string
	fs.StringVar(&path, "path", "", "File to patch, relative to the workdir")
	fs.StringVar(&diffPath, "diff", "-", "File holding SEARCH/REPLACE blocks (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("-path is required")
	}
	diff, err := readSource([]string{diffPath}, in)
	if err != nil {
		return err
	}
	rt, err := loadRuntime(root, nil)
	if err != nil {
		return err
	}
	const name = "replace_in_file"
	res := rt.registry(nil).Dispatch(ctx, name, map[string]string{"path": path, "diff": diff})
	renderResult(out, name, res)
	if !res.Success {
		return errToolFailed
	}
	return nil
}

func readSource(args []string, in io.Reader) (string, error) {
	src := "-"
	if len(args) > 0 {
		src = args[0]
	}
	if src == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
