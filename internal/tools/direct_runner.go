package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirectRunner 直接在宿主环境读写文件与执行命令（无沙箱/无审批）。
type DirectRunner struct {
	Dir string
}

func (r DirectRunner) Workdir() string {
	if strings.TrimSpace(r.Dir) == "" {
		return "."
	}
	return r.Dir
}

func (r DirectRunner) ResolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(r.Workdir(), path), nil
}

func (r DirectRunner) ReadFile(_ context.Context, path string) (string, error) {
	target, err := r.ResolvePath(path)
	if err != nil {
		return "", err
	}
	return ReadTextFile(target)
}

func (r DirectRunner) WriteFile(_ context.Context, path string, content string) error {
	target, err := r.ResolvePath(path)
	if err != nil {
		return err
	}
	return WriteTextFile(target, content)
}

func (r DirectRunner) RunCommand(ctx context.Context, command string) (string, int, error) {
	out, err := RunCommand(ctx, r.Workdir(), command)
	if err != nil {
		return out, exitCode(err), err
	}
	return out, 0, nil
}

// ReadTextFile reads a whole file as text.
func ReadTextFile(target string) (string, error) {
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}
	return string(data), nil
}

// WriteTextFile overwrites target with content, creating parent directories.
func WriteTextFile(target string, content string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", target, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
