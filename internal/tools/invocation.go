package tools

import "context"

// Runner 提供文件读写与命令执行，避免与 sandbox 包产生循环依赖。
// Relative paths are resolved against Workdir.
type Runner interface {
	Workdir() string
	ResolvePath(path string) (string, error)
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path string, content string) error
	RunCommand(ctx context.Context, command string) (string, int, error)
}
