package instructions

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// ProjectDocFilename 是仓库说明文件名称，内容会附加到系统提示词。
	ProjectDocFilename = "MANTA.md"
	// FallbackDocFilename 在目录中没有 MANTA.md 时使用。
	FallbackDocFilename = "AGENTS.md"
)

// Discover reads ~/.manta/MANTA.md followed by the project docs from the
// filesystem root down to workdir.
func Discover(workdir string) string {
	home, _ := os.UserHomeDir()
	return discover(home, workdir)
}

func discover(home, workdir string) string {
	var parts []string

	if home != "" {
		if text := readDoc(filepath.Join(home, ".manta", ProjectDocFilename)); text != "" {
			parts = append(parts, text)
		}
	}

	dir := workdir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	dir = filepath.Clean(dir)

	chain := []string{}
	prev := ""
	for dir != prev {
		chain = append(chain, dir)
		prev = dir
		dir = filepath.Dir(dir)
	}
	// 自顶向下，越靠近 workdir 越靠后
	for i := len(chain) - 1; i >= 0; i-- {
		curr := chain[i]
		if text := readDoc(filepath.Join(curr, ProjectDocFilename)); text != "" {
			parts = append(parts, text)
			continue
		}
		if text := readDoc(filepath.Join(curr, FallbackDocFilename)); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func readDoc(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
