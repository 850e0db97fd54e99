package main

import (
	"bytes"
	"strings"
	"testing"

	"code-manta/internal/agent"
	"code-manta/internal/tools"
)

func TestTruncatePreview(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		maxLines int
		width    int
		want     string
	}{
		{"empty", "", 5, 10, ""},
		{"fits", "a\nb\n", 5, 10, "a\nb"},
		{"too many lines", "1\n2\n3\n4", 2, 10, "1\n2\n… (2 more lines)"},
		{"wide line", "abcdefghij", 5, 6, "abcde…"},
		{"cjk width", "中文字符测试", 5, 7, "中文字…"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncatePreview(tc.in, tc.maxLines, tc.width); got != tc.want {
				t.Fatalf("truncatePreview(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRenderResultIncludesNameAndMessage(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, "read_file", tools.Failed("Tool execution failed: read_file: boom"))
	out := buf.String()
	if !strings.Contains(out, "read_file") || !strings.Contains(out, "boom") || !strings.Contains(out, "failed") {
		t.Fatalf("render output = %q", out)
	}
}

func TestRenderOutcomeCompleted(t *testing.T) {
	var buf bytes.Buffer
	renderOutcome(&buf, agent.Outcome{Kind: agent.OutcomeCompleted, Text: "all done", Command: "make test"})
	out := buf.String()
	if !strings.Contains(out, "all done") || !strings.Contains(out, "make test") {
		t.Fatalf("render output = %q", out)
	}
}
