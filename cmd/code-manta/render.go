package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"code-manta/internal/agent"
	"code-manta/internal/events"
	"code-manta/internal/tools"
)

const (
	previewLines = 20
	previewWidth = 120
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	resultBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// truncatePreview 限制行数并按显示宽度截断每一行（兼容 CJK 宽字符）。
func truncatePreview(text string, maxLines, width int) string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	omitted := 0
	if maxLines > 0 && len(lines) > maxLines {
		omitted = len(lines) - maxLines
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		if width > 0 && runewidth.StringWidth(line) > width {
			lines[i] = runewidth.Truncate(line, width, "…")
		}
	}
	if omitted > 0 {
		lines = append(lines, fmt.Sprintf("… (%d more lines)", omitted))
	}
	return strings.Join(lines, "\n")
}

func statusLabel(success bool) string {
	if success {
		return okStyle.Render("✓ ok")
	}
	return failStyle.Render("✗ failed")
}

func renderResult(w io.Writer, name string, res tools.Result) {
	header := fmt.Sprintf("%s %s", toolStyle.Render(name), statusLabel(res.Success))
	fmt.Fprintln(w, header)
	if body := truncatePreview(res.Message, previewLines, previewWidth); body != "" {
		fmt.Fprintln(w, resultBorder.Render(body))
	}
}

func renderToolCall(w io.Writer, call events.ToolCall) {
	fmt.Fprintf(w, "%s %s\n", dimStyle.Render("→"), toolStyle.Render(call.Name))
	for _, k := range sortedKeys(call.Params) {
		v := truncatePreview(call.Params[k], 1, previewWidth-len(k)-4)
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(k+":"), v)
	}
}

func renderOutcome(w io.Writer, out agent.Outcome) {
	switch out.Kind {
	case agent.OutcomeCompleted:
		fmt.Fprintln(w, okStyle.Render("Task completed"))
		fmt.Fprintln(w, out.Text)
		if out.Command != "" {
			fmt.Fprintf(w, "%s %s\n", dimStyle.Render("Try:"), out.Command)
		}
	case agent.OutcomeQuestion:
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render("?"), out.Text)
	default:
		fmt.Fprintln(w, out.Text)
	}
}

const renderFlush events.EventType = "render.flush"

type flushMarker chan struct{}

// renderEvents 消费事件流并输出工具调用与结果，直到 bus 关闭。
func renderEvents(w io.Writer, ch <-chan events.Event, done chan<- struct{}) {
	defer close(done)
	for evt := range ch {
		switch p := evt.Payload.(type) {
		case events.ToolCall:
			renderToolCall(w, p)
		case events.ToolResult:
			renderResult(w, p.Name, tools.Result{Success: p.Success, Message: p.Message, Data: p.Data})
		case flushMarker:
			close(p)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
