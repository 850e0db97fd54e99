package tools

import (
	"io"
	"sort"
	"strings"
	"sync"

	"code-manta/internal/logger"
)

// DefaultToolsLogPath 工具调用日志的默认路径。
const DefaultToolsLogPath = "logs/tools.log"

var (
	toolsLog           = logger.Named("tools")
	toolsLogConfigured bool
	toolsLogMu         sync.Mutex
	toolsLogCloser     io.Closer
	toolsLogPath       string
)

// SetupToolsLog 配置工具调用专用日志，返回文件 closer 及实际路径。
// 若 logPath 为空，则使用 DefaultToolsLogPath。
// 多次调用只会在首次生效。
func SetupToolsLog(logPath string) (io.Closer, string, error) {
	toolsLogMu.Lock()
	defer toolsLogMu.Unlock()

	if toolsLogConfigured {
		return toolsLogCloser, toolsLogPath, nil
	}
	if logPath == "" {
		logPath = DefaultToolsLogPath
	}

	entry, closer, resolved, err := logger.SetupComponentFile("tools", logPath)
	toolsLogConfigured = true
	toolsLogPath = resolved
	if err != nil {
		return nil, resolved, err
	}
	if entry != nil {
		toolsLog = entry
	}
	toolsLogCloser = closer
	return closer, resolved, nil
}

// CloseToolsLog 关闭工具日志文件句柄（如已初始化）。
func CloseToolsLog() {
	toolsLogMu.Lock()
	defer toolsLogMu.Unlock()
	if toolsLogCloser != nil {
		_ = toolsLogCloser.Close()
		toolsLogCloser = nil
	}
}

func currentToolsLog() *logger.LogEntry {
	toolsLogMu.Lock()
	defer toolsLogMu.Unlock()
	return toolsLog
}

func logToolRequest(callID, name string, params map[string]string, recognized bool) {
	status := "received"
	if !recognized {
		status = "unknown"
	}
	currentToolsLog().Infof("tool_call id=%s name=%s status=%s params=%s",
		callID, name, status, formatParamsForLog(params))
}

func logToolResult(callID, name string, result Result) {
	status := "completed"
	if !result.Success {
		status = "error"
	}
	currentToolsLog().Infof("tool_result id=%s name=%s status=%s message=%s",
		callID, name, status, sanitizeForLog(result.Message))
}

func formatParamsForLog(params map[string]string) string {
	if len(params) == 0 {
		return "(empty)"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+sanitizeForLog(params[k]))
	}
	return strings.Join(parts, " ")
}

func sanitizeForLog(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "(empty)"
	}
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	return text
}
