package events

import (
	"fmt"
	"io"
	"sync"

	"code-manta/internal/logger"
)

// DefaultEventLogPath 默认的事件日志文件路径。
const DefaultEventLogPath = "logs/events.log"

var (
	eventLogMu sync.Mutex
	eventLog   = logger.Named("events")
)

// SetupEventLog 将事件日志写入独立文件，失败时继续使用全局 logger。
func SetupEventLog(path string) io.Closer {
	if path == "" {
		path = DefaultEventLogPath
	}
	entry, closer, _, err := logger.SetupComponentFile("events", path)
	if err != nil {
		logger.Named("events").Warnf("failed to set up event log file (%s): %v", path, err)
		return nil
	}
	eventLogMu.Lock()
	eventLog = entry
	eventLogMu.Unlock()
	return closer
}

func logEvent(evt Event) {
	eventLogMu.Lock()
	entry := eventLog
	eventLogMu.Unlock()

	fields := logger.Fields{"type": string(evt.Type), "turn": evt.Turn}
	if evt.SessionID != "" {
		fields["session_id"] = evt.SessionID
	}
	entry.WithFields(fields).Info(describe(evt.Payload))
}

func describe(payload any) string {
	switch p := payload.(type) {
	case nil:
		return "-"
	case ToolCall:
		return "call " + p.Name
	case ToolResult:
		return fmt.Sprintf("result %s success=%t", p.Name, p.Success)
	case TaskFinished:
		return fmt.Sprintf("finished status=%s turns=%d", p.Status, p.Turns)
	case string:
		return fmt.Sprintf("%d bytes", len(p))
	case error:
		return p.Error()
	default:
		return fmt.Sprintf("%T", payload)
	}
}
