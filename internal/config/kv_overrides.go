package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// Unknown keys and unparsable numbers are ignored.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "workdir":
			cfg.Workdir = val
		case "sandbox_mode":
			cfg.SandboxMode = val
		case "approval_policy":
			cfg.ApprovalPolicy = val
		case "encoding":
			cfg.Encoding = val
		case "log_level":
			cfg.LogLevel = val
		case "max_context_tokens":
			setInt(&cfg.MaxContextTokens, val)
		case "command_timeout_seconds":
			setInt(&cfg.CommandTimeoutSeconds, val)
		case "max_turns":
			setInt(&cfg.MaxTurns, val)
		case "model.provider", "provider":
			cfg.Model.Provider = val
		case "model.url", "url":
			cfg.Model.URL = val
		case "model.token", "token":
			cfg.Model.Token = val
		case "model.name", "model":
			cfg.Model.Name = val
		}
	}
	return cfg
}

func setInt(dst *int, raw string) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return
	}
	*dst = n
}
