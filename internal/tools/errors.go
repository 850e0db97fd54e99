package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a parameter rejected by a tool's Validate step.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return "invalid parameters: " + e.Reason
	}
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// IsValidationError 判断错误是否来自参数校验。
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RequireParams checks that every key is present and not blank.
func RequireParams(params map[string]string, keys ...string) error {
	for _, key := range keys {
		v, ok := params[key]
		if !ok {
			return &ValidationError{Param: key, Reason: "missing required parameter"}
		}
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Param: key, Reason: "must not be empty"}
		}
	}
	return nil
}

// ParseBoolParam accepts "true"/"false" (case-insensitive). Absent keys yield def.
func ParseBoolParam(params map[string]string, key string, def bool) (bool, error) {
	raw, ok := params[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return def, &ValidationError{Param: key, Reason: fmt.Sprintf("expected true or false, got %q", raw)}
}
