package statusutil

import (
	"fmt"
	"strings"

	"thingsdo-cli/internal/model"
)

// ParseDefer normalizes a user-supplied deferral. Empty and "none" clear it.
func ParseDefer(s string) (model.DeferState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return model.DeferNone, nil
	case "anytime":
		return model.DeferAnytime, nil
	case "someday":
		return model.DeferSomeday, nil
	default:
		return "", fmt.Errorf("invalid deferral %q (want anytime|someday|none)", s)
	}
}

// ParseLogStatus normalizes the status an item is logged with. Empty means
// completed.
func ParseLogStatus(s string) (model.LogStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "completed", "complete", "done":
		return model.LogCompleted, nil
	case "canceled", "cancelled":
		return model.LogCanceled, nil
	default:
		return "", fmt.Errorf("invalid log status %q (want completed|canceled)", s)
	}
}

// LogLabel describes how it was logged, or "" for open items. Items logged
// without a status count as completed.
func LogLabel(it model.Item) string {
	if !it.Logged() {
		return ""
	}
	if it.LogStatus == model.LogCanceled {
		return string(model.LogCanceled)
	}
	return string(model.LogCompleted)
}
