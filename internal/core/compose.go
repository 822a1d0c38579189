package core

import "strings"

// NormalizeOutgoing trims message text. It returns false for blank input,
// which must not be sent.
func NormalizeOutgoing(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// NormalizeChannelName strips a leading '#' and surrounding space.
func NormalizeChannelName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "#")
}
