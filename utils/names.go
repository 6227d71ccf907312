package utils

import "strings"

// ToInitialLast shortens "jane doe" to "J. Doe" for compact display in
// changelogs and team listings. Names without a separable last part pass
// through unchanged.
func ToInitialLast(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) < 2 || parts[1] == "" {
		return name
	}
	return strings.ToUpper(parts[0][:1]) + ". " + capitalize(parts[1])
}

// ToFullName capitalizes both parts of a "first last" name.
func ToFullName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) < 2 || parts[1] == "" {
		return capitalize(trimmed)
	}
	return capitalize(parts[0]) + " " + capitalize(parts[1])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
