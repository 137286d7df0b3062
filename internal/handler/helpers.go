package handler

import (
	"github.com/wrenchworks/repair-shop-service/internal/session"
)

// advisory builds render data carrying an immediate advisory, used when a
// failed form is re-rendered in the same response instead of after a
// redirect.
func advisory(level, message string) map[string]any {
	return map[string]any{
		"Flash": &session.Flash{Level: level, Message: message},
	}
}

// advisoryText maps sentinel validation errors to their user-facing text.
// Sentinel messages are already written for users; anything else gets a
// generic line at the call site.
func advisoryText(err error) string {
	return capitalize(err.Error()) + "."
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
