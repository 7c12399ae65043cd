// Package domain contains entity without logic, just meta-data
package domain

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxUsernameRunes bounds display names; longer names are cut, not refused.
	MaxUsernameRunes = 64
	DefaultUsername  = "guest"
)

// ConnID identifies one live signaling connection. It is assigned at connect
// time and is what peers use as the target of offer/answer/ice-candidate.
type ConnID string

func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// NormalizeUsername falls back to DefaultUsername for an empty name and
// truncates overly long ones.
func NormalizeUsername(username string) string {
	if username == "" {
		return DefaultUsername
	}
	if utf8.RuneCountInString(username) <= MaxUsernameRunes {
		return username
	}
	return string([]rune(username)[:MaxUsernameRunes])
}
