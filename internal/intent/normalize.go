package intent

import "strings"

// DefaultWakePhrases is the trigger vocabulary, multi-word variants first so
// "hey alexa" is removed whole instead of leaving a dangling "hey".
var DefaultWakePhrases = []string{"hey alexa", "ok alexa", "alexa", "computer", "echo"}

// Normalize lower-cases raw and strips the first wake phrase found, scanning
// wakePhrases in the given priority order. With no wake phrase present it is
// a plain lower-case + trim.
func Normalize(raw string, wakePhrases []string) string {
	s := strings.ToLower(raw)
	for _, w := range wakePhrases {
		if strings.Contains(s, w) {
			s = strings.Replace(s, w, "", 1)
			break
		}
	}
	return strings.TrimSpace(s)
}

// ContainsWakePhrase reports whether any of wakePhrases occurs in text.
// Matching is case-insensitive substring search, same as Normalize.
func ContainsWakePhrase(text string, wakePhrases []string) bool {
	s := strings.ToLower(text)
	for _, w := range wakePhrases {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
