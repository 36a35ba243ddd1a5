package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

var enabled atomic.Bool

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`)
	coordRe = regexp.MustCompile(`-?\d{1,3}\.\d{4,}`)
)

// SetEnabled toggles PII redaction. Queries are logged on every chat request,
// so deployments handling user traffic keep this on.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// Enabled returns true when redaction is active.
func Enabled() bool {
	return enabled.Load()
}

// Text redacts emails and phone numbers from log-bound text when enabled.
func Text(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := emailRe.ReplaceAllString(in, "[REDACTED_EMAIL]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}

// Coordinates additionally masks high-precision decimal coordinates. Map
// queries often contain a user's exact location; sub-meter precision has no
// business ending up in logs.
func Coordinates(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	return coordRe.ReplaceAllString(Text(in), "[REDACTED_COORD]")
}
