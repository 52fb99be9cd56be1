// Package dateutil resolves the "auto" generation date printed in report footers.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date layout.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxLayoutLength caps user-supplied layouts.
const MaxLayoutLength = 50

// AutoKeyword requests the generation date instead of a literal.
const AutoKeyword = "auto"

// DefaultLayout is used for a bare "auto".
const DefaultLayout = "YYYY-MM-DD"

// tokens maps layout tokens to Go reference-time fragments, longest first.
var tokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named layouts usable as "auto:<name>".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"stamp":    "YYYY-MM-DD HH:mm",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ToGoLayout translates a token layout (YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm)
// into a time.Format layout. Text in [brackets] is copied literally; any other
// character is kept as is.
func ToGoLayout(layout string) (string, error) {
	switch {
	case layout == "":
		return "", fmt.Errorf("%w: layout cannot be empty", ErrInvalidDateFormat)
	case len(layout) > MaxLayoutLength:
		return "", fmt.Errorf("%w: layout exceeds %d characters", ErrInvalidDateFormat, MaxLayoutLength)
	}

	var b strings.Builder
	rest := layout
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(layout)-len(rest))
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		rest = writeToken(&b, rest)
	}
	return b.String(), nil
}

// writeToken writes the translation of the token at the start of s, or its
// first byte, and returns what remains.
func writeToken(b *strings.Builder, s string) string {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.goFmt)
			return s[len(t.token):]
		}
	}
	b.WriteByte(s[0])
	return s[1:]
}

// ResolveDate expands "auto", "auto:<layout>" and "auto:<preset>" against now.
// Any other value is returned unchanged.
func ResolveDate(value string, now time.Time) (string, error) {
	keyword, layout, hasLayout := strings.Cut(value, ":")
	if !strings.EqualFold(keyword, AutoKeyword) {
		if strings.HasPrefix(strings.ToLower(value), AutoKeyword) && !hasLayout && len(value) > len(AutoKeyword) {
			return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:LAYOUT\"", ErrInvalidDateFormat, value)
		}
		return value, nil
	}

	if !hasLayout {
		layout = DefaultLayout
	}
	if preset, ok := Presets[strings.ToLower(layout)]; ok {
		layout = preset
	}

	goLayout, err := ToGoLayout(layout)
	if err != nil {
		return "", err
	}
	return now.Format(goLayout), nil
}
