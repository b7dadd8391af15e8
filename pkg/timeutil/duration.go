// Package timeutil reads the short human durations used in configuration,
// such as the undo window.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultUndoWindow is used when no window is configured.
const DefaultUndoWindow = "5s"

var (
	segment = regexp.MustCompile(`^\s*(\d+)\s*(ms|[a-z]+)`)
	units   = map[string]time.Duration{
		"ms":      time.Millisecond,
		"s":       time.Second,
		"sec":     time.Second,
		"secs":    time.Second,
		"second":  time.Second,
		"seconds": time.Second,
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
		"h":       time.Hour,
		"hr":      time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
	}
)

// ParseWindow parses "5s", "1m30s" or "10 seconds" and returns the duration
// with its compact form. Empty input means DefaultUndoWindow. A bare number
// is read as seconds.
func ParseWindow(input string) (time.Duration, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultUndoWindow
	}
	if n, err := strconv.Atoi(remaining); err == nil {
		remaining = fmt.Sprintf("%ds", n)
	}

	var total time.Duration
	for len(strings.TrimSpace(remaining)) > 0 {
		m := segment.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, "", fmt.Errorf("timeutil: invalid duration segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("timeutil: invalid duration value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("timeutil: unsupported duration unit %q", m[2])
		}
		total += time.Duration(value) * unit
		remaining = remaining[len(m[0]):]
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("timeutil: duration must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d with h, m, s and ms tokens.
func FormatWindow(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	var parts []string
	remaining := d
	for _, u := range []struct {
		label string
		value time.Duration
	}{
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
		{"ms", time.Millisecond},
	} {
		if remaining < u.value {
			continue
		}
		count := remaining / u.value
		remaining -= count * u.value
		parts = append(parts, fmt.Sprintf("%d%s", count, u.label))
	}
	if len(parts) == 0 {
		return d.String()
	}
	return strings.Join(parts, "")
}
