package logger

import (
	"strings"
	"time"
)

// RoundMS trims a duration to millisecond precision so log lines stay
// comparable across entries.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// Took measures elapsed time since start, rounded for logging.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// Status collapses an error into the ok/error status value used across
// handler summary logs.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}

// SummarizeStrings joins at most limit values for a log attribute and
// reports whether anything was cut off.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if limit <= 0 {
		return "", len(values) > 0
	}
	if len(values) > limit {
		return strings.Join(values[:limit], ", "), true
	}
	return strings.Join(values, ", "), false
}
