// Package util holds small formatting helpers for user-facing messages.
package util

import (
	"fmt"
	"time"
)

// FormatBytes renders a byte count with a binary unit, e.g. "512 B" or "5.0 MB".
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	const units = "KMGTPE"
	value := float64(bytes) / unit
	exp := 0
	for value >= unit && exp < len(units)-1 {
		value /= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", value, units[exp])
}

// FormatWait renders how long a caller has to wait, rounded up to whole seconds,
// e.g. "45s", "2m5s" or "1h0m".
func FormatWait(wait time.Duration) string {
	if wait <= 0 {
		return "0s"
	}

	seconds := int((wait + time.Second - 1) / time.Second)
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm%ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh%dm", seconds/3600, seconds%3600/60)
	}
}
