package game

import (
	"fmt"
	"time"
)

// FormatSeconds renders a second count as minutes:seconds, e.g. 65 → "1:05".
func FormatSeconds(s int) string {
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// FormatElapsed renders d the same way, dropping sub-second precision.
func FormatElapsed(d time.Duration) string {
	return FormatSeconds(int(d / time.Second))
}
