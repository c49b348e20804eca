package ebitenhost

import (
	"fmt"
	"strings"
	"time"
)

// formatDuration renders whole elapsed seconds as MM:SS; minutes keep
// counting past an hour.
func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// levelBar renders v in [0, 1] as a fixed-width text meter.
func levelBar(v float64, width int) string {
	n := int(min(max(v, 0), 1)*float64(width) + 0.5)
	return "[" + strings.Repeat("#", n) + strings.Repeat(".", width-n) + "]"
}
