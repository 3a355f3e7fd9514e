package timekeeper

import (
	"fmt"
	"time"
)

// FormatRemaining renders a duration as M:SS, rounded to the nearest second.
// Minutes are not capped at 59.
func FormatRemaining(remaining time.Duration) string {
	seconds := roundSeconds(remaining)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
