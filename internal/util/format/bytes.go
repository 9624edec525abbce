package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// HumanizeBytes converts a byte count into a human-readable string (e.g., "1.5 MB").
// Negative or zero counts render as "unknown size".
func HumanizeBytes(b int64) string {
	if b <= 0 {
		return "unknown size"
	}
	return humanize.IBytes(uint64(b))
}

// MinutesSeconds renders d as minutes:seconds, e.g. 3:07. Minutes are not
// wrapped into hours.
func MinutesSeconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
