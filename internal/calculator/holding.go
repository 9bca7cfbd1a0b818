package calculator

import (
	"strconv"
	"strings"
	"time"
)

// ParseAcquisitionDate reads a D.M.YYYY date. Out-of-range days roll over
// the way time.Date normalizes them.
func ParseAcquisitionDate(s string) (year, month, day int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = n
	}
	day, month, year = nums[0], nums[1], nums[2]
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// HoldingDays counts whole calendar days from the acquisition date to now,
// both taken at local midnight. Future dates clamp to 0. ok is false when
// the date is missing or unreadable.
func HoldingDays(acquired string, now time.Time) (days int, ok bool) {
	y, m, d, ok := ParseAcquisitionDate(acquired)
	if !ok {
		return 0, false
	}
	start := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	ny, nm, nd := now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	days = int((today.Unix() - start.Unix()) / 86400)
	if days < 0 {
		days = 0
	}
	return days, true
}
