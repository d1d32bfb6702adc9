// Package util provides shared utilities: date parsing, range presets, and
// store-id ordering.
package util

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a time.Time (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate formats a time.Time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ─── Range Presets ────────────────────────────────────────────────────────────

// ResolveRange turns a preset name into a start/end date pair relative to
// today. Supported presets: today, yesterday, past-N (N days ending
// yesterday, matching the operator presets "Past N Days").
func ResolveRange(preset string, now time.Time) (start, end string, err error) {
	today := now
	switch p := strings.ToLower(strings.TrimSpace(preset)); {
	case p == "today":
		return FormatDate(today), FormatDate(today), nil
	case p == "yesterday":
		y := today.AddDate(0, 0, -1)
		return FormatDate(y), FormatDate(y), nil
	case strings.HasPrefix(p, "past-"):
		n, perr := strconv.Atoi(strings.TrimPrefix(p, "past-"))
		if perr != nil || n < 1 {
			return "", "", fmt.Errorf("invalid range %q: expected past-N with N >= 1", preset)
		}
		e := today.AddDate(0, 0, -1)
		s := e.AddDate(0, 0, -(n - 1))
		return FormatDate(s), FormatDate(e), nil
	default:
		return "", "", fmt.Errorf("unknown range %q: expected today, yesterday, or past-N", preset)
	}
}

// ─── Store ID Ordering ────────────────────────────────────────────────────────

// SortStoreIDs orders store ids numerically when both sides parse as
// integers, falling back to lexicographic order. Store numbers are numeric
// strings in practice, but the directory never assumes it.
func SortStoreIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		na, aerr := strconv.Atoi(ids[i])
		nb, berr := strconv.Atoi(ids[j])
		if aerr == nil && berr == nil {
			return na < nb
		}
		return ids[i] < ids[j]
	})
}
