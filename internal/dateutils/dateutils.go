// Package dateutils parses the timestamp formats found in payment exports.
package dateutils

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Layouts used across the module.
const (
	DateLayoutISO  = "2006-01-02"
	DateLayoutFull = "2006-01-02 15:04:05"
	MonthLayout    = "2006-01"
)

// TimestampLayouts are tried in order by ParseDateTime. Single-digit month,
// day and hour values are accepted by each layout.
var TimestampLayouts = []string{
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"2006.1.2 15:04:05",
	"2006.1.2 15:04",
	"2006.1.2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006年1月2日 15:04:05",
	"2006年1月2日 15:04",
	"2006年1月2日",
	"20060102150405",
	"20060102",
}

// ParseDateTime parses an exported timestamp. Values without zone
// information are interpreted as UTC wall-clock time.
func ParseDateTime(dateStr string) (time.Time, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString applies NFKC (full-width digits and separators), trims and
// collapses whitespace.
func CleanDateString(dateStr string) string {
	dateStr = norm.NFKC.String(dateStr)
	dateStr = strings.Trim(dateStr, "\ufeff\t ")
	return strings.Join(strings.Fields(dateStr), " ")
}

// FormatDate formats t with layout, defaulting to DateLayoutFull.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutFull
	}
	return t.Format(layout)
}

// StartOfMonth returns the first instant of the month containing date.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// MonthKey returns "YYYY-MM" for date.
func MonthKey(date time.Time) string {
	return date.Format(MonthLayout)
}

// LastMonths returns the keys of n consecutive months ending with the month
// of ref, most recent first.
func LastMonths(ref time.Time, n int) []string {
	start := StartOfMonth(ref)
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, MonthKey(start.AddDate(0, -i, 0)))
	}
	return keys
}
