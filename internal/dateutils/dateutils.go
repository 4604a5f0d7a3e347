// Package dateutils parses the date cells found in inventory exports.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutISOTime  = "2006-01-02T15:04:05"
	DateLayoutSlash    = "2006/01/02"
	DateLayoutDotted   = "2006.01.02"
	DateLayoutCompact  = "20060102"
	DateLayoutUS       = "01/02/2006"
	DateLayoutKorean   = "2006년 1월 2일"
	DateLayoutShortDay = "2006-1-2"
)

// CommonFormats lists the layouts tried, in order, for text date cells.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutISOTime,
	"2006-01-02 15:04",
	DateLayoutShortDay,
	DateLayoutSlash,
	"2006/01/02 15:04:05",
	"2006/1/2",
	DateLayoutDotted,
	"2006.1.2",
	"2006. 1. 2.",
	"2006. 1. 2",
	DateLayoutCompact,
	DateLayoutUS,
	"1/2/2006",
	DateLayoutKorean,
	time.RFC3339,
}

// Excel serial day numbers outside this range are not treated as dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

var spaces = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate parses a date cell as a calendar date. It accepts the text layouts in
// CommonFormats and Excel serial day numbers. Unparseable or empty values yield nil.
func ParseDate(value string) *time.Time {
	cleaned := CleanDateString(value)
	if cleaned == "" {
		return nil
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			d := truncateToDay(t)
			return &d
		}
	}

	if serial, err := strconv.ParseFloat(cleaned, 64); err == nil {
		if serial >= minExcelSerial && serial <= maxExcelSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				d := truncateToDay(t)
				return &d
			}
		}
	}

	return nil
}

// ToISODate formats a date as YYYY-MM-DD; nil yields "".
func ToISODate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format(DateLayoutISO)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
