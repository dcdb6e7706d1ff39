package fn

import (
	"math"
	"strings"
	"time"
)

// Date serials count days with serial 1 = 1900-01-01; the fraction is the
// time of day. The 1900 file format counts a February 29 that never existed,
// so civil dates from 1900-03-01 on sit at serial 61 and serial 60 is a hole
// this package never produces. Conversions below carry that split the same
// way the xlrd date routines do.

// daysToUnixEpoch is the day count from the post-quirk base 1899-12-30 to
// 1970-01-01.
const daysToUnixEpoch = 25569

const secondsPerDay = 86400

// serialTime converts a date serial to UTC civil time.
func serialTime(serial float64) time.Time {
	days := int64(math.Floor(serial))
	if days < 60 {
		// serials before the phantom leap day sit one day later
		days++
	}
	frac := serial - math.Floor(serial)
	secs := (days - daysToUnixEpoch) * secondsPerDay
	ns := int64(math.Round(frac * secondsPerDay * 1e9))
	return time.Unix(secs, ns).UTC()
}

// timeSerial converts UTC civil time to a date serial, time of day in the
// fraction.
func timeSerial(t time.Time) float64 {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := midnight.Unix()/secondsPerDay + daysToUnixEpoch
	if days < 61 {
		days--
	}
	frac := float64(t.Hour()*3600+t.Minute()*60+t.Second())/secondsPerDay +
		float64(t.Nanosecond())/(secondsPerDay*1e9)
	return float64(days) + frac
}

// dateSerial builds a serial from calendar components with spreadsheet
// leniency: day 0 is the last day of the prior month, month 13 the first of
// the next year, and a two-digit-era year below 1900 is offset into the
// 1900s. Out-of-range results report ok=false.
func dateSerial(year, month, day int) (float64, bool) {
	if year >= 0 && year <= 1899 {
		year += 1900
	}
	if year < 0 || year > 9999 {
		return 0, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() < 1900 || t.Year() > 9999 {
		return 0, false
	}
	return timeSerial(t), true
}

// timeFraction builds the fractional serial for a time of day, rolling
// overflowing components and wrapping at 24 hours.
func timeFraction(hour, minute, second int) (float64, bool) {
	total := hour*3600 + minute*60 + second
	if total < 0 {
		return 0, false
	}
	return float64(total%secondsPerDay) / secondsPerDay, true
}

// addMonths shifts a date by whole months, clamping the day to the target
// month's length the way EDATE and EOMONTH do (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// parseDateText reads a date from text using the accepted layouts.
func parseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3 PM",
}

// parseTimeText reads a time of day from text, returning the day fraction.
func parseTimeText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			frac, _ := timeFraction(t.Hour(), t.Minute(), t.Second())
			return frac, true
		}
	}
	return 0, false
}
