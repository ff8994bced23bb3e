package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultClockTime is returned by NormalizeTime when nothing in the text looks like a time.
const DefaultClockTime = "10:00"

var looseTimePattern = regexp.MustCompile(`(\d{1,2}):?(\d{2})?\s*(am|pm)?`)

// NormalizeTime turns a free-text time ("4", "9am", "4:30 pm", "noon", "16:00")
// into a 24-hour HH:MM string. It never fails; unrecognised input yields DefaultClockTime.
//
// Without am/pm, hours up to 6 are read as afternoon ("4" is 16:00) and larger
// hours are kept as given.
func NormalizeTime(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	if strings.Contains(s, "noon") || strings.Contains(s, "12 pm") || strings.Contains(s, "12pm") {
		return "12:00"
	}
	if strings.Contains(s, "midnight") || strings.Contains(s, "12 am") || strings.Contains(s, "12am") {
		return "00:00"
	}

	m := looseTimePattern.FindStringSubmatch(s)
	if m == nil {
		return DefaultClockTime
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch meridiem := m[3]; {
	case meridiem == "pm" && hour != 12:
		hour += 12
	case meridiem == "am" && hour == 12:
		hour = 0
	case meridiem == "" && hour <= 6:
		hour += 12
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// NormalizeTimeRange splits a range expression ("4 to 6", "4pm - 6pm", "4pm-6")
// and normalizes both ends. A single time gets a one hour slot, capped at hour 23.
func NormalizeTimeRange(text string) (start, end string) {
	s := strings.ToLower(strings.TrimSpace(text))

	var parts []string
	switch {
	case strings.Contains(s, " to "):
		parts = strings.Split(s, " to ")
	case strings.Contains(s, " - "):
		parts = strings.Split(s, " - ")
	case strings.Contains(s, "-") && !strings.Contains(s, " "):
		parts = strings.Split(s, "-")
	}

	if len(parts) == 2 {
		return NormalizeTime(strings.TrimSpace(parts[0])), NormalizeTime(strings.TrimSpace(parts[1]))
	}

	start = NormalizeTime(s)
	return start, oneHourAfter(start)
}

func oneHourAfter(clock string) string {
	hourText, minuteText, _ := strings.Cut(clock, ":")
	hour, _ := strconv.Atoi(hourText)
	endHour := hour + 1
	if endHour >= 24 {
		endHour = 23
	}
	return fmt.Sprintf("%02d:%s", endHour, minuteText)
}

var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// absoluteDateLayouts are tried in order. Layouts without a year get the current one.
var absoluteDateLayouts = []struct {
	layout  string
	hasYear bool
}{
	{"2006-1-2", true},
	{"1/2/2006", true},
	{"1/2/06", true},
	{"January 2 2006", true},
	{"January 2, 2006", true},
	{"January 2", false},
	{"Jan 2", false},
	{"Jan 2 2006", true},
}

// NormalizeDate turns a free-text date into YYYY-MM-DD relative to now().
// Recognised: "today", "tomorrow", weekday names (the next such day, never today)
// and a handful of absolute formats. Anything else resolves to tomorrow.
func NormalizeDate(text string, now Clock) string {
	today := truncateToDay(now())
	s := strings.ToLower(strings.TrimSpace(text))

	if strings.Contains(s, "today") {
		return today.Format(DateLayout)
	}
	if strings.Contains(s, "tomorrow") {
		return today.AddDate(0, 0, 1).Format(DateLayout)
	}

	for _, wd := range weekdays {
		if strings.Contains(s, wd.name) {
			diff := (int(wd.day) - int(today.Weekday()) + 7) % 7
			if diff == 0 {
				diff = 7
			}
			return today.AddDate(0, 0, diff).Format(DateLayout)
		}
	}

	if d, ok := parseAbsoluteDate(s, today.Year(), today.Location()); ok {
		return d.Format(DateLayout)
	}

	return today.AddDate(0, 0, 1).Format(DateLayout)
}

func parseAbsoluteDate(s string, currentYear int, loc *time.Location) (time.Time, bool) {
	for _, f := range absoluteDateLayouts {
		p, err := time.ParseInLocation(f.layout, s, loc)
		if err != nil {
			continue
		}
		if f.hasYear {
			return p, true
		}
		d := time.Date(currentYear, p.Month(), p.Day(), 0, 0, 0, 0, loc)
		// Feb 29 outside a leap year does not exist.
		if d.Month() != p.Month() {
			continue
		}
		return d, true
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
