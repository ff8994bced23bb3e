package timeutil

import (
	"fmt"
	"time"
)

const (
	displayDateLayout  = "Monday, January 02, 2006"
	displayClockLayout = "3:04 PM"
)

// FormatDate renders YYYY-MM-DD as "Monday, October 19, 2026". Unparseable input is returned as is.
func FormatDate(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format(displayDateLayout)
}

// FormatClock renders HH:MM as "4:00 PM". Unparseable input is returned as is.
func FormatClock(clock string) string {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format(displayClockLayout)
}

// FormatClockRange renders "4:00 PM to 6:00 PM".
func FormatClockRange(start, end string) string {
	if _, err := time.Parse(ClockLayout, start); err != nil {
		return fmt.Sprintf("%s to %s", start, end)
	}
	if _, err := time.Parse(ClockLayout, end); err != nil {
		return fmt.Sprintf("%s to %s", start, end)
	}
	return fmt.Sprintf("%s to %s", FormatClock(start), FormatClock(end))
}

// FormatDateTimeRange renders "Monday, October 19, 2026 from 4:00 PM to 6:00 PM".
func FormatDateTimeRange(date, start, end string) string {
	startAt, err := CombineDateTime(date, start, time.UTC)
	if err != nil {
		return fmt.Sprintf("%s from %s to %s", date, start, end)
	}
	endAt, err := CombineDateTime(date, end, time.UTC)
	if err != nil {
		return fmt.Sprintf("%s from %s to %s", date, start, end)
	}
	return fmt.Sprintf("%s from %s to %s",
		startAt.Format(displayDateLayout),
		startAt.Format(displayClockLayout),
		endAt.Format(displayClockLayout),
	)
}
