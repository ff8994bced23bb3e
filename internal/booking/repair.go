package booking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/omriShneor/calendrix/internal/timeutil"
)

const (
	DefaultName      = "Guest"
	DefaultStartTime = "10:00"
	DefaultEndTime   = "11:00"
)

var (
	strictDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	strictClockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// IsStrictDate reports whether s has the YYYY-MM-DD shape.
func IsStrictDate(s string) bool {
	return strictDatePattern.MatchString(s)
}

// IsStrictClock reports whether s has the HH:MM shape.
func IsStrictClock(s string) bool {
	return strictClockPattern.MatchString(s)
}

// Repairs records which fields Repair had to re-normalize
type Repairs struct {
	Date      bool
	TimeRange bool
	EndTime   bool
}

// Any reports whether at least one field was rewritten.
func (r Repairs) Any() bool {
	return r.Date || r.TimeRange || r.EndTime
}

// DefaultTitle is the title used when the user skipped naming the meeting.
func DefaultTitle(name string) string {
	return fmt.Sprintf("Meeting with %s", name)
}

// WithDefaults fills empty fields the way a confirm without them is interpreted.
func WithDefaults(p Proposal) Proposal {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = DefaultName
	}
	if strings.TrimSpace(p.StartTime) == "" {
		p.StartTime = DefaultStartTime
	}
	if strings.TrimSpace(p.EndTime) == "" {
		p.EndTime = DefaultEndTime
	}
	if strings.TrimSpace(p.Title) == "" {
		p.Title = DefaultTitle(p.Name)
	}
	return p
}

// Repair checks the date and times against their strict shapes and re-runs the
// normalizers only on fields that fail. Values that already conform are left alone.
//
// A malformed start time re-parses "{start} to {end}" so both ends are recovered
// together; an end time that is still malformed afterwards is normalized on its own.
func Repair(p Proposal, now timeutil.Clock) (Proposal, Repairs) {
	var r Repairs

	if !IsStrictDate(p.Date) {
		p.Date = timeutil.NormalizeDate(p.Date, now)
		r.Date = true
	}

	if !IsStrictClock(p.StartTime) {
		p.StartTime, p.EndTime = timeutil.NormalizeTimeRange(fmt.Sprintf("%s to %s", p.StartTime, p.EndTime))
		r.TimeRange = true
	}
	if !IsStrictClock(p.EndTime) {
		p.EndTime = timeutil.NormalizeTime(p.EndTime)
		r.EndTime = true
	}

	return p, r
}
