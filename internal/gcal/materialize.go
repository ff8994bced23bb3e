package gcal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/omriShneor/calendrix/internal/timeutil"
)

// ErrInvalidTimeFormat is returned when a date and time cannot be combined into an instant
var ErrInvalidTimeFormat = errors.New("invalid time format")

// ServiceError wraps a failure reported by the calendar provider
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// EventService creates events on an external calendar
type EventService interface {
	CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error)
	Name() string
}

// EventRequest is a validated booking ready to become a calendar event
type EventRequest struct {
	Name      string
	Date      string
	StartTime string
	EndTime   string
	Title     string
}

// EventResult describes a created event. ShareLink is set whenever the
// instants could be built, including when the provider call failed.
type EventResult struct {
	EventID   string
	EventLink string
	ShareLink string
	Start     time.Time
	End       time.Time
}

// Materializer turns booking requests into calendar events
type Materializer struct {
	service  EventService
	timeZone string
	loc      *time.Location
}

// NewMaterializer creates a Materializer creating events through service in timeZone
func NewMaterializer(service EventService, timeZone string) *Materializer {
	loc, fallback := timeutil.ResolveLocation(timeZone)
	if fallback {
		timeZone = "UTC"
	}
	return &Materializer{
		service:  service,
		timeZone: timeZone,
		loc:      loc,
	}
}

// ServiceName reports which calendar backend is in use
func (m *Materializer) ServiceName() string {
	return m.service.Name()
}

// TimeZone is the zone event times are interpreted in
func (m *Materializer) TimeZone() string {
	return m.timeZone
}

// MakeEvent creates the calendar event for req. An end at or before the start
// is read as crossing midnight and moved to the next day.
//
// Errors are ErrInvalidTimeFormat (no share link) or *ServiceError (share link still set).
func (m *Materializer) MakeEvent(ctx context.Context, req EventRequest) (EventResult, error) {
	start, err := timeutil.CombineDateTime(req.Date, req.StartTime, m.loc)
	if err != nil {
		return EventResult{}, ErrInvalidTimeFormat
	}
	end, err := timeutil.CombineDateTime(req.Date, req.EndTime, m.loc)
	if err != nil {
		return EventResult{}, ErrInvalidTimeFormat
	}

	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	result := EventResult{
		ShareLink: ShareLink(req.Title, req.Name, start, end),
		Start:     start,
		End:       end,
	}

	created, err := m.service.CreateEvent(ctx, EventInput{
		Summary:     req.Title,
		Description: fmt.Sprintf("Scheduled via Calendrix AI\nOrganized for: %s", req.Name),
		StartTime:   start,
		EndTime:     end,
		TimeZone:    m.timeZone,
		Reminders:   DefaultReminders,
	})
	if err != nil {
		return result, &ServiceError{Err: err}
	}

	result.EventID = created.ID
	result.EventLink = created.HTMLLink
	return result, nil
}

const (
	shareBaseURL     = "https://calendar.google.com/calendar/render?action=TEMPLATE"
	shareDatesLayout = "20060102T150405Z"
)

// ShareLink builds a calendar "add event" deep link. The dates carry the
// wall-clock time with a literal Z suffix, which existing links rely on.
func ShareLink(title, name string, start, end time.Time) string {
	return fmt.Sprintf("%s&text=%s&dates=%s/%s&details=%s",
		shareBaseURL,
		quote(title),
		start.Format(shareDatesLayout),
		end.Format(shareDatesLayout),
		quote("Scheduled via Calendrix AI for "+name),
	)
}

// quote percent-encodes everything except letters, digits, "_.-~" and "/".
func quote(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '_', c == '.', c == '-', c == '~', c == '/':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}
