package gcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

// ErrServiceUnavailable is returned when the client has no authenticated service
var ErrServiceUnavailable = errors.New("calendar service not initialized")

const localDateTimeLayout = "2006-01-02T15:04:05"

// Reminder is a reminder override on a created event
type Reminder struct {
	Method  string
	Minutes int64
}

// DefaultReminders are attached to every booking: a popup 15 minutes and an email an hour before.
var DefaultReminders = []Reminder{
	{Method: "popup", Minutes: 15},
	{Method: "email", Minutes: 60},
}

// EventInput represents the input for creating a calendar event.
// Start and End are wall-clock times in TimeZone.
type EventInput struct {
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	TimeZone    string
	Reminders   []Reminder
}

// CreatedEvent is what the provider hands back for a new event
type CreatedEvent struct {
	ID       string
	HTMLLink string
}

// CreateEvent creates a new event in Google Calendar
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error) {
	if c.service == nil {
		return nil, ErrServiceUnavailable
	}

	created, err := c.service.Events.Insert(c.calendarID, buildEvent(input)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &CreatedEvent{ID: created.Id, HTMLLink: created.HtmlLink}, nil
}

func buildEvent(input EventInput) *calendar.Event {
	timeZone := input.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.StartTime.Format(localDateTimeLayout),
			TimeZone: timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.EndTime.Format(localDateTimeLayout),
			TimeZone: timeZone,
		},
	}

	if len(input.Reminders) > 0 {
		overrides := make([]*calendar.EventReminder, len(input.Reminders))
		for i, r := range input.Reminders {
			overrides[i] = &calendar.EventReminder{Method: r.Method, Minutes: r.Minutes}
		}
		event.Reminders = &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		}
	}

	return event
}

// DemoCalendar stands in for Google Calendar when no credentials are configured.
// Every event is accepted with a demo_<unix seconds> id and no link.
type DemoCalendar struct {
	now func() time.Time
}

// NewDemoCalendar creates a DemoCalendar
func NewDemoCalendar() *DemoCalendar {
	return &DemoCalendar{now: time.Now}
}

func (d *DemoCalendar) CreateEvent(_ context.Context, _ EventInput) (*CreatedEvent, error) {
	return &CreatedEvent{ID: fmt.Sprintf("demo_%d", d.now().Unix())}, nil
}

func (d *DemoCalendar) Name() string {
	return "demo"
}
