package gcal

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API client for a single calendar
type Client struct {
	service    *calendar.Service
	calendarID string
}

// NewClient creates a Google Calendar client authenticated as a service account
func NewClient(ctx context.Context, credentialsJSON []byte, calendarID string) (*Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, OAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return NewClientWithService(service, calendarID), nil
}

// NewClientWithService wraps an already configured calendar service
func NewClientWithService(service *calendar.Service, calendarID string) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		service:    service,
		calendarID: calendarID,
	}
}

// IsAuthenticated returns true if the client is authenticated
func (c *Client) IsAuthenticated() bool {
	return c.service != nil
}

// CalendarID returns the calendar events are inserted into
func (c *Client) CalendarID() string {
	return c.calendarID
}

func (c *Client) Name() string {
	return "google"
}
