package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/omriShneor/calendrix/internal/booking"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

// ResendNotifier sends booking confirmation emails via Resend API
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
}

// NewResendNotifier creates a new Resend email notifier, nil without an API key
func NewResendNotifier(apiKey, from string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
	}
}

// IsConfigured returns true if the notifier has server-side config
func (r *ResendNotifier) IsConfigured() bool {
	return r != nil && r.client != nil && r.fromAddress != ""
}

// Send emails the booking details to recipient
func (r *ResendNotifier) Send(ctx context.Context, record *booking.Record, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("no recipient specified")
	}

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{recipient},
		Subject: fmt.Sprintf("Meeting booked: %s", record.Title),
		Html:    formatEmailHTML(record, time.Now()),
	}

	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}

// Name returns the notifier name
func (r *ResendNotifier) Name() string {
	return "resend"
}

func formatEmailHTML(record *booking.Record, sentAt time.Time) string {
	when := timeutil.FormatDateTimeRange(record.Date, record.StartTime, record.EndTime)

	eventHTML := ""
	if record.EventLink != "" {
		eventHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><a href="%s">Open in Google Calendar</a></p>`, html.EscapeString(record.EventLink))
	}

	shareHTML := ""
	if record.ShareLink != "" {
		shareHTML = fmt.Sprintf(`<a href="%s" style="display: inline-block; background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 16px; font-weight: 500;">
      Add to your calendar
    </a>`, html.EscapeString(record.ShareLink))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: white; border-radius: 8px; padding: 24px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <h2 style="margin: 0 0 16px 0; color: #333;">%s</h2>

    <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; margin: 16px 0; border-left: 4px solid #28a745;">
      <p style="margin: 8px 0;"><strong>When:</strong> %s</p>
      <p style="margin: 8px 0;"><strong>Organized for:</strong> %s</p>
      %s
    </div>

    %s

    <hr style="margin-top: 32px; border: none; border-top: 1px solid #eee;">
    <p style="color: #999; font-size: 12px; margin-top: 16px;">
      Calendrix AI - Smart Scheduling Assistant<br>
      <span style="color: #ccc;">Booking #%d, sent at %s</span>
    </p>
  </div>
</body>
</html>`,
		html.EscapeString(record.Title),
		html.EscapeString(when),
		html.EscapeString(record.Name),
		eventHTML,
		shareHTML,
		record.ID,
		sentAt.Format("Jan 2, 2006 3:04 PM"),
	)
}
