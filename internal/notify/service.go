package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/booking"
)

// Service sends booking confirmations to the configured recipient.
// Failures are logged and never surface to the caller.
type Service struct {
	emailNotifier Notifier
	recipient     string
	logger        *zap.Logger
}

// NewService creates a notification service
func NewService(emailNotifier Notifier, recipient string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		emailNotifier: emailNotifier,
		recipient:     recipient,
		logger:        logger.Named("notify"),
	}
}

// NotifyBooking emails the committed booking when email is available
func (s *Service) NotifyBooking(ctx context.Context, record *booking.Record) {
	if !s.IsEmailAvailable() {
		s.logger.Debug("email not configured, skipping booking notification", zap.Int64("booking_id", record.ID))
		return
	}

	if err := s.emailNotifier.Send(ctx, record, s.recipient); err != nil {
		s.logger.Warn("booking email failed",
			zap.Int64("booking_id", record.ID),
			zap.String("notifier", s.emailNotifier.Name()),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("booking email sent", zap.Int64("booking_id", record.ID), zap.String("recipient", s.recipient))
}

// IsEmailAvailable returns true if email notifications can be used
func (s *Service) IsEmailAvailable() bool {
	return s.emailNotifier != nil && s.emailNotifier.IsConfigured() && s.recipient != ""
}
