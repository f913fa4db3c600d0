// Package settings persists operator preferences. The only one today is the
// address notified when new proposals are ready for approval.
package settings

import (
	"context"
	"errors"
	"strings"

	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/validator"
)

// KeyNotificationEmail stores the approval notification address.
const KeyNotificationEmail = "email_notifiche"

// Service reads and updates settings.
type Service struct {
	store Store
	val   *validator.Validator
	log   *logger.Logger
}

// NewService creates a settings service.
func NewService(store Store, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{store: store, val: val, log: log}
}

// NotificationEmail returns the configured address, or "" when none is set.
func (s *Service) NotificationEmail(ctx context.Context) (string, error) {
	value, err := s.store.Get(ctx, KeyNotificationEmail)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		s.log.DatabaseError("settings.get", err)
		return "", apperr.Upstream("settings.get", err)
	}
	return value, nil
}

// SetNotificationEmail stores the address. A blank value disables notifications.
func (s *Service) SetNotificationEmail(ctx context.Context, address string) (string, error) {
	address = strings.TrimSpace(address)
	if err := s.val.Var(address, "omitempty,email,max=254"); err != nil {
		return "", apperr.Validation("invalid email address")
	}
	if err := s.store.Set(ctx, KeyNotificationEmail, address); err != nil {
		s.log.DatabaseError("settings.set", err)
		return "", apperr.Upstream("settings.set", err)
	}
	s.log.WithContext(ctx).Info("notification email updated", "enabled", address != "")
	return address, nil
}
