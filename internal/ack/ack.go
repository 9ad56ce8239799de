// Package ack manages acknowledged cases. An acknowledged case is left out
// of the staleness report until its snooze runs out.
package ack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/JustJay7/collections-tracker/internal/database"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

// ErrNotAcknowledged is returned for cases with no active acknowledgment.
var ErrNotAcknowledged = errors.New("case is not acknowledged")

// Service stores acknowledgments in the database.
type Service struct {
	db     *gorm.DB
	now    func() time.Time
	logger *logger.Logger
}

// NewService creates a service. A nil now uses time.Now.
func NewService(db *gorm.DB, log *logger.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{db: db, now: now, logger: log}
}

// Acknowledge hides caseNumber for snooze, or until removed when snooze is
// zero. Acknowledging again replaces the previous entry.
func (s *Service) Acknowledge(ctx context.Context, caseNumber, reason, by string, snooze time.Duration) (*database.Acknowledgment, error) {
	caseNumber = strings.TrimSpace(caseNumber)
	if caseNumber == "" {
		return nil, fmt.Errorf("case number is required")
	}
	if snooze < 0 {
		return nil, fmt.Errorf("snooze must not be negative, got %s", snooze)
	}

	var reviewAfter *time.Time
	if snooze > 0 {
		t := s.now().Add(snooze).UTC()
		reviewAfter = &t
	}

	var ack database.Acknowledgment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("case_number = ?", caseNumber).First(&ack).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ack = database.Acknowledgment{CaseNumber: caseNumber}
		case err != nil:
			return err
		}
		ack.Reason = reason
		ack.AcknowledgedBy = by
		ack.ReviewAfter = reviewAfter
		return tx.Save(&ack).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to acknowledge case %s: %w", caseNumber, err)
	}

	s.logger.Info("Case acknowledged", "case_number", caseNumber, "snooze", snooze.String(), "by", by)
	return &ack, nil
}

// Remove deletes the acknowledgment of caseNumber.
func (s *Service) Remove(ctx context.Context, caseNumber string) error {
	res := s.db.WithContext(ctx).Unscoped().
		Where("case_number = ?", strings.TrimSpace(caseNumber)).
		Delete(&database.Acknowledgment{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove acknowledgment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotAcknowledged
	}
	return nil
}

// Active returns the acknowledgments in force, keyed by case number.
// Expired snoozes are deleted on the way.
func (s *Service) Active(ctx context.Context) (map[string]database.Acknowledgment, error) {
	if err := s.expire(ctx); err != nil {
		return nil, err
	}

	var acks []database.Acknowledgment
	if err := s.db.WithContext(ctx).Order("case_number").Find(&acks).Error; err != nil {
		return nil, fmt.Errorf("failed to list acknowledgments: %w", err)
	}

	out := make(map[string]database.Acknowledgment, len(acks))
	for _, a := range acks {
		out[a.CaseNumber] = a
	}
	return out, nil
}

// List returns the acknowledgments in force ordered by case number.
func (s *Service) List(ctx context.Context) ([]database.Acknowledgment, error) {
	if err := s.expire(ctx); err != nil {
		return nil, err
	}

	var acks []database.Acknowledgment
	if err := s.db.WithContext(ctx).Order("case_number").Find(&acks).Error; err != nil {
		return nil, fmt.Errorf("failed to list acknowledgments: %w", err)
	}
	return acks, nil
}

// Get returns the acknowledgment of caseNumber if it is in force.
func (s *Service) Get(ctx context.Context, caseNumber string) (*database.Acknowledgment, error) {
	var ack database.Acknowledgment
	err := s.db.WithContext(ctx).Where("case_number = ?", strings.TrimSpace(caseNumber)).First(&ack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotAcknowledged
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load acknowledgment: %w", err)
	}
	if ack.ReviewAfter != nil && !ack.ReviewAfter.After(s.now()) {
		return nil, ErrNotAcknowledged
	}
	return &ack, nil
}

func (s *Service) expire(ctx context.Context) error {
	res := s.db.WithContext(ctx).Unscoped().
		Where("review_after IS NOT NULL AND review_after <= ?", s.now().UTC()).
		Delete(&database.Acknowledgment{})
	if res.Error != nil {
		return fmt.Errorf("failed to expire acknowledgments: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.logger.Info("Acknowledgments expired", "count", res.RowsAffected)
	}
	return nil
}
