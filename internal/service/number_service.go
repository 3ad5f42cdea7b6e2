package service

import (
	"context"
	"fmt"
	"time"

	"github.com/verksted-as/workshop-api/internal/repository"
	"go.uber.org/zap"
)

// Number prefixes for quotes and service orders.
const (
	quoteNumberPrefix = "QT"
	orderNumberPrefix = "SO"
)

// NumberService generates human-readable sequential numbers for quotes and
// orders.
//
// Format: {PREFIX}-{YEAR}-{SEQUENCE}
// Example: QT-2026-001, SO-2026-042
//
// The sequence is the count of existing numbers carrying the current year's
// prefix, plus one. Two allocations running concurrently can read the same
// count and produce the same number: there is no unique constraint or
// serializing counter behind this. Numbers are display references, not
// identifiers, and neither uniqueness nor gap-freedom is guaranteed.
type NumberService struct {
	quoteRepo *repository.QuoteRepository
	orderRepo *repository.OrderRepository
	logger    *zap.Logger
}

// NewNumberService creates a new NumberService
func NewNumberService(
	quoteRepo *repository.QuoteRepository,
	orderRepo *repository.OrderRepository,
	logger *zap.Logger,
) *NumberService {
	return &NumberService{
		quoteRepo: quoteRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// NextQuoteNumber allocates the next quote number for the current year.
func (s *NumberService) NextQuoteNumber(ctx context.Context) (string, error) {
	prefix := yearPrefix(quoteNumberPrefix)
	count, err := s.quoteRepo.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count quote numbers: %w", err)
	}
	number := fmt.Sprintf("%s%03d", prefix, count+1)

	s.logger.Debug("allocated quote number", zap.String("number", number))
	return number, nil
}

// NextOrderNumber allocates the next order number for the current year.
func (s *NumberService) NextOrderNumber(ctx context.Context) (string, error) {
	prefix := yearPrefix(orderNumberPrefix)
	count, err := s.orderRepo.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count order numbers: %w", err)
	}
	number := fmt.Sprintf("%s%03d", prefix, count+1)

	s.logger.Debug("allocated order number", zap.String("number", number))
	return number, nil
}

func yearPrefix(prefix string) string {
	return fmt.Sprintf("%s-%d-", prefix, time.Now().Year())
}
