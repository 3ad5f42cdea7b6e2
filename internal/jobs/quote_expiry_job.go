package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/verksted-as/workshop-api/internal/domain"
	"go.uber.org/zap"
)

// QuoteExpiryJobName is the name of the quote expiry check job
const QuoteExpiryJobName = "quote_expiry_check"

// quoteExpiryHorizon is how far ahead of valid_until the owner is warned.
const quoteExpiryHorizon = 48 * time.Hour

// quoteExpiryDedupWindow suppresses repeat notifications for the same quote.
const quoteExpiryDedupWindow = 24 * time.Hour

// ExpiringQuoteSource lists open quotes whose validity ends before a cutoff.
// Implemented by the quote repository.
type ExpiringQuoteSource interface {
	ListExpiring(ctx context.Context, before time.Time) ([]domain.Quote, error)
}

// QuoteExpiryJob warns quote owners when an open quote is about to pass its
// valid-until date.
type QuoteExpiryJob struct {
	quotes   ExpiringQuoteSource
	notifier Notifier
	dedup    NotificationDedup
	logger   *zap.Logger
	timeout  time.Duration
}

// NewQuoteExpiryJob creates a new quote expiry check job.
func NewQuoteExpiryJob(
	quotes ExpiringQuoteSource,
	notifier Notifier,
	dedup NotificationDedup,
	logger *zap.Logger,
	timeout time.Duration,
) *QuoteExpiryJob {
	return &QuoteExpiryJob{
		quotes:   quotes,
		notifier: notifier,
		dedup:    dedup,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes the quote expiry check.
func (j *QuoteExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	quotes, err := j.quotes.ListExpiring(ctx, time.Now().Add(quoteExpiryHorizon))
	if err != nil {
		j.logger.Error("quote expiry check failed", zap.Error(err))
		return
	}
	if len(quotes) == 0 {
		return
	}

	var notified int
	for i := range quotes {
		quote := &quotes[i]
		recent, err := j.dedup.ExistsRecent(ctx, quote.UserID, string(domain.NotificationTypeQuoteExpiring), quote.ID, time.Now().Add(-quoteExpiryDedupWindow))
		if err != nil {
			j.logger.Warn("quote expiry dedup check failed",
				zap.String("quoteID", quote.ID.String()),
				zap.Error(err))
			continue
		}
		if recent {
			continue
		}

		quoteID := quote.ID
		title := fmt.Sprintf("Quote %s is expiring", quote.Number)
		message := fmt.Sprintf("Quote %s is still open and valid until %s",
			quote.Number, quote.ValidUntil.Format("2006-01-02"))

		if _, err := j.notifier.CreateForUser(ctx, quote.UserID, domain.NotificationTypeQuoteExpiring, title, message, "quote", &quoteID); err != nil {
			j.logger.Warn("failed to create quote expiry notification",
				zap.String("quoteID", quote.ID.String()),
				zap.Error(err))
			continue
		}
		notified++
	}

	j.logger.Info("quote expiry check completed",
		zap.Int("expiring_quotes", len(quotes)),
		zap.Int("notifications_created", notified),
		zap.Duration("duration", time.Since(start)))
}

// RegisterQuoteExpiryJob registers the quote expiry check with the scheduler.
func RegisterQuoteExpiryJob(
	scheduler *Scheduler,
	quotes ExpiringQuoteSource,
	notifier Notifier,
	dedup NotificationDedup,
	logger *zap.Logger,
	cronExpr string,
	timeout time.Duration,
) error {
	job := NewQuoteExpiryJob(quotes, notifier, dedup, logger, timeout)
	return scheduler.AddJob(QuoteExpiryJobName, cronExpr, job.Run)
}
