package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"go.uber.org/zap"
)

// LowStockJobName is the name of the low stock check job
const LowStockJobName = "low_stock_check"

// lowStockDedupWindow suppresses repeat notifications for the same product
// across consecutive runs.
const lowStockDedupWindow = 24 * time.Hour

// LowStockProductSource lists products at or below their minimum stock.
// Implemented by the product service.
type LowStockProductSource interface {
	ListLowStock(ctx context.Context) ([]domain.ProductDTO, error)
}

// LowStockRecipientSource resolves the users who should be notified.
// Implemented by the user repository.
type LowStockRecipientSource interface {
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
}

// Notifier creates notifications for users.
// Implemented by the notification service.
type Notifier interface {
	CreateForUser(ctx context.Context, userID uuid.UUID, notificationType domain.NotificationType, title, message, entityType string, entityID *uuid.UUID) (*domain.NotificationDTO, error)
}

// NotificationDedup reports whether a matching notification was created recently.
// Implemented by the notification repository.
type NotificationDedup interface {
	ExistsRecent(ctx context.Context, userID uuid.UUID, notificationType string, entityID uuid.UUID, since time.Time) (bool, error)
}

// LowStockJob periodically scans for products below their minimum stock and
// notifies admins. Products already notified within the dedup window are
// skipped.
type LowStockJob struct {
	products   LowStockProductSource
	recipients LowStockRecipientSource
	notifier   Notifier
	dedup      NotificationDedup
	logger     *zap.Logger
	timeout    time.Duration
}

// NewLowStockJob creates a new low stock check job.
func NewLowStockJob(
	products LowStockProductSource,
	recipients LowStockRecipientSource,
	notifier Notifier,
	dedup NotificationDedup,
	logger *zap.Logger,
	timeout time.Duration,
) *LowStockJob {
	return &LowStockJob{
		products:   products,
		recipients: recipients,
		notifier:   notifier,
		dedup:      dedup,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes the low stock check.
// This is called by the scheduler according to the cron expression.
func (j *LowStockJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	products, err := j.products.ListLowStock(ctx)
	if err != nil {
		j.logger.Error("low stock check failed", zap.Error(err))
		return
	}
	if len(products) == 0 {
		return
	}

	admins, err := j.recipients.ListByRole(ctx, string(domain.RoleAdmin))
	if err != nil {
		j.logger.Error("failed to resolve low stock recipients", zap.Error(err))
		return
	}

	var notified int
	for i := range products {
		product := &products[i]
		for _, admin := range admins {
			recent, err := j.dedup.ExistsRecent(ctx, admin.ID, string(domain.NotificationTypeLowStock), product.ID, time.Now().Add(-lowStockDedupWindow))
			if err != nil {
				j.logger.Warn("low stock dedup check failed",
					zap.String("productID", product.ID.String()),
					zap.Error(err))
				continue
			}
			if recent {
				continue
			}

			productID := product.ID
			title := fmt.Sprintf("Low stock: %s", product.Name)
			message := fmt.Sprintf("Product %s (%s) is at %.2f %s, minimum is %.2f",
				product.Name, product.Code, product.StockQuantity, product.Unit, product.MinStock)

			if _, err := j.notifier.CreateForUser(ctx, admin.ID, domain.NotificationTypeLowStock, title, message, "product", &productID); err != nil {
				j.logger.Warn("failed to create low stock notification",
					zap.String("productID", product.ID.String()),
					zap.String("userID", admin.ID.String()),
					zap.Error(err))
				continue
			}
			notified++
		}
	}

	j.logger.Info("low stock check completed",
		zap.Int("low_stock_products", len(products)),
		zap.Int("notifications_created", notified),
		zap.Duration("duration", time.Since(start)))
}

// RegisterLowStockJob registers the low stock check with the scheduler.
func RegisterLowStockJob(
	scheduler *Scheduler,
	products LowStockProductSource,
	recipients LowStockRecipientSource,
	notifier Notifier,
	dedup NotificationDedup,
	logger *zap.Logger,
	cronExpr string,
	timeout time.Duration,
) error {
	job := NewLowStockJob(products, recipients, notifier, dedup, logger, timeout)
	return scheduler.AddJob(LowStockJobName, cronExpr, job.Run)
}
