package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteLifecycleService implements the quote-to-order conversion protocol.
// Conversion is one-way and one-time: it materializes an order from the
// quote's line items and flips the quote into its terminal converted
// state, all inside a single transaction.
type QuoteLifecycleService struct {
	quoteRepo     *repository.QuoteRepository
	quoteItemRepo *repository.QuoteItemRepository
	orderRepo     *repository.OrderRepository
	orderService  *OrderService
	numberService *NumberService
	txManager     repository.TransactionManager
	logger        *zap.Logger
}

// NewQuoteLifecycleService creates a new QuoteLifecycleService
func NewQuoteLifecycleService(
	quoteRepo *repository.QuoteRepository,
	quoteItemRepo *repository.QuoteItemRepository,
	orderRepo *repository.OrderRepository,
	orderService *OrderService,
	numberService *NumberService,
	txManager repository.TransactionManager,
	logger *zap.Logger,
) *QuoteLifecycleService {
	return &QuoteLifecycleService{
		quoteRepo:     quoteRepo,
		quoteItemRepo: quoteItemRepo,
		orderRepo:     orderRepo,
		orderService:  orderService,
		numberService: numberService,
		txManager:     txManager,
		logger:        logger,
	}
}

// ConvertToOrder converts a quote into a service order.
//
// The whole protocol runs in one transaction: the quote is loaded under a
// row lock, the order and its items are created, product items pass through
// the stock-coupled insert path (writing exit movements), and the quote's
// status is set to converted. Any failure, including a stock check, rolls
// the entire unit back. A second call on the same quote fails because the
// status is already converted.
func (s *QuoteLifecycleService) ConvertToOrder(ctx context.Context, quoteID uuid.UUID, req *domain.ConvertQuoteRequest, userID uuid.UUID) (*domain.OrderDTO, error) {
	var orderID uuid.UUID

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quote, err := s.quoteRepo.GetByIDForUpdate(txCtx, quoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuoteNotFound
			}
			return fmt.Errorf("failed to load quote: %w", err)
		}
		if quote.Status == domain.QuoteStatusConverted {
			return ErrQuoteConverted
		}

		items, err := s.quoteItemRepo.ListByQuote(txCtx, quoteID)
		if err != nil {
			return fmt.Errorf("failed to load quote items: %w", err)
		}
		if len(items) == 0 {
			return ErrQuoteHasNoItems
		}

		number, err := s.numberService.NextOrderNumber(txCtx)
		if err != nil {
			return err
		}

		var mechanicID *uuid.UUID
		if req != nil {
			mechanicID = req.MechanicID
		}

		order := &domain.Order{
			Number:     number,
			QuoteID:    &quote.ID,
			ClientID:   quote.ClientID,
			VehicleID:  quote.VehicleID,
			MechanicID: mechanicID,
			Status:     domain.OrderStatusOpen,
			Subtotal:   quote.Subtotal,
			Discount:   quote.Discount,
			Total:      quote.Total,
			Notes:      quote.Notes,
		}
		if err := s.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		orderID = order.ID

		for i := range items {
			itemReq := &domain.LineItemRequest{
				ItemType:    items[i].ItemType,
				ProductID:   items[i].ProductID,
				LaborTypeID: items[i].LaborTypeID,
				Description: items[i].Description,
				Quantity:    items[i].Quantity,
				UnitPrice:   items[i].UnitPrice,
			}
			if err := s.orderService.insertItem(txCtx, order, itemReq, &userID); err != nil {
				return err
			}
		}

		if err := s.orderService.recomputeTotals(txCtx, order.ID, quote.Discount); err != nil {
			return err
		}

		if err := s.quoteRepo.UpdateFields(txCtx, quoteID, map[string]interface{}{
			"status": domain.QuoteStatusConverted,
		}); err != nil {
			return fmt.Errorf("failed to mark quote converted: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote converted to order",
		zap.String("quoteID", quoteID.String()),
		zap.String("orderID", orderID.String()))

	return s.orderService.GetByID(ctx, orderID)
}
