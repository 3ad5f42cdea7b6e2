package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/mapper"
	"github.com/verksted-as/workshop-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService owns quotes and their line items. Totals are always
// recomputed from the full current item set after a mutation, inside the
// same transaction, with the quote row locked for the duration.
type QuoteService struct {
	quoteRepo     *repository.QuoteRepository
	quoteItemRepo *repository.QuoteItemRepository
	clientRepo    *repository.ClientRepository
	vehicleRepo   *repository.VehicleRepository
	productRepo   *repository.ProductRepository
	laborTypeRepo *repository.LaborTypeRepository
	numberService *NumberService
	txManager     repository.TransactionManager
	logger        *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	quoteItemRepo *repository.QuoteItemRepository,
	clientRepo *repository.ClientRepository,
	vehicleRepo *repository.VehicleRepository,
	productRepo *repository.ProductRepository,
	laborTypeRepo *repository.LaborTypeRepository,
	numberService *NumberService,
	txManager repository.TransactionManager,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:     quoteRepo,
		quoteItemRepo: quoteItemRepo,
		clientRepo:    clientRepo,
		vehicleRepo:   vehicleRepo,
		productRepo:   productRepo,
		laborTypeRepo: laborTypeRepo,
		numberService: numberService,
		txManager:     txManager,
		logger:        logger,
	}
}

// Create creates a new quote with its initial items. The quote, its items
// and the allocated number are persisted in one transaction.
func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest, userID uuid.UUID) (*domain.QuoteDTO, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}
	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to verify vehicle: %w", err)
	}

	items := make([]domain.QuoteItem, len(req.Items))
	itemTotals := make([]float64, len(req.Items))
	for i := range req.Items {
		itemReq := &req.Items[i]
		if err := validateLineItem(ctx, s.productRepo, s.laborTypeRepo, itemReq); err != nil {
			return nil, err
		}
		totalPrice := domain.LineTotal(itemReq.Quantity, itemReq.UnitPrice)
		items[i] = domain.QuoteItem{
			ItemType:    itemReq.ItemType,
			ProductID:   itemReq.ProductID,
			LaborTypeID: itemReq.LaborTypeID,
			Description: itemReq.Description,
			Quantity:    itemReq.Quantity,
			UnitPrice:   itemReq.UnitPrice,
			TotalPrice:  totalPrice,
		}
		itemTotals[i] = totalPrice
	}

	subtotal, discount, total := normalizeTotals(itemTotals, req.Discount)

	var quote *domain.Quote
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.numberService.NextQuoteNumber(txCtx)
		if err != nil {
			return err
		}

		quote = &domain.Quote{
			Number:     number,
			ClientID:   req.ClientID,
			VehicleID:  req.VehicleID,
			UserID:     userID,
			Status:     domain.QuoteStatusOpen,
			Subtotal:   subtotal,
			Discount:   discount,
			Total:      total,
			ValidUntil: req.ValidUntil,
			Notes:      req.Notes,
			Items:      items,
		}
		if err := s.quoteRepo.Create(txCtx, quote); err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote created",
		zap.String("quoteID", quote.ID.String()),
		zap.String("number", quote.Number),
		zap.Float64("total", quote.Total))

	return s.GetByID(ctx, quote.ID)
}

// GetByID returns a quote with its items attached.
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return mapper.QuoteToDTO(quote), nil
}

// List returns a paginated list of quotes.
func (s *QuoteService) List(ctx context.Context, page, pageSize int, clientID, vehicleID *uuid.UUID, status *domain.QuoteStatus) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize, clientID, vehicleID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	dtos := make([]domain.QuoteDTO, len(quotes))
	for i := range quotes {
		dtos[i] = *mapper.QuoteToDTO(&quotes[i])
	}

	return mapper.Paginate(dtos, total, page, pageSize), nil
}

// Update applies partial changes to a quote. A non-nil item list replaces
// the full item set; the old items are deleted and the new ones inserted in
// the same transaction that recomputes the totals.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	if req.Items != nil {
		for i := range *req.Items {
			if err := validateLineItem(ctx, s.productRepo, s.laborTypeRepo, &(*req.Items)[i]); err != nil {
				return nil, err
			}
		}
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quote, err := s.lockMutableQuote(txCtx, id)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if req.Notes != nil {
			fields["notes"] = *req.Notes
		}
		if req.ValidUntil != nil {
			fields["valid_until"] = *req.ValidUntil
		}

		discount := quote.Discount
		if req.Discount != nil {
			discount = *req.Discount
		}

		if req.Items != nil {
			if err := s.quoteItemRepo.DeleteByQuote(txCtx, id); err != nil {
				return fmt.Errorf("failed to clear quote items: %w", err)
			}
			for i := range *req.Items {
				itemReq := &(*req.Items)[i]
				item := &domain.QuoteItem{
					QuoteID:     id,
					ItemType:    itemReq.ItemType,
					ProductID:   itemReq.ProductID,
					LaborTypeID: itemReq.LaborTypeID,
					Description: itemReq.Description,
					Quantity:    itemReq.Quantity,
					UnitPrice:   itemReq.UnitPrice,
					TotalPrice:  domain.LineTotal(itemReq.Quantity, itemReq.UnitPrice),
				}
				if err := s.quoteItemRepo.Create(txCtx, item); err != nil {
					return fmt.Errorf("failed to insert quote item: %w", err)
				}
			}
		}

		if len(fields) > 0 {
			if err := s.quoteRepo.UpdateFields(txCtx, id, fields); err != nil {
				return fmt.Errorf("failed to update quote: %w", err)
			}
		}

		return s.recomputeTotals(txCtx, id, discount)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// AddItem inserts a line item and recomputes the quote's totals.
func (s *QuoteService) AddItem(ctx context.Context, quoteID uuid.UUID, req *domain.LineItemRequest) (*domain.QuoteDTO, error) {
	if err := validateLineItem(ctx, s.productRepo, s.laborTypeRepo, req); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quote, err := s.lockMutableQuote(txCtx, quoteID)
		if err != nil {
			return err
		}

		item := &domain.QuoteItem{
			QuoteID:     quoteID,
			ItemType:    req.ItemType,
			ProductID:   req.ProductID,
			LaborTypeID: req.LaborTypeID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			TotalPrice:  domain.LineTotal(req.Quantity, req.UnitPrice),
		}
		if err := s.quoteItemRepo.Create(txCtx, item); err != nil {
			return fmt.Errorf("failed to insert quote item: %w", err)
		}

		return s.recomputeTotals(txCtx, quoteID, quote.Discount)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, quoteID)
}

// RemoveItem deletes a line item and recomputes the quote's totals.
func (s *QuoteService) RemoveItem(ctx context.Context, quoteID, itemID uuid.UUID) (*domain.QuoteDTO, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quote, err := s.lockMutableQuote(txCtx, quoteID)
		if err != nil {
			return err
		}

		item, err := s.quoteItemRepo.GetByID(txCtx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to load quote item: %w", err)
		}
		if item.QuoteID != quoteID {
			return ErrItemNotFound
		}

		if err := s.quoteItemRepo.Delete(txCtx, itemID); err != nil {
			return fmt.Errorf("failed to delete quote item: %w", err)
		}

		return s.recomputeTotals(txCtx, quoteID, quote.Discount)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, quoteID)
}

// SetStatus updates a quote's status. The converted status is reserved for
// the conversion protocol and cannot be set here.
func (s *QuoteService) SetStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) (*domain.QuoteDTO, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if status == domain.QuoteStatusConverted {
		return nil, ErrStatusReserved
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.lockMutableQuote(txCtx, id); err != nil {
			return err
		}
		return s.quoteRepo.UpdateFields(txCtx, id, map[string]interface{}{"status": status})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote status changed",
		zap.String("quoteID", id.String()),
		zap.String("status", string(status)))

	return s.GetByID(ctx, id)
}

// Delete removes a quote and its items. Converted quotes are history and
// cannot be deleted.
func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.lockMutableQuote(txCtx, id); err != nil {
			return err
		}
		if err := s.quoteItemRepo.DeleteByQuote(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete quote items: %w", err)
		}
		if err := s.quoteRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete quote: %w", err)
		}
		return nil
	})
}

// lockMutableQuote loads a quote under a row lock and rejects mutation of
// converted quotes.
func (s *QuoteService) lockMutableQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	quote, err := s.quoteRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	if quote.Status.IsTerminal() {
		return nil, ErrQuoteConverted
	}
	return quote, nil
}

// recomputeTotals derives subtotal, discount and total from the full
// current item set and persists them. Runs inside the caller's transaction
// with the quote row already locked.
func (s *QuoteService) recomputeTotals(ctx context.Context, quoteID uuid.UUID, discount float64) error {
	items, err := s.quoteItemRepo.ListByQuote(ctx, quoteID)
	if err != nil {
		return fmt.Errorf("failed to load quote items: %w", err)
	}

	itemTotals := make([]float64, len(items))
	for i := range items {
		itemTotals[i] = items[i].TotalPrice
	}
	subtotal, discount, total := normalizeTotals(itemTotals, discount)

	return s.quoteRepo.UpdateFields(ctx, quoteID, map[string]interface{}{
		"subtotal": subtotal,
		"discount": discount,
		"total":    total,
	})
}
