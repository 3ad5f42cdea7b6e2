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

// InventoryService owns the stock ledger. Movements are append-only facts;
// the product's stock_quantity column is a materialized projection updated
// in the same transaction as each append, and must always equal the value
// derived by replaying the ledger.
type InventoryService struct {
	movementRepo *repository.InventoryMovementRepository
	productRepo  *repository.ProductRepository
	txManager    repository.TransactionManager
	logger       *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	movementRepo *repository.InventoryMovementRepository,
	productRepo *repository.ProductRepository,
	txManager repository.TransactionManager,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		movementRepo: movementRepo,
		productRepo:  productRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Record appends a manual movement and updates the product's stock counter
// in one transaction.
func (s *InventoryService) Record(ctx context.Context, req *domain.RecordMovementRequest, userID *uuid.UUID) (*domain.InventoryMovementDTO, error) {
	var movement *domain.InventoryMovement
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		movement, err = s.record(txCtx, req.ProductID, req.Type, req.Quantity, domain.MovementReferenceManual, nil, userID, req.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapper.InventoryMovementToDTO(movement), nil
}

// record appends a movement inside the caller's transaction. The product
// row is locked first so concurrent movements against the same product
// serialize, and the stock counter is written before the transaction
// commits. Order item mutations call this directly from their own
// transactions.
func (s *InventoryService) record(
	ctx context.Context,
	productID uuid.UUID,
	movementType domain.MovementType,
	quantity float64,
	referenceType domain.MovementReferenceType,
	referenceID *uuid.UUID,
	userID *uuid.UUID,
	notes string,
) (*domain.InventoryMovement, error) {
	if !movementType.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidMovement, movementType)
	}

	product, err := s.productRepo.GetByIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	var newStock float64
	switch movementType {
	case domain.MovementTypeEntry:
		if quantity <= 0 {
			return nil, fmt.Errorf("%w: entry quantity must be positive", ErrInvalidMovement)
		}
		newStock = product.StockQuantity + quantity
	case domain.MovementTypeExit:
		if quantity <= 0 {
			return nil, fmt.Errorf("%w: exit quantity must be positive", ErrInvalidMovement)
		}
		newStock = product.StockQuantity - quantity
		// The order engine checks stock before asking for an exit; this
		// re-check runs under the row lock and is authoritative.
		if newStock < 0 {
			return nil, ErrInsufficientStock
		}
	case domain.MovementTypeAdjustment:
		// Adjustment carries an absolute target, not a delta.
		if quantity < 0 {
			return nil, fmt.Errorf("%w: adjustment quantity must not be negative", ErrInvalidMovement)
		}
		newStock = quantity
	}

	movement := &domain.InventoryMovement{
		ProductID:     productID,
		Type:          movementType,
		Quantity:      quantity,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		UserID:        userID,
		Notes:         notes,
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to append movement: %w", err)
	}

	if err := s.productRepo.UpdateStock(ctx, productID, newStock); err != nil {
		return nil, fmt.Errorf("failed to update stock counter: %w", err)
	}

	s.logger.Info("inventory movement recorded",
		zap.String("productID", productID.String()),
		zap.String("type", string(movementType)),
		zap.Float64("quantity", quantity),
		zap.Float64("newStock", newStock))

	return movement, nil
}

// ListMovements returns a product's movement history, newest first.
func (s *InventoryService) ListMovements(ctx context.Context, productID uuid.UUID, page, pageSize int) (*domain.PaginatedResponse, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	movements, total, err := s.movementRepo.ListByProduct(ctx, productID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	dtos := make([]domain.InventoryMovementDTO, len(movements))
	for i := range movements {
		dtos[i] = *mapper.InventoryMovementToDTO(&movements[i])
	}

	return mapper.Paginate(dtos, total, page, pageSize), nil
}

// DeriveStock replays a product's ledger and returns the resulting on-hand
// quantity. Entries add, exits subtract, adjustments reset the running
// value to their absolute quantity.
func (s *InventoryService) DeriveStock(ctx context.Context, productID uuid.UUID) (float64, error) {
	movements, err := s.movementRepo.ListByProductAscending(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to load movements: %w", err)
	}
	return replayLedger(movements), nil
}

// RecalculateStock rewrites the materialized counter from the ledger. Used
// by the reconcile endpoint; a drift between the two indicates a write that
// bypassed this service.
func (s *InventoryService) RecalculateStock(ctx context.Context, productID uuid.UUID) (*domain.StockLevelDTO, error) {
	var level *domain.StockLevelDTO
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err := s.productRepo.GetByIDForUpdate(txCtx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		movements, err := s.movementRepo.ListByProductAscending(txCtx, productID)
		if err != nil {
			return fmt.Errorf("failed to load movements: %w", err)
		}
		derived := replayLedger(movements)

		if derived != product.StockQuantity {
			s.logger.Warn("stock counter out of sync with ledger",
				zap.String("productID", productID.String()),
				zap.Float64("stored", product.StockQuantity),
				zap.Float64("derived", derived))
			if err := s.productRepo.UpdateStock(txCtx, productID, derived); err != nil {
				return fmt.Errorf("failed to update stock counter: %w", err)
			}
		}

		level = &domain.StockLevelDTO{
			ProductID: product.ID,
			Code:      product.Code,
			Name:      product.Name,
			Stored:    product.StockQuantity,
			Derived:   derived,
			InSync:    derived == product.StockQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return level, nil
}

// StockLevels reports every active product's stored counter next to its
// ledger-derived value without modifying anything.
func (s *InventoryService) StockLevels(ctx context.Context) ([]domain.StockLevelDTO, error) {
	products, _, err := s.productRepo.List(ctx, 1, 1000, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	levels := make([]domain.StockLevelDTO, 0, len(products))
	for i := range products {
		derived, err := s.DeriveStock(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		levels = append(levels, domain.StockLevelDTO{
			ProductID: products[i].ID,
			Code:      products[i].Code,
			Name:      products[i].Name,
			Stored:    products[i].StockQuantity,
			Derived:   derived,
			InSync:    derived == products[i].StockQuantity,
		})
	}
	return levels, nil
}

func replayLedger(movements []domain.InventoryMovement) float64 {
	var stock float64
	for i := range movements {
		switch movements[i].Type {
		case domain.MovementTypeEntry:
			stock += movements[i].Quantity
		case domain.MovementTypeExit:
			stock -= movements[i].Quantity
		case domain.MovementTypeAdjustment:
			stock = movements[i].Quantity
		}
	}
	return stock
}
