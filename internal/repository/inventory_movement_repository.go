package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

// InventoryMovementRepository persists the stock ledger. The ledger is
// append-only: there are deliberately no update or delete methods.
type InventoryMovementRepository struct {
	db *gorm.DB
}

func NewInventoryMovementRepository(db *gorm.DB) *InventoryMovementRepository {
	return &InventoryMovementRepository{db: db}
}

func (r *InventoryMovementRepository) Create(ctx context.Context, movement *domain.InventoryMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *InventoryMovementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryMovement, error) {
	var movement domain.InventoryMovement
	err := GetDB(ctx, r.db).
		Preload("Product").
		Where("id = ?", id).
		First(&movement).Error
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *InventoryMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]domain.InventoryMovement, int64, error) {
	var movements []domain.InventoryMovement
	var total int64

	query := GetDB(ctx, r.db).Model(&domain.InventoryMovement{}).
		Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&movements).Error

	return movements, total, err
}

// ListByProductAscending returns a product's full movement history in
// insertion order, for ledger replay.
func (r *InventoryMovementRepository) ListByProductAscending(ctx context.Context, productID uuid.UUID) ([]domain.InventoryMovement, error) {
	var movements []domain.InventoryMovement
	err := GetDB(ctx, r.db).
		Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").
		Find(&movements).Error
	return movements, err
}

func (r *InventoryMovementRepository) ListByReference(ctx context.Context, refType domain.MovementReferenceType, refID uuid.UUID) ([]domain.InventoryMovement, error) {
	var movements []domain.InventoryMovement
	err := GetDB(ctx, r.db).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}
