package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

type OrderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) *OrderItemRepository {
	return &OrderItemRepository{db: db}
}

func (r *OrderItemRepository) Create(ctx context.Context, item *domain.OrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *OrderItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.OrderItem, error) {
	var item domain.OrderItem
	err := GetDB(ctx, r.db).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *OrderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := GetDB(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *OrderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.OrderItem{}, "id = ?", id).Error
}
