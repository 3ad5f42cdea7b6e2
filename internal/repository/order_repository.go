package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("Vehicle").
		Preload("Quote").
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate loads an order under a row lock. Must be called inside a
// transaction; serializes concurrent item mutations against the same order.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := lockForUpdate(GetDB(ctx, r.db)).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return GetDB(ctx, r.db).Save(order).Error
}

// UpdateFields writes a partial set of columns without touching the rest of
// the row.
func (r *OrderRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(&domain.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.Order{}, "id = ?", id).Error
}

func (r *OrderRepository) List(ctx context.Context, page, pageSize int, clientID, vehicleID *uuid.UUID, status *domain.OrderStatus) ([]domain.Order, int64, error) {
	var orders []domain.Order
	var total int64

	query := GetDB(ctx, r.db).Model(&domain.Order{}).Preload("Client").Preload("Vehicle").Preload("Items")

	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	if vehicleID != nil {
		query = query.Where("vehicle_id = ?", *vehicleID)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&orders).Error

	return orders, total, err
}

// CountByNumberPrefix counts orders whose number starts with the given
// prefix. Feeds the sequential number allocator.
func (r *OrderRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&domain.Order{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&domain.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// SumFinishedTotals sums the totals of orders finished inside the window.
func (r *OrderRepository) SumFinishedTotals(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := GetDB(ctx, r.db).Model(&domain.Order{}).
		Where("status = ? AND finished_at >= ? AND finished_at < ?", domain.OrderStatusFinished, from, to).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

// CountFinishedBetween counts orders finished inside the window.
func (r *OrderRepository) CountFinishedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&domain.Order{}).
		Where("status = ? AND finished_at >= ? AND finished_at < ?", domain.OrderStatusFinished, from, to).
		Count(&count).Error
	return count, err
}
