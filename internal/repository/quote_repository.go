package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return GetDB(ctx, r.db).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("Vehicle").
		Preload("Items").
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetByIDForUpdate loads a quote under a row lock. Must be called inside a
// transaction; the lock is held until the transaction ends and serializes
// concurrent item-mutate-then-recompute sequences on the same quote.
func (r *QuoteRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := lockForUpdate(GetDB(ctx, r.db)).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return GetDB(ctx, r.db).Save(quote).Error
}

// UpdateFields writes a partial set of columns without touching the rest of
// the row.
func (r *QuoteRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(&domain.Quote{}).Where("id = ?", id).Updates(fields).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.Quote{}, "id = ?", id).Error
}

func (r *QuoteRepository) List(ctx context.Context, page, pageSize int, clientID, vehicleID *uuid.UUID, status *domain.QuoteStatus) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	query := GetDB(ctx, r.db).Model(&domain.Quote{}).Preload("Client").Preload("Vehicle").Preload("Items")

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
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotes).Error

	return quotes, total, err
}

// CountByNumberPrefix counts quotes whose number starts with the given
// prefix. Feeds the sequential number allocator.
func (r *QuoteRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&domain.Quote{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// ListExpiring returns open quotes whose validity window ends before the
// given cutoff.
func (r *QuoteRepository) ListExpiring(ctx context.Context, before time.Time) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := GetDB(ctx, r.db).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until <= ?", domain.QuoteStatusOpen, before).
		Order("valid_until ASC").
		Find(&quotes).Error
	return quotes, err
}

func (r *QuoteRepository) CountByStatus(ctx context.Context, status domain.QuoteStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&domain.Quote{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
