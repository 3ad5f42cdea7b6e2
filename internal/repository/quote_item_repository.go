package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

type QuoteItemRepository struct {
	db *gorm.DB
}

func NewQuoteItemRepository(db *gorm.DB) *QuoteItemRepository {
	return &QuoteItemRepository{db: db}
}

func (r *QuoteItemRepository) Create(ctx context.Context, item *domain.QuoteItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *QuoteItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteItem, error) {
	var item domain.QuoteItem
	err := GetDB(ctx, r.db).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *QuoteItemRepository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]domain.QuoteItem, error) {
	var items []domain.QuoteItem
	err := GetDB(ctx, r.db).
		Where("quote_id = ?", quoteID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *QuoteItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.QuoteItem{}, "id = ?", id).Error
}

// DeleteByQuote removes every item of a quote. Used by full item-set
// replacement.
func (r *QuoteItemRepository) DeleteByQuote(ctx context.Context, quoteID uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.QuoteItem{}, "quote_id = ?", quoteID).Error
}
