package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := GetDB(ctx, r.db).
		Preload("Supplier").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDForUpdate loads a product under a row lock. Must be called inside
// a transaction; serializes concurrent stock checks and ledger appends for
// the same product so two exits cannot both pass a check against stale
// stock.
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := lockForUpdate(GetDB(ctx, r.db)).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	var product domain.Product
	err := GetDB(ctx, r.db).Where("code = ?", code).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

// UpdateStock writes the materialized stock counter. Only the inventory
// service calls this, inside the same transaction that appends the
// movement.
func (r *ProductRepository) UpdateStock(ctx context.Context, id uuid.UUID, quantity float64) error {
	return GetDB(ctx, r.db).Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", quantity).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.Product{}, "id = ?", id).Error
}

func (r *ProductRepository) List(ctx context.Context, page, pageSize int, supplierID *uuid.UUID, activeOnly bool) ([]domain.Product, int64, error) {
	var products []domain.Product
	var total int64

	query := GetDB(ctx, r.db).Model(&domain.Product{}).Preload("Supplier")

	if supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&products).Error

	return products, total, err
}

// ListLowStock returns active products at or below their minimum stock.
func (r *ProductRepository) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := GetDB(ctx, r.db).
		Where("is_active = ? AND stock_quantity <= min_stock", true).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&domain.Product{}).
		Where("is_active = ? AND stock_quantity <= min_stock", true).
		Count(&count).Error
	return count, err
}

func (r *ProductRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Product, error) {
	var products []domain.Product
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	err := GetDB(ctx, r.db).
		Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", searchPattern, searchPattern).
		Limit(limit).
		Find(&products).Error
	return products, err
}
