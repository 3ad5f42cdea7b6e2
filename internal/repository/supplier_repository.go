package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

// SupplierRepository handles supplier data access operations
type SupplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository instance
func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	return GetDB(ctx, r.db).Create(supplier).Error
}

func (r *SupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := GetDB(ctx, r.db).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// GetByOrgNumber finds a supplier by organization number. Returns nil when
// no supplier matches.
func (r *SupplierRepository) GetByOrgNumber(ctx context.Context, orgNumber string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := GetDB(ctx, r.db).Where("org_number = ?", orgNumber).First(&supplier).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	return GetDB(ctx, r.db).Save(supplier).Error
}

func (r *SupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.Supplier{}, "id = ?", id).Error
}

func (r *SupplierRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Supplier, int64, error) {
	var suppliers []domain.Supplier
	var total int64

	query := GetDB(ctx, r.db).Model(&domain.Supplier{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(org_number) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&suppliers).Error

	return suppliers, total, err
}

// HasProducts checks whether any product references the supplier.
func (r *SupplierRepository) HasProducts(ctx context.Context, supplierID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&domain.Product{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
