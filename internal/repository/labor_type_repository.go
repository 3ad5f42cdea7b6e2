package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

// LaborTypeRepository handles labor type data access operations
type LaborTypeRepository struct {
	db *gorm.DB
}

// NewLaborTypeRepository creates a new labor type repository instance
func NewLaborTypeRepository(db *gorm.DB) *LaborTypeRepository {
	return &LaborTypeRepository{db: db}
}

func (r *LaborTypeRepository) Create(ctx context.Context, laborType *domain.LaborType) error {
	return GetDB(ctx, r.db).Create(laborType).Error
}

func (r *LaborTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LaborType, error) {
	var laborType domain.LaborType
	err := GetDB(ctx, r.db).Where("id = ?", id).First(&laborType).Error
	if err != nil {
		return nil, err
	}
	return &laborType, nil
}

func (r *LaborTypeRepository) Update(ctx context.Context, laborType *domain.LaborType) error {
	return GetDB(ctx, r.db).Save(laborType).Error
}

func (r *LaborTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.LaborType{}, "id = ?", id).Error
}

func (r *LaborTypeRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.LaborType, int64, error) {
	var laborTypes []domain.LaborType
	var total int64

	query := GetDB(ctx, r.db).Model(&domain.LaborType{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&laborTypes).Error

	return laborTypes, total, err
}
