package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

// ClientRepository handles client data access operations
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return GetDB(ctx, r.db).Create(client).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := GetDB(ctx, r.db).
		Preload("Vehicles").
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return GetDB(ctx, r.db).Save(client).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.Client{}, "id = ?", id).Error
}

func (r *ClientRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Client, int64, error) {
	var clients []domain.Client
	var total int64

	query := GetDB(ctx, r.db).Model(&domain.Client{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(document) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&clients).Error

	return clients, total, err
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&domain.Client{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
