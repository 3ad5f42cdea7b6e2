package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

// VehicleRepository handles vehicle data access operations
type VehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository instance
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return GetDB(ctx, r.db).Create(vehicle).Error
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := GetDB(ctx, r.db).
		Preload("Client").
		Where("id = ?", id).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := GetDB(ctx, r.db).Where("plate = ?", plate).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	return GetDB(ctx, r.db).Save(vehicle).Error
}

func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&domain.Vehicle{}, "id = ?", id).Error
}

func (r *VehicleRepository) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, search string) ([]domain.Vehicle, int64, error) {
	var vehicles []domain.Vehicle
	var total int64

	query := GetDB(ctx, r.db).Model(&domain.Vehicle{}).Preload("Client")

	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(plate) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(model) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&vehicles).Error

	return vehicles, total, err
}
