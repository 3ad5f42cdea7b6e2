package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/mapper"
	"github.com/verksted-as/workshop-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VehicleService struct {
	vehicleRepo *repository.VehicleRepository
	clientRepo  *repository.ClientRepository
	logger      *zap.Logger
}

func NewVehicleService(vehicleRepo *repository.VehicleRepository, clientRepo *repository.ClientRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

func (s *VehicleService) Create(ctx context.Context, req *domain.CreateVehicleRequest) (*domain.VehicleDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}

	if existing, err := s.vehicleRepo.GetByPlate(ctx, req.Plate); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: plate %s already registered", ErrConflict, req.Plate)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check plate: %w", err)
	}

	vehicle := &domain.Vehicle{
		ClientID:     req.ClientID,
		Plate:        req.Plate,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Color:        req.Color,
		VIN:          req.VIN,
		Mileage:      req.Mileage,
		Observations: req.Observations,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("vehicle created",
		zap.String("vehicleID", vehicle.ID.String()),
		zap.String("plate", vehicle.Plate))
	return mapper.VehicleToDTO(vehicle), nil
}

func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleDTO, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return mapper.VehicleToDTO(vehicle), nil
}

func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateVehicleRequest) (*domain.VehicleDTO, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	vehicle.Plate = req.Plate
	vehicle.Brand = req.Brand
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.Color = req.Color
	vehicle.VIN = req.VIN
	vehicle.Mileage = req.Mileage
	vehicle.Observations = req.Observations

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return mapper.VehicleToDTO(vehicle), nil
}

func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vehicleRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVehicleNotFound
		}
		return fmt.Errorf("failed to get vehicle: %w", err)
	}
	return s.vehicleRepo.Delete(ctx, id)
}

func (s *VehicleService) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, search string) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	vehicles, total, err := s.vehicleRepo.List(ctx, page, pageSize, clientID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	dtos := make([]domain.VehicleDTO, len(vehicles))
	for i := range vehicles {
		dtos[i] = *mapper.VehicleToDTO(&vehicles[i])
	}
	return mapper.Paginate(dtos, total, page, pageSize), nil
}
