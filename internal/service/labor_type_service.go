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

type LaborTypeService struct {
	laborTypeRepo *repository.LaborTypeRepository
	logger        *zap.Logger
}

func NewLaborTypeService(laborTypeRepo *repository.LaborTypeRepository, logger *zap.Logger) *LaborTypeService {
	return &LaborTypeService{
		laborTypeRepo: laborTypeRepo,
		logger:        logger,
	}
}

func (s *LaborTypeService) Create(ctx context.Context, req *domain.CreateLaborTypeRequest) (*domain.LaborTypeDTO, error) {
	laborType := &domain.LaborType{
		Name:        req.Name,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
		IsActive:    true,
	}

	if err := s.laborTypeRepo.Create(ctx, laborType); err != nil {
		return nil, fmt.Errorf("failed to create labor type: %w", err)
	}

	s.logger.Info("labor type created", zap.String("laborTypeID", laborType.ID.String()))
	return mapper.LaborTypeToDTO(laborType), nil
}

func (s *LaborTypeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LaborTypeDTO, error) {
	laborType, err := s.laborTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLaborTypeNotFound
		}
		return nil, fmt.Errorf("failed to get labor type: %w", err)
	}
	return mapper.LaborTypeToDTO(laborType), nil
}

func (s *LaborTypeService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLaborTypeRequest) (*domain.LaborTypeDTO, error) {
	laborType, err := s.laborTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLaborTypeNotFound
		}
		return nil, fmt.Errorf("failed to get labor type: %w", err)
	}

	laborType.Name = req.Name
	laborType.Description = req.Description
	laborType.HourlyRate = req.HourlyRate
	if req.IsActive != nil {
		laborType.IsActive = *req.IsActive
	}

	if err := s.laborTypeRepo.Update(ctx, laborType); err != nil {
		return nil, fmt.Errorf("failed to update labor type: %w", err)
	}
	return mapper.LaborTypeToDTO(laborType), nil
}

func (s *LaborTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.laborTypeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLaborTypeNotFound
		}
		return fmt.Errorf("failed to get labor type: %w", err)
	}
	return s.laborTypeRepo.Delete(ctx, id)
}

func (s *LaborTypeService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	laborTypes, total, err := s.laborTypeRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list labor types: %w", err)
	}

	dtos := make([]domain.LaborTypeDTO, len(laborTypes))
	for i := range laborTypes {
		dtos[i] = *mapper.LaborTypeToDTO(&laborTypes[i])
	}
	return mapper.Paginate(dtos, total, page, pageSize), nil
}
