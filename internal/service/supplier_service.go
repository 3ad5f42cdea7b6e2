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

// SupplierService handles business logic for suppliers
type SupplierService struct {
	supplierRepo *repository.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new supplier service instance
func NewSupplierService(supplierRepo *repository.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req *domain.CreateSupplierRequest) (*domain.SupplierDTO, error) {
	if req.OrgNumber != "" {
		existing, err := s.supplierRepo.GetByOrgNumber(ctx, req.OrgNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to check org number: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: org number %s already registered", ErrConflict, req.OrgNumber)
		}
	}

	supplier := &domain.Supplier{
		Name:          req.Name,
		OrgNumber:     req.OrgNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		Notes:         req.Notes,
		IsActive:      true,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	s.logger.Info("supplier created", zap.String("supplierID", supplier.ID.String()))
	return mapper.SupplierToDTO(supplier), nil
}

func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SupplierDTO, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return mapper.SupplierToDTO(supplier), nil
}

func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSupplierRequest) (*domain.SupplierDTO, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	supplier.Name = req.Name
	supplier.OrgNumber = req.OrgNumber
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.ContactPerson = req.ContactPerson
	supplier.Notes = req.Notes
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return mapper.SupplierToDTO(supplier), nil
}

// Delete removes a supplier. Suppliers with registered products cannot be
// deleted.
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.supplierRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupplierNotFound
		}
		return fmt.Errorf("failed to get supplier: %w", err)
	}

	hasProducts, err := s.supplierRepo.HasProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check supplier products: %w", err)
	}
	if hasProducts {
		return fmt.Errorf("%w: supplier has registered products", ErrConflict)
	}

	return s.supplierRepo.Delete(ctx, id)
}

func (s *SupplierService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	suppliers, total, err := s.supplierRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	dtos := make([]domain.SupplierDTO, len(suppliers))
	for i := range suppliers {
		dtos[i] = *mapper.SupplierToDTO(&suppliers[i])
	}
	return mapper.Paginate(dtos, total, page, pageSize), nil
}
