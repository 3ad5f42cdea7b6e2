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

// ProductService handles business logic for stocked products. Stock itself
// is never written here; every quantity change goes through the inventory
// ledger.
type ProductService struct {
	productRepo      *repository.ProductRepository
	supplierRepo     *repository.SupplierRepository
	inventoryService *InventoryService
	txManager        repository.TransactionManager
	logger           *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo *repository.ProductRepository,
	supplierRepo *repository.SupplierRepository,
	inventoryService *InventoryService,
	txManager repository.TransactionManager,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:      productRepo,
		supplierRepo:     supplierRepo,
		inventoryService: inventoryService,
		txManager:        txManager,
		logger:           logger,
	}
}

// Create registers a new product. The product starts at zero stock; an
// initial quantity is applied as an entry movement in the same transaction
// so the ledger accounts for every unit from the beginning.
func (s *ProductService) Create(ctx context.Context, req *domain.CreateProductRequest, userID *uuid.UUID) (*domain.ProductDTO, error) {
	existing, err := s.productRepo.GetByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check product code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: product code %s already in use", ErrConflict, req.Code)
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, fmt.Errorf("failed to verify supplier: %w", err)
		}
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	product := &domain.Product{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		CostPrice:   req.CostPrice,
		MinStock:    req.MinStock,
		Unit:        unit,
		SupplierID:  req.SupplierID,
		IsActive:    true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		if req.InitialStock > 0 {
			if _, err := s.inventoryService.record(txCtx, product.ID, domain.MovementTypeEntry, req.InitialStock, domain.MovementReferenceManual, nil, userID, "initial stock"); err != nil {
				return err
			}
			product.StockQuantity = req.InitialStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("productID", product.ID.String()),
		zap.String("code", product.Code))
	return mapper.ProductToDTO(product), nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return mapper.ProductToDTO(product), nil
}

// Update changes product master data. StockQuantity is deliberately not
// updatable here; use an inventory adjustment instead.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProductRequest) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if req.Code != product.Code {
		existing, err := s.productRepo.GetByCode(ctx, req.Code)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check product code: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: product code %s already in use", ErrConflict, req.Code)
		}
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, fmt.Errorf("failed to verify supplier: %w", err)
		}
	}

	product.Code = req.Code
	product.Name = req.Name
	product.Description = req.Description
	product.UnitPrice = req.UnitPrice
	product.CostPrice = req.CostPrice
	product.MinStock = req.MinStock
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.SupplierID = req.SupplierID
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return mapper.ProductToDTO(product), nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, page, pageSize int, supplierID *uuid.UUID, activeOnly bool) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	products, total, err := s.productRepo.List(ctx, page, pageSize, supplierID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]domain.ProductDTO, len(products))
	for i := range products {
		dtos[i] = *mapper.ProductToDTO(&products[i])
	}
	return mapper.Paginate(dtos, total, page, pageSize), nil
}

// ListLowStock returns products at or below their minimum stock level.
func (s *ProductService) ListLowStock(ctx context.Context) ([]domain.ProductDTO, error) {
	products, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	dtos := make([]domain.ProductDTO, len(products))
	for i := range products {
		dtos[i] = *mapper.ProductToDTO(&products[i])
	}
	return dtos, nil
}

// Search finds products by code or name.
func (s *ProductService) Search(ctx context.Context, query string, limit int) ([]domain.ProductDTO, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	products, err := s.productRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	dtos := make([]domain.ProductDTO, len(products))
	for i := range products {
		dtos[i] = *mapper.ProductToDTO(&products[i])
	}
	return dtos, nil
}
