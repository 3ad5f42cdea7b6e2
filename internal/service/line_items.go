package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/repository"
	"gorm.io/gorm"
)

// validateLineItem checks the business invariants of a line item request:
// quantity and price ranges, product/labor reference exclusivity, and that
// the referenced lookup rows exist.
func validateLineItem(
	ctx context.Context,
	productRepo *repository.ProductRepository,
	laborTypeRepo *repository.LaborTypeRepository,
	req *domain.LineItemRequest,
) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if req.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
	}
	if err := domain.ValidateItemRefs(req.ItemType, req.ProductID, req.LaborTypeID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch req.ItemType {
	case domain.ItemTypeProduct:
		if _, err := productRepo.GetByID(ctx, *req.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %s does not exist", ErrInvalidInput, req.ProductID)
			}
			return fmt.Errorf("failed to verify product: %w", err)
		}
	case domain.ItemTypeLabor:
		if _, err := laborTypeRepo.GetByID(ctx, *req.LaborTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: labor type %s does not exist", ErrInvalidInput, req.LaborTypeID)
			}
			return fmt.Errorf("failed to verify labor type: %w", err)
		}
	}
	return nil
}
