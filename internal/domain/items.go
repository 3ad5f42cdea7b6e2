package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateItemRefs checks the product/labor reference pairing for a line
// item. Exactly one reference must be set and it must match the declared
// item type. Both quote and order items go through this check.
func ValidateItemRefs(itemType ItemType, productID, laborTypeID *uuid.UUID) error {
	if !itemType.IsValid() {
		return fmt.Errorf("invalid item type %q", itemType)
	}
	switch itemType {
	case ItemTypeProduct:
		if productID == nil {
			return fmt.Errorf("product item requires a product reference")
		}
		if laborTypeID != nil {
			return fmt.Errorf("product item must not carry a labor type reference")
		}
	case ItemTypeLabor:
		if laborTypeID == nil {
			return fmt.Errorf("labor item requires a labor type reference")
		}
		if productID != nil {
			return fmt.Errorf("labor item must not carry a product reference")
		}
	}
	return nil
}

// LineTotal computes a line item's total price from quantity and unit
// price. Derived prices are always computed here, never taken from the
// caller.
func LineTotal(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}
