package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateItemRefs(t *testing.T) {
	productID := uuid.New()
	laborTypeID := uuid.New()

	tests := []struct {
		name        string
		itemType    ItemType
		productID   *uuid.UUID
		laborTypeID *uuid.UUID
		wantErr     bool
	}{
		{"product with product ref", ItemTypeProduct, &productID, nil, false},
		{"labor with labor ref", ItemTypeLabor, nil, &laborTypeID, false},
		{"product without ref", ItemTypeProduct, nil, nil, true},
		{"labor without ref", ItemTypeLabor, nil, nil, true},
		{"product with labor ref", ItemTypeProduct, &productID, &laborTypeID, true},
		{"labor with product ref", ItemTypeLabor, &productID, &laborTypeID, true},
		{"unknown item type", ItemType("material"), &productID, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemRefs(tt.itemType, tt.productID, tt.laborTypeID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 500.0, LineTotal(2, 250))
	assert.Equal(t, 1200.0, LineTotal(1.5, 800))
	assert.Equal(t, 0.0, LineTotal(0, 100))
}

func TestStatusValidation(t *testing.T) {
	t.Run("quote statuses", func(t *testing.T) {
		assert.True(t, QuoteStatusOpen.IsValid())
		assert.True(t, QuoteStatusConverted.IsValid())
		assert.False(t, QuoteStatus("draft").IsValid())

		assert.True(t, QuoteStatusConverted.IsTerminal())
		assert.False(t, QuoteStatusApproved.IsTerminal())
	})

	t.Run("order statuses", func(t *testing.T) {
		assert.True(t, OrderStatusWaitingParts.IsValid())
		assert.False(t, OrderStatus("paused").IsValid())

		assert.True(t, OrderStatusOpen.CanTransitionTo(OrderStatusFinished))
		assert.False(t, OrderStatusOpen.CanTransitionTo(OrderStatus("paused")))
	})

	t.Run("movement types", func(t *testing.T) {
		assert.True(t, MovementTypeAdjustment.IsValid())
		assert.False(t, MovementType("transfer").IsValid())
	})
}
