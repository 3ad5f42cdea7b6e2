package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"github.com/verksted-as/workshop-api/internal/testutil"
)

func TestInventoryService_Record(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	product := testutil.CreateTestProduct(t, env.db, "Wiper blade", 0)

	t.Run("entry adds to stock", func(t *testing.T) {
		movement, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
			ProductID: product.ID,
			Type:      domain.MovementTypeEntry,
			Quantity:  5,
			Notes:     "initial delivery",
		}, &userID)
		require.NoError(t, err)
		assert.Equal(t, domain.MovementReferenceManual, movement.ReferenceType)

		stored, err := env.productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, stored.StockQuantity)
	})

	t.Run("exit subtracts from stock", func(t *testing.T) {
		_, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
			ProductID: product.ID,
			Type:      domain.MovementTypeExit,
			Quantity:  2,
		}, &userID)
		require.NoError(t, err)

		stored, err := env.productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 3.0, stored.StockQuantity)
	})

	t.Run("exit past zero is rejected", func(t *testing.T) {
		_, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
			ProductID: product.ID,
			Type:      domain.MovementTypeExit,
			Quantity:  50,
		}, &userID)
		assert.ErrorIs(t, err, service.ErrInsufficientStock)

		stored, err := env.productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 3.0, stored.StockQuantity)
	})

	t.Run("adjustment sets an absolute level", func(t *testing.T) {
		_, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
			ProductID: product.ID,
			Type:      domain.MovementTypeAdjustment,
			Quantity:  10,
			Notes:     "stocktake",
		}, &userID)
		require.NoError(t, err)

		stored, err := env.productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, stored.StockQuantity)
	})

	t.Run("ledger replay matches the counter", func(t *testing.T) {
		derived, err := env.inventory.DeriveStock(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, derived)
	})

	t.Run("entry must be positive", func(t *testing.T) {
		_, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
			ProductID: product.ID,
			Type:      domain.MovementTypeEntry,
			Quantity:  0,
		}, &userID)
		assert.ErrorIs(t, err, service.ErrInvalidMovement)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
			ProductID: uuid.New(),
			Type:      domain.MovementTypeEntry,
			Quantity:  1,
		}, &userID)
		assert.ErrorIs(t, err, service.ErrProductNotFound)
	})
}

func TestInventoryService_RecalculateStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	product := testutil.CreateTestProduct(t, env.db, "Coolant", 0)

	_, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
		ProductID: product.ID,
		Type:      domain.MovementTypeEntry,
		Quantity:  8,
	}, &userID)
	require.NoError(t, err)

	// Simulate a write that bypassed the ledger
	require.NoError(t, env.db.Exec(
		"UPDATE products SET stock_quantity = 999 WHERE id = ?", product.ID,
	).Error)

	level, err := env.inventory.RecalculateStock(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 999.0, level.Stored)
	assert.Equal(t, 8.0, level.Derived)
	assert.False(t, level.InSync)

	// The counter is rewritten from the ledger
	stored, err := env.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, stored.StockQuantity)

	// A second pass reports the repaired state
	level, err = env.inventory.RecalculateStock(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, level.InSync)
}

func TestInventoryService_StockLevels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	product := testutil.CreateTestProduct(t, env.db, "Battery", 0)
	_, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
		ProductID: product.ID,
		Type:      domain.MovementTypeEntry,
		Quantity:  4,
	}, &userID)
	require.NoError(t, err)

	levels, err := env.inventory.StockLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, product.ID, levels[0].ProductID)
	assert.Equal(t, 4.0, levels[0].Stored)
	assert.Equal(t, 4.0, levels[0].Derived)
	assert.True(t, levels[0].InSync)
}

func TestInventoryService_ListMovements(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	product := testutil.CreateTestProduct(t, env.db, "Bulb", 0)
	for i := 0; i < 3; i++ {
		_, err := env.inventory.Record(ctx, &domain.RecordMovementRequest{
			ProductID: product.ID,
			Type:      domain.MovementTypeEntry,
			Quantity:  1,
		}, &userID)
		require.NoError(t, err)
	}

	page, err := env.inventory.ListMovements(ctx, product.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 2, page.TotalPages)

	_, err = env.inventory.ListMovements(ctx, uuid.New(), 1, 10)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}
