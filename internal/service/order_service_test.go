package service_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"github.com/verksted-as/workshop-api/internal/testutil"
)

func TestOrderService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	client := testutil.CreateTestClient(t, env.db, "Order Client")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)
	product := testutil.CreateTestProduct(t, env.db, "Oil filter", 10)

	t.Run("product item consumes stock through an exit movement", func(t *testing.T) {
		order, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
			Items: []domain.LineItemRequest{
				{
					ItemType:    domain.ItemTypeProduct,
					ProductID:   &product.ID,
					Description: "Oil filter",
					Quantity:    3,
					UnitPrice:   250,
				},
			},
		}, userID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusOpen, order.Status)
		assert.Equal(t, 750.0, order.Total)

		stored, err := env.productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 7.0, stored.StockQuantity)

		movements, err := env.movementRepo.ListByProductAscending(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, domain.MovementTypeExit, movements[0].Type)
		assert.Equal(t, domain.MovementReferenceOrder, movements[0].ReferenceType)
		require.NotNil(t, movements[0].ReferenceID)
		assert.Equal(t, order.ID, *movements[0].ReferenceID)
	})

	t.Run("insufficient stock rolls the whole order back", func(t *testing.T) {
		_, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
			Items: []domain.LineItemRequest{
				{
					ItemType:    domain.ItemTypeProduct,
					ProductID:   &product.ID,
					Description: "Oil filter",
					Quantity:    100,
					UnitPrice:   250,
				},
			},
		}, userID)
		assert.ErrorIs(t, err, service.ErrInsufficientStock)

		stored, err := env.productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 7.0, stored.StockQuantity)

		movements, err := env.movementRepo.ListByProductAscending(ctx, product.ID)
		require.NoError(t, err)
		assert.Len(t, movements, 1)
	})

	t.Run("order without items is allowed", func(t *testing.T) {
		order, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
		}, userID)
		require.NoError(t, err)
		assert.Empty(t, order.Items)
		assert.Equal(t, 0.0, order.Total)
	})
}

func TestOrderService_RemoveItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	client := testutil.CreateTestClient(t, env.db, "Order Client")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)
	product := testutil.CreateTestProduct(t, env.db, "Spark plug", 10)

	order, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
		ClientID:  client.ID,
		VehicleID: vehicle.ID,
		Items: []domain.LineItemRequest{
			{
				ItemType:    domain.ItemTypeProduct,
				ProductID:   &product.ID,
				Description: "Spark plugs",
				Quantity:    4,
				UnitPrice:   120,
			},
		},
	}, userID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	updated, err := env.orders.RemoveItem(ctx, order.ID, order.Items[0].ID, &userID)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
	assert.Equal(t, 0.0, updated.Total)

	// The removal returns the quantity to stock with a compensating entry
	stored, err := env.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.StockQuantity)

	movements, err := env.movementRepo.ListByProductAscending(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, domain.MovementTypeExit, movements[0].Type)
	assert.Equal(t, domain.MovementTypeEntry, movements[1].Type)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, env.db, "Status Client")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)

	order, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
		ClientID:  client.ID,
		VehicleID: vehicle.ID,
	}, uuid.New())
	require.NoError(t, err)
	require.Nil(t, order.StartedAt)

	t.Run("in_progress stamps started_at once", func(t *testing.T) {
		updated, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusInProgress)
		require.NoError(t, err)
		require.NotNil(t, updated.StartedAt)
		firstStart := *updated.StartedAt

		updated, err = env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusWaitingParts)
		require.NoError(t, err)

		updated, err = env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusInProgress)
		require.NoError(t, err)
		require.NotNil(t, updated.StartedAt)
		assert.Equal(t, firstStart, *updated.StartedAt)
	})

	t.Run("finished stamps finished_at", func(t *testing.T) {
		updated, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusFinished)
		require.NoError(t, err)
		assert.NotNil(t, updated.FinishedAt)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatus("garbage"))
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})
}

func TestOrderService_Signature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, env.db, "Signature Client")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)

	order, err := env.orders.Create(ctx, &domain.CreateOrderRequest{
		ClientID:  client.ID,
		VehicleID: vehicle.ID,
	}, uuid.New())
	require.NoError(t, err)

	t.Run("download before upload", func(t *testing.T) {
		_, _, err := env.orders.DownloadSignature(ctx, order.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("attach and download round trip", func(t *testing.T) {
		payload := []byte("signature-bytes")
		updated, err := env.orders.AttachSignature(ctx, order.ID, "signature.png", "image/png", bytes.NewReader(payload))
		require.NoError(t, err)
		assert.NotEmpty(t, updated.SignaturePath)

		reader, _, err := env.orders.DownloadSignature(ctx, order.ID)
		require.NoError(t, err)
		defer reader.Close()

		got, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := env.orders.AttachSignature(ctx, uuid.New(), "signature.png", "image/png", bytes.NewReader(nil))
		assert.ErrorIs(t, err, service.ErrOrderNotFound)
	})
}
