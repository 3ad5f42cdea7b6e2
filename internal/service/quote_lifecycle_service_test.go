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

func TestQuoteLifecycleService_ConvertToOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	client := testutil.CreateTestClient(t, env.db, "Convert Client")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)
	product := testutil.CreateTestProduct(t, env.db, "Timing belt", 5)
	labor := testutil.CreateTestLaborType(t, env.db, "Belt replacement", 900)

	quote, err := env.quotes.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:  client.ID,
		VehicleID: vehicle.ID,
		Discount:  100,
		Items: []domain.LineItemRequest{
			{
				ItemType:    domain.ItemTypeProduct,
				ProductID:   &product.ID,
				Description: "Timing belt kit",
				Quantity:    1,
				UnitPrice:   1500,
			},
			{
				ItemType:    domain.ItemTypeLabor,
				LaborTypeID: &labor.ID,
				Description: "Replace timing belt",
				Quantity:    4,
				UnitPrice:   900,
			},
		},
	}, userID)
	require.NoError(t, err)

	t.Run("materializes an order and consumes stock", func(t *testing.T) {
		mechanicID := uuid.New()
		order, err := env.lifecycle.ConvertToOrder(ctx, quote.ID, &domain.ConvertQuoteRequest{
			MechanicID: &mechanicID,
		}, userID)
		require.NoError(t, err)

		assert.Equal(t, domain.OrderStatusOpen, order.Status)
		require.NotNil(t, order.QuoteID)
		assert.Equal(t, quote.ID, *order.QuoteID)
		require.NotNil(t, order.MechanicID)
		assert.Equal(t, mechanicID, *order.MechanicID)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, quote.Subtotal, order.Subtotal)
		assert.Equal(t, quote.Discount, order.Discount)
		assert.Equal(t, quote.Total, order.Total)

		converted, err := env.quotes.GetByID(ctx, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusConverted, converted.Status)

		stored, err := env.productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, stored.StockQuantity)
	})

	t.Run("second conversion fails", func(t *testing.T) {
		_, err := env.lifecycle.ConvertToOrder(ctx, quote.ID, nil, userID)
		assert.ErrorIs(t, err, service.ErrQuoteConverted)
	})

	t.Run("converted quote is read-only", func(t *testing.T) {
		_, err := env.quotes.AddItem(ctx, quote.ID, &domain.LineItemRequest{
			ItemType:    domain.ItemTypeLabor,
			LaborTypeID: &labor.ID,
			Description: "Late addition",
			Quantity:    1,
			UnitPrice:   900,
		})
		assert.ErrorIs(t, err, service.ErrQuoteConverted)

		err = env.quotes.Delete(ctx, quote.ID)
		assert.ErrorIs(t, err, service.ErrQuoteConverted)
	})
}

func TestQuoteLifecycleService_ConvertRollsBackOnStockFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	client := testutil.CreateTestClient(t, env.db, "Rollback Client")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)
	product := testutil.CreateTestProduct(t, env.db, "Rare part", 1)

	quote, err := env.quotes.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:  client.ID,
		VehicleID: vehicle.ID,
		Items: []domain.LineItemRequest{
			{
				ItemType:    domain.ItemTypeProduct,
				ProductID:   &product.ID,
				Description: "Rare parts",
				Quantity:    5,
				UnitPrice:   2000,
			},
		},
	}, userID)
	require.NoError(t, err)

	_, err = env.lifecycle.ConvertToOrder(ctx, quote.ID, nil, userID)
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	// Nothing from the failed conversion survives
	current, err := env.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusOpen, current.Status)

	stored, err := env.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, stored.StockQuantity)

	orders, total, err := env.orderRepo.List(ctx, 1, 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, int64(0), total)
}

func TestQuoteLifecycleService_ConvertEmptyQuote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	client := testutil.CreateTestClient(t, env.db, "Empty Client")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)
	labor := testutil.CreateTestLaborType(t, env.db, "Service", 600)

	quote, err := env.quotes.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:  client.ID,
		VehicleID: vehicle.ID,
		Items: []domain.LineItemRequest{
			{
				ItemType:    domain.ItemTypeLabor,
				LaborTypeID: &labor.ID,
				Description: "Work",
				Quantity:    1,
				UnitPrice:   600,
			},
		},
	}, userID)
	require.NoError(t, err)

	// Strip the quote down to zero items, then attempt conversion
	empty := []domain.LineItemRequest{}
	_, err = env.quotes.Update(ctx, quote.ID, &domain.UpdateQuoteRequest{Items: &empty})
	require.NoError(t, err)

	_, err = env.lifecycle.ConvertToOrder(ctx, quote.ID, nil, userID)
	assert.ErrorIs(t, err, service.ErrQuoteHasNoItems)
}

func TestQuoteLifecycleService_UnknownQuote(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.lifecycle.ConvertToOrder(context.Background(), uuid.New(), nil, uuid.New())
	assert.ErrorIs(t, err, service.ErrQuoteNotFound)
}
