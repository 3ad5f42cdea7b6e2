package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"github.com/verksted-as/workshop-api/internal/testutil"
)

func TestQuoteService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	client := testutil.CreateTestClient(t, env.db, "Ola Nordmann")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)
	product := testutil.CreateTestProduct(t, env.db, "Brake pads", 10)
	labor := testutil.CreateTestLaborType(t, env.db, "Brake service", 800)

	t.Run("creates quote with computed totals", func(t *testing.T) {
		req := &domain.CreateQuoteRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
			Discount:  200,
			Items: []domain.LineItemRequest{
				{
					ItemType:    domain.ItemTypeProduct,
					ProductID:   &product.ID,
					Description: "Brake pads front",
					Quantity:    2,
					UnitPrice:   250,
				},
				{
					ItemType:    domain.ItemTypeLabor,
					LaborTypeID: &labor.ID,
					Description: "Replace front pads",
					Quantity:    1.5,
					UnitPrice:   800,
				},
			},
		}

		quote, err := env.quotes.Create(ctx, req, userID)
		require.NoError(t, err)

		assert.Equal(t, domain.QuoteStatusOpen, quote.Status)
		assert.Equal(t, userID, quote.UserID)
		assert.Len(t, quote.Items, 2)
		assert.Equal(t, 1700.0, quote.Subtotal)
		assert.Equal(t, 200.0, quote.Discount)
		assert.Equal(t, 1500.0, quote.Total)

		wantPrefix := fmt.Sprintf("QT-%d-", time.Now().Year())
		assert.Contains(t, quote.Number, wantPrefix)
	})

	t.Run("quoting a product does not touch stock", func(t *testing.T) {
		stored, err := env.productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, stored.StockQuantity)
	})

	t.Run("clamps discount to subtotal", func(t *testing.T) {
		req := &domain.CreateQuoteRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
			Discount:  99999,
			Items: []domain.LineItemRequest{
				{
					ItemType:    domain.ItemTypeLabor,
					LaborTypeID: &labor.ID,
					Description: "Diagnostics",
					Quantity:    1,
					UnitPrice:   500,
				},
			},
		}

		quote, err := env.quotes.Create(ctx, req, userID)
		require.NoError(t, err)
		assert.Equal(t, 500.0, quote.Subtotal)
		assert.Equal(t, 500.0, quote.Discount)
		assert.Equal(t, 0.0, quote.Total)
	})

	t.Run("rejects empty item set", func(t *testing.T) {
		req := &domain.CreateQuoteRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
		}
		_, err := env.quotes.Create(ctx, req, userID)
		assert.ErrorIs(t, err, service.ErrEmptyItems)
	})

	t.Run("rejects unknown client", func(t *testing.T) {
		req := &domain.CreateQuoteRequest{
			ClientID:  uuid.New(),
			VehicleID: vehicle.ID,
			Items: []domain.LineItemRequest{
				{
					ItemType:    domain.ItemTypeLabor,
					LaborTypeID: &labor.ID,
					Description: "Diagnostics",
					Quantity:    1,
					UnitPrice:   500,
				},
			},
		}
		_, err := env.quotes.Create(ctx, req, userID)
		assert.ErrorIs(t, err, service.ErrClientNotFound)
	})

	t.Run("rejects item referencing missing product", func(t *testing.T) {
		missing := uuid.New()
		req := &domain.CreateQuoteRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
			Items: []domain.LineItemRequest{
				{
					ItemType:    domain.ItemTypeProduct,
					ProductID:   &missing,
					Description: "Ghost part",
					Quantity:    1,
					UnitPrice:   100,
				},
			},
		}
		_, err := env.quotes.Create(ctx, req, userID)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("rejects mismatched item references", func(t *testing.T) {
		req := &domain.CreateQuoteRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
			Items: []domain.LineItemRequest{
				{
					ItemType:    domain.ItemTypeProduct,
					LaborTypeID: &labor.ID,
					Description: "Wrong reference",
					Quantity:    1,
					UnitPrice:   100,
				},
			},
		}
		_, err := env.quotes.Create(ctx, req, userID)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestQuoteService_Items(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	client := testutil.CreateTestClient(t, env.db, "Kari Nordmann")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID)
	labor := testutil.CreateTestLaborType(t, env.db, "Service", 600)

	quote, err := env.quotes.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:  client.ID,
		VehicleID: vehicle.ID,
		Items: []domain.LineItemRequest{
			{
				ItemType:    domain.ItemTypeLabor,
				LaborTypeID: &labor.ID,
				Description: "Annual service",
				Quantity:    2,
				UnitPrice:   600,
			},
		},
	}, userID)
	require.NoError(t, err)
	require.Equal(t, 1200.0, quote.Total)

	t.Run("add item recomputes totals", func(t *testing.T) {
		updated, err := env.quotes.AddItem(ctx, quote.ID, &domain.LineItemRequest{
			ItemType:    domain.ItemTypeLabor,
			LaborTypeID: &labor.ID,
			Description: "Extra inspection",
			Quantity:    0.5,
			UnitPrice:   600,
		})
		require.NoError(t, err)
		assert.Len(t, updated.Items, 2)
		assert.Equal(t, 1500.0, updated.Subtotal)
		assert.Equal(t, 1500.0, updated.Total)
	})

	t.Run("remove item recomputes totals", func(t *testing.T) {
		current, err := env.quotes.GetByID(ctx, quote.ID)
		require.NoError(t, err)
		require.Len(t, current.Items, 2)

		var extraID uuid.UUID
		for _, item := range current.Items {
			if item.Description == "Extra inspection" {
				extraID = item.ID
			}
		}
		require.NotEqual(t, uuid.Nil, extraID)

		updated, err := env.quotes.RemoveItem(ctx, quote.ID, extraID)
		require.NoError(t, err)
		assert.Len(t, updated.Items, 1)
		assert.Equal(t, 1200.0, updated.Total)
	})

	t.Run("remove item addressed through wrong quote fails", func(t *testing.T) {
		other, err := env.quotes.Create(ctx, &domain.CreateQuoteRequest{
			ClientID:  client.ID,
			VehicleID: vehicle.ID,
			Items: []domain.LineItemRequest{
				{
					ItemType:    domain.ItemTypeLabor,
					LaborTypeID: &labor.ID,
					Description: "Other work",
					Quantity:    1,
					UnitPrice:   600,
				},
			},
		}, userID)
		require.NoError(t, err)

		_, err = env.quotes.RemoveItem(ctx, quote.ID, other.Items[0].ID)
		assert.ErrorIs(t, err, service.ErrItemNotFound)
	})

	t.Run("update replaces the full item set", func(t *testing.T) {
		newItems := []domain.LineItemRequest{
			{
				ItemType:    domain.ItemTypeLabor,
				LaborTypeID: &labor.ID,
				Description: "Rewritten scope",
				Quantity:    3,
				UnitPrice:   500,
			},
		}
		updated, err := env.quotes.Update(ctx, quote.ID, &domain.UpdateQuoteRequest{Items: &newItems})
		require.NoError(t, err)
		assert.Len(t, updated.Items, 1)
		assert.Equal(t, "Rewritten scope", updated.Items[0].Description)
		assert.Equal(t, 1500.0, updated.Subtotal)
	})
}

func TestQuoteService_SetStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, env.db, "Status Client")
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
	}, uuid.New())
	require.NoError(t, err)

	t.Run("approves an open quote", func(t *testing.T) {
		updated, err := env.quotes.SetStatus(ctx, quote.ID, domain.QuoteStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteStatusApproved, updated.Status)
	})

	t.Run("converted status is reserved", func(t *testing.T) {
		_, err := env.quotes.SetStatus(ctx, quote.ID, domain.QuoteStatusConverted)
		assert.ErrorIs(t, err, service.ErrStatusReserved)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := env.quotes.SetStatus(ctx, quote.ID, domain.QuoteStatus("garbage"))
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})

	t.Run("unknown quote", func(t *testing.T) {
		_, err := env.quotes.SetStatus(ctx, uuid.New(), domain.QuoteStatusRejected)
		assert.ErrorIs(t, err, service.ErrQuoteNotFound)
	})
}

func TestQuoteService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, env.db, "Delete Client")
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
	}, uuid.New())
	require.NoError(t, err)

	require.NoError(t, env.quotes.Delete(ctx, quote.ID))

	_, err = env.quotes.GetByID(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteNotFound)
}
