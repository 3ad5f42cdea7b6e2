package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verksted-as/workshop-api/internal/auth"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/service"
	"github.com/verksted-as/workshop-api/internal/testutil"
)

func userCtx(userID uuid.UUID) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      userID,
		DisplayName: "Test User",
		Email:       "user@example.com",
		Roles:       []domain.UserRoleType{domain.RoleMechanic},
	})
}

func TestNotificationService_CurrentUserScoping(t *testing.T) {
	env := newTestEnv(t)

	owner := testutil.CreateTestUser(t, env.db)
	other := testutil.CreateTestUser(t, env.db)
	ctx := userCtx(owner.ID)

	created, err := env.notifications.CreateForUser(
		context.Background(), owner.ID, domain.NotificationTypeLowStock,
		"Low stock", "Brake pads are below minimum", "product", nil,
	)
	require.NoError(t, err)
	assert.False(t, created.Read)

	t.Run("list returns only own notifications", func(t *testing.T) {
		page, err := env.notifications.GetForCurrentUser(ctx, 1, 20, false, "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)

		otherPage, err := env.notifications.GetForCurrentUser(userCtx(other.ID), 1, 20, false, "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), otherPage.Total)
	})

	t.Run("get by id enforces ownership", func(t *testing.T) {
		got, err := env.notifications.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		_, err = env.notifications.GetByID(userCtx(other.ID), created.ID)
		assert.ErrorIs(t, err, service.ErrNotificationNotOwned)
	})

	t.Run("mark as read", func(t *testing.T) {
		count, err := env.notifications.GetUnreadCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count.Count)

		require.NoError(t, env.notifications.MarkAsRead(ctx, created.ID))

		count, err = env.notifications.GetUnreadCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count.Count)

		// Idempotent
		require.NoError(t, env.notifications.MarkAsRead(ctx, created.ID))
	})

	t.Run("foreign notification cannot be marked", func(t *testing.T) {
		err := env.notifications.MarkAsRead(userCtx(other.ID), created.ID)
		assert.ErrorIs(t, err, service.ErrNotificationNotOwned)
	})

	t.Run("requires user context", func(t *testing.T) {
		_, err := env.notifications.GetForCurrentUser(context.Background(), 1, 20, false, "")
		assert.ErrorIs(t, err, service.ErrUserContextRequired)
	})
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	env := newTestEnv(t)

	user := testutil.CreateTestUser(t, env.db)
	ctx := userCtx(user.ID)

	_, err := env.notifications.CreateBatch(
		context.Background(),
		[]uuid.UUID{user.ID, user.ID},
		domain.NotificationTypeQuoteExpiring,
		"Quote expiring", "Quote QT-2026-001 expires soon", "quote", nil,
	)
	require.NoError(t, err)

	count, err := env.notifications.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Count)

	require.NoError(t, env.notifications.MarkAllAsReadForUser(ctx))

	count, err = env.notifications.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Count)
}
