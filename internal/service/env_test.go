package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verksted-as/workshop-api/internal/repository"
	"github.com/verksted-as/workshop-api/internal/service"
	"github.com/verksted-as/workshop-api/internal/storage"
	"github.com/verksted-as/workshop-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv wires the full service stack over an isolated test database.
type testEnv struct {
	db *gorm.DB

	clientRepo   *repository.ClientRepository
	productRepo  *repository.ProductRepository
	quoteRepo    *repository.QuoteRepository
	orderRepo    *repository.OrderRepository
	movementRepo *repository.InventoryMovementRepository

	numbers       *service.NumberService
	inventory     *service.InventoryService
	quotes        *service.QuoteService
	orders        *service.OrderService
	lifecycle     *service.QuoteLifecycleService
	notifications *service.NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	clientRepo := repository.NewClientRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	productRepo := repository.NewProductRepository(db)
	laborTypeRepo := repository.NewLaborTypeRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	quoteItemRepo := repository.NewQuoteItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	movementRepo := repository.NewInventoryMovementRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	txManager := repository.NewTransactionManager(db)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	numbers := service.NewNumberService(quoteRepo, orderRepo, log)
	inventory := service.NewInventoryService(movementRepo, productRepo, txManager, log)
	quotes := service.NewQuoteService(quoteRepo, quoteItemRepo, clientRepo, vehicleRepo, productRepo, laborTypeRepo, numbers, txManager, log)
	orders := service.NewOrderService(orderRepo, orderItemRepo, clientRepo, vehicleRepo, productRepo, laborTypeRepo, numbers, inventory, txManager, store, log)
	lifecycle := service.NewQuoteLifecycleService(quoteRepo, quoteItemRepo, orderRepo, orders, numbers, txManager, log)
	notifications := service.NewNotificationService(notificationRepo, log)

	return &testEnv{
		db:            db,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		quoteRepo:     quoteRepo,
		orderRepo:     orderRepo,
		movementRepo:  movementRepo,
		numbers:       numbers,
		inventory:     inventory,
		quotes:        quotes,
		orders:        orders,
		lifecycle:     lifecycle,
		notifications: notifications,
	}
}
