package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/verksted-as/workshop-api/internal/database"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// SetupTestDB creates an isolated in-memory SQLite database with the full
// schema migrated. Each call gets its own database; shared cache keeps it
// alive across the pool's connections for the duration of the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&dbCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test database")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateTestClient creates a client with sensible defaults
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		Name:     name,
		Email:    "test@example.com",
		Phone:    "12345678",
		City:     "Oslo",
		IsActive: true,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestVehicle creates a vehicle for the given client. The plate is
// unique per call so tests never collide on the plate index.
func CreateTestVehicle(t *testing.T, db *gorm.DB, clientID uuid.UUID) *domain.Vehicle {
	t.Helper()
	vehicle := &domain.Vehicle{
		ClientID: clientID,
		Plate:    fmt.Sprintf("AB%05d", atomic.AddInt64(&dbCounter, 1)%100000),
		Brand:    "Volvo",
		Model:    "V70",
		Year:     2018,
		Mileage:  120000,
	}
	require.NoError(t, db.Create(vehicle).Error)
	return vehicle
}

// CreateTestSupplier creates a supplier with sensible defaults
func CreateTestSupplier(t *testing.T, db *gorm.DB, name string) *domain.Supplier {
	t.Helper()
	supplier := &domain.Supplier{
		Name:      name,
		OrgNumber: fmt.Sprintf("%09d", atomic.AddInt64(&dbCounter, 1)%1000000000),
		Email:     "supplier@example.com",
		IsActive:  true,
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

// CreateTestProduct creates a product with the given stock on hand. The
// stock is seeded through the field directly; tests that care about the
// movement ledger should record an entry movement instead.
func CreateTestProduct(t *testing.T, db *gorm.DB, name string, stock float64) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Code:          fmt.Sprintf("P-%05d", atomic.AddInt64(&dbCounter, 1)%100000),
		Name:          name,
		UnitPrice:     250,
		CostPrice:     100,
		StockQuantity: stock,
		MinStock:      2,
		Unit:          "pcs",
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// CreateTestLaborType creates a labor type with the given hourly rate
func CreateTestLaborType(t *testing.T, db *gorm.DB, name string, rate float64) *domain.LaborType {
	t.Helper()
	laborType := &domain.LaborType{
		Name:       name,
		HourlyRate: rate,
		IsActive:   true,
	}
	require.NoError(t, db.Create(laborType).Error)
	return laborType
}

// CreateTestUser creates an active user with the given roles
func CreateTestUser(t *testing.T, db *gorm.DB, roles ...string) *domain.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{"mechanic"}
	}
	user := &domain.User{
		Email:       fmt.Sprintf("user%d@example.com", atomic.AddInt64(&dbCounter, 1)),
		DisplayName: "Test User",
		Roles:       pq.StringArray(roles),
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
