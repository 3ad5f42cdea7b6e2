package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller has not set one.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Client represents a workshop customer
type Client struct {
	BaseModel
	Name       string    `gorm:"type:varchar(200);not null;index"`
	Email      string    `gorm:"type:varchar(255)"`
	Phone      string    `gorm:"type:varchar(50)"`
	Document   string    `gorm:"type:varchar(50);index"`
	Address    string    `gorm:"type:varchar(500)"`
	City       string    `gorm:"type:varchar(100)"`
	PostalCode string    `gorm:"type:varchar(20);column:postal_code"`
	Notes      string    `gorm:"type:text"`
	IsActive   bool      `gorm:"not null;default:true;column:is_active"`
	Vehicles   []Vehicle `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// Vehicle represents a client's vehicle
type Vehicle struct {
	BaseModel
	ClientID     uuid.UUID `gorm:"type:uuid;not null;index;column:client_id"`
	Client       *Client   `gorm:"foreignKey:ClientID"`
	Plate        string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Brand        string    `gorm:"type:varchar(100)"`
	Model        string    `gorm:"type:varchar(100)"`
	Year         int       `gorm:"type:int"`
	Color        string    `gorm:"type:varchar(50)"`
	VIN          string    `gorm:"type:varchar(50);column:vin"`
	Mileage      int       `gorm:"type:int;not null;default:0"`
	Observations string    `gorm:"type:text"`
}

// Supplier represents a parts supplier
type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null;index"`
	OrgNumber     string `gorm:"type:varchar(20);column:org_number"`
	Email         string `gorm:"type:varchar(255)"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:varchar(500)"`
	ContactPerson string `gorm:"type:varchar(200);column:contact_person"`
	Notes         string `gorm:"type:text"`
	IsActive      bool   `gorm:"not null;default:true;column:is_active"`
}

// Product represents a stocked part. StockQuantity is a materialized
// projection of the inventory ledger: it is only ever written in the same
// transaction that appends a movement (see service.InventoryService).
type Product struct {
	BaseModel
	Code          string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string    `gorm:"type:varchar(200);not null;index"`
	Description   string    `gorm:"type:text"`
	UnitPrice     float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	CostPrice     float64   `gorm:"type:decimal(15,2);not null;default:0;column:cost_price"`
	StockQuantity float64   `gorm:"type:decimal(10,2);not null;default:0;column:stock_quantity"`
	MinStock      float64   `gorm:"type:decimal(10,2);not null;default:0;column:min_stock"`
	Unit          string    `gorm:"type:varchar(20);not null;default:'pcs'"`
	SupplierID    *uuid.UUID `gorm:"type:uuid;index;column:supplier_id"`
	Supplier      *Supplier `gorm:"foreignKey:SupplierID"`
	IsActive      bool      `gorm:"not null;default:true;column:is_active"`
}

// LaborType represents a billable kind of workshop labor
type LaborType struct {
	BaseModel
	Name        string  `gorm:"type:varchar(200);not null;index"`
	Description string  `gorm:"type:text"`
	HourlyRate  float64 `gorm:"type:decimal(15,2);not null;default:0;column:hourly_rate"`
	IsActive    bool    `gorm:"not null;default:true;column:is_active"`
}

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusOpen      QuoteStatus = "open"
	QuoteStatusApproved  QuoteStatus = "approved"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusConverted QuoteStatus = "converted"
)

// IsValid checks if the QuoteStatus is a valid enum value
func (qs QuoteStatus) IsValid() bool {
	switch qs {
	case QuoteStatusOpen, QuoteStatusApproved, QuoteStatusRejected, QuoteStatusConverted:
		return true
	}
	return false
}

// IsTerminal reports whether the quote can no longer be mutated.
func (qs QuoteStatus) IsTerminal() bool {
	return qs == QuoteStatusConverted
}

// Quote represents a priced, not-yet-committed proposal of work
type Quote struct {
	BaseModel
	Number     string      `gorm:"type:varchar(50);not null;index"`
	ClientID   uuid.UUID   `gorm:"type:uuid;not null;index;column:client_id"`
	Client     *Client     `gorm:"foreignKey:ClientID"`
	VehicleID  uuid.UUID   `gorm:"type:uuid;not null;index;column:vehicle_id"`
	Vehicle    *Vehicle    `gorm:"foreignKey:VehicleID"`
	UserID     uuid.UUID   `gorm:"type:uuid;not null;column:user_id"`
	Status     QuoteStatus `gorm:"type:varchar(50);not null;default:'open';index"`
	Subtotal   float64     `gorm:"type:decimal(15,2);not null;default:0"`
	Discount   float64     `gorm:"type:decimal(15,2);not null;default:0"`
	Total      float64     `gorm:"type:decimal(15,2);not null;default:0"`
	ValidUntil *time.Time  `gorm:"type:date;column:valid_until"`
	Notes      string      `gorm:"type:text"`
	Items      []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// ItemType distinguishes product and labor line items
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeLabor   ItemType = "labor"
)

// IsValid checks if the ItemType is a valid enum value
func (it ItemType) IsValid() bool {
	switch it {
	case ItemTypeProduct, ItemTypeLabor:
		return true
	}
	return false
}

// QuoteItem represents a line item in a quote
type QuoteItem struct {
	BaseModel
	QuoteID     uuid.UUID  `gorm:"type:uuid;not null;index;column:quote_id"`
	Quote       *Quote     `gorm:"foreignKey:QuoteID"`
	ItemType    ItemType   `gorm:"type:varchar(20);not null;column:item_type"`
	ProductID   *uuid.UUID `gorm:"type:uuid;index;column:product_id"`
	Product     *Product   `gorm:"foreignKey:ProductID"`
	LaborTypeID *uuid.UUID `gorm:"type:uuid;index;column:labor_type_id"`
	LaborType   *LaborType `gorm:"foreignKey:LaborTypeID"`
	Description string     `gorm:"type:varchar(500);not null"`
	Quantity    float64    `gorm:"type:decimal(10,2);not null"`
	UnitPrice   float64    `gorm:"type:decimal(15,2);not null;column:unit_price"`
	TotalPrice  float64    `gorm:"type:decimal(15,2);not null;column:total_price"`
}

// OrderStatus represents the status of a service order
type OrderStatus string

const (
	OrderStatusOpen         OrderStatus = "open"
	OrderStatusInProgress   OrderStatus = "in_progress"
	OrderStatusWaitingParts OrderStatus = "waiting_parts"
	OrderStatusFinished     OrderStatus = "finished"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// IsValid checks if the OrderStatus is a valid enum value
func (os OrderStatus) IsValid() bool {
	switch os {
	case OrderStatusOpen, OrderStatusInProgress, OrderStatusWaitingParts, OrderStatusFinished, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo validates a status change. All transitions between valid
// statuses are currently allowed; tightening the rules is a matter of
// editing this single function.
func (os OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return target.IsValid()
}

// Order represents a committed unit of work, created directly or by
// converting a quote
type Order struct {
	BaseModel
	Number        string      `gorm:"type:varchar(50);not null;index"`
	QuoteID       *uuid.UUID  `gorm:"type:uuid;index;column:quote_id"`
	Quote         *Quote      `gorm:"foreignKey:QuoteID"`
	ClientID      uuid.UUID   `gorm:"type:uuid;not null;index;column:client_id"`
	Client        *Client     `gorm:"foreignKey:ClientID"`
	VehicleID     uuid.UUID   `gorm:"type:uuid;not null;index;column:vehicle_id"`
	Vehicle       *Vehicle    `gorm:"foreignKey:VehicleID"`
	MechanicID    *uuid.UUID  `gorm:"type:uuid;column:mechanic_id"`
	Status        OrderStatus `gorm:"type:varchar(50);not null;default:'open';index"`
	Subtotal      float64     `gorm:"type:decimal(15,2);not null;default:0"`
	Discount      float64     `gorm:"type:decimal(15,2);not null;default:0"`
	Total         float64     `gorm:"type:decimal(15,2);not null;default:0"`
	StartedAt     *time.Time  `gorm:"column:started_at"`
	FinishedAt    *time.Time  `gorm:"column:finished_at"`
	Notes         string      `gorm:"type:text"`
	SignaturePath string      `gorm:"type:varchar(500);column:signature_path"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem represents a line item in an order
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index;column:order_id"`
	Order       *Order     `gorm:"foreignKey:OrderID"`
	ItemType    ItemType   `gorm:"type:varchar(20);not null;column:item_type"`
	ProductID   *uuid.UUID `gorm:"type:uuid;index;column:product_id"`
	Product     *Product   `gorm:"foreignKey:ProductID"`
	LaborTypeID *uuid.UUID `gorm:"type:uuid;index;column:labor_type_id"`
	LaborType   *LaborType `gorm:"foreignKey:LaborTypeID"`
	Description string     `gorm:"type:varchar(500);not null"`
	Quantity    float64    `gorm:"type:decimal(10,2);not null"`
	UnitPrice   float64    `gorm:"type:decimal(15,2);not null;column:unit_price"`
	TotalPrice  float64    `gorm:"type:decimal(15,2);not null;column:total_price"`
}

// MovementType represents the type of inventory movement
type MovementType string

const (
	MovementTypeEntry      MovementType = "entry"
	MovementTypeExit       MovementType = "exit"
	MovementTypeAdjustment MovementType = "adjustment"
)

// IsValid checks if the MovementType is a valid enum value
func (mt MovementType) IsValid() bool {
	switch mt {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment:
		return true
	}
	return false
}

// MovementReferenceType identifies the document that caused a movement
type MovementReferenceType string

const (
	MovementReferenceOrder  MovementReferenceType = "order"
	MovementReferenceManual MovementReferenceType = "manual"
)

// InventoryMovement is an append-only record of a stock change. Rows are
// never updated or deleted; a product's current quantity is derived from
// its movement history.
type InventoryMovement struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key"`
	ProductID     uuid.UUID             `gorm:"type:uuid;not null;index;column:product_id"`
	Product       *Product              `gorm:"foreignKey:ProductID"`
	Type          MovementType          `gorm:"type:varchar(20);not null"`
	Quantity      float64               `gorm:"type:decimal(10,2);not null"`
	ReferenceType MovementReferenceType `gorm:"type:varchar(20);not null;default:'manual';column:reference_type"`
	ReferenceID   *uuid.UUID            `gorm:"type:uuid;index;column:reference_id"`
	UserID        *uuid.UUID            `gorm:"type:uuid;column:user_id"`
	Notes         string                `gorm:"type:varchar(500)"`
	CreatedAt     time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// BeforeCreate assigns an ID when the caller has not set one.
func (m *InventoryMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeLowStock      NotificationType = "low_stock"
	NotificationTypeOrderFinished NotificationType = "order_finished"
	NotificationTypeQuoteExpiring NotificationType = "quote_expiring"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index;column:user_id"`
	Type       string    `gorm:"type:varchar(50);not null"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Message    string    `gorm:"type:varchar(500);not null"`
	Read       bool      `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}

// User represents a system user
type User struct {
	BaseModel
	Email       string         `gorm:"type:varchar(255);not null;unique"`
	DisplayName string         `gorm:"type:varchar(200);not null;column:name"`
	Roles       pq.StringArray `gorm:"type:text[];not null"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at"`
}
