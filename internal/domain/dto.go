package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type ClientDTO struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Document   string       `json:"document,omitempty"`
	Address    string       `json:"address,omitempty"`
	City       string       `json:"city,omitempty"`
	PostalCode string       `json:"postalCode,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	IsActive   bool         `json:"isActive"`
	Vehicles   []VehicleDTO `json:"vehicles,omitempty"`
	CreatedAt  string       `json:"createdAt"` // ISO 8601
	UpdatedAt  string       `json:"updatedAt"` // ISO 8601
}

type VehicleDTO struct {
	ID           uuid.UUID `json:"id"`
	ClientID     uuid.UUID `json:"clientId"`
	ClientName   string    `json:"clientName,omitempty"`
	Plate        string    `json:"plate"`
	Brand        string    `json:"brand,omitempty"`
	Model        string    `json:"model,omitempty"`
	Year         int       `json:"year,omitempty"`
	Color        string    `json:"color,omitempty"`
	VIN          string    `json:"vin,omitempty"`
	Mileage      int       `json:"mileage"`
	Observations string    `json:"observations,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

type SupplierDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	OrgNumber     string    `json:"orgNumber,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

type ProductDTO struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	UnitPrice     float64    `json:"unitPrice"`
	CostPrice     float64    `json:"costPrice"`
	StockQuantity float64    `json:"stockQuantity"`
	MinStock      float64    `json:"minStock"`
	Unit          string     `json:"unit"`
	SupplierID    *uuid.UUID `json:"supplierId,omitempty"`
	SupplierName  string     `json:"supplierName,omitempty"`
	IsActive      bool       `json:"isActive"`
	LowStock      bool       `json:"lowStock"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

type LaborTypeDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	HourlyRate  float64   `json:"hourlyRate"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

type QuoteDTO struct {
	ID          uuid.UUID      `json:"id"`
	Number      string         `json:"number"`
	ClientID    uuid.UUID      `json:"clientId"`
	ClientName  string         `json:"clientName,omitempty"`
	VehicleID   uuid.UUID      `json:"vehicleId"`
	VehiclePlate string        `json:"vehiclePlate,omitempty"`
	UserID      uuid.UUID      `json:"userId"`
	Status      QuoteStatus    `json:"status"`
	Subtotal    float64        `json:"subtotal"`
	Discount    float64        `json:"discount"`
	Total       float64        `json:"total"`
	ValidUntil  *string        `json:"validUntil,omitempty"` // ISO 8601
	Notes       string         `json:"notes,omitempty"`
	Items       []QuoteItemDTO `json:"items"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

type QuoteItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	QuoteID     uuid.UUID  `json:"quoteId"`
	ItemType    ItemType   `json:"itemType"`
	ProductID   *uuid.UUID `json:"productId,omitempty"`
	LaborTypeID *uuid.UUID `json:"laborTypeId,omitempty"`
	Description string     `json:"description"`
	Quantity    float64    `json:"quantity"`
	UnitPrice   float64    `json:"unitPrice"`
	TotalPrice  float64    `json:"totalPrice"`
}

type OrderDTO struct {
	ID            uuid.UUID      `json:"id"`
	Number        string         `json:"number"`
	QuoteID       *uuid.UUID     `json:"quoteId,omitempty"`
	QuoteNumber   string         `json:"quoteNumber,omitempty"`
	ClientID      uuid.UUID      `json:"clientId"`
	ClientName    string         `json:"clientName,omitempty"`
	VehicleID     uuid.UUID      `json:"vehicleId"`
	VehiclePlate  string         `json:"vehiclePlate,omitempty"`
	MechanicID    *uuid.UUID     `json:"mechanicId,omitempty"`
	Status        OrderStatus    `json:"status"`
	Subtotal      float64        `json:"subtotal"`
	Discount      float64        `json:"discount"`
	Total         float64        `json:"total"`
	StartedAt     *string        `json:"startedAt,omitempty"`  // ISO 8601
	FinishedAt    *string        `json:"finishedAt,omitempty"` // ISO 8601
	Notes         string         `json:"notes,omitempty"`
	SignaturePath string         `json:"signaturePath,omitempty"`
	Items         []OrderItemDTO `json:"items"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}

type OrderItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     uuid.UUID  `json:"orderId"`
	ItemType    ItemType   `json:"itemType"`
	ProductID   *uuid.UUID `json:"productId,omitempty"`
	LaborTypeID *uuid.UUID `json:"laborTypeId,omitempty"`
	Description string     `json:"description"`
	Quantity    float64    `json:"quantity"`
	UnitPrice   float64    `json:"unitPrice"`
	TotalPrice  float64    `json:"totalPrice"`
}

type InventoryMovementDTO struct {
	ID            uuid.UUID             `json:"id"`
	ProductID     uuid.UUID             `json:"productId"`
	ProductName   string                `json:"productName,omitempty"`
	Type          MovementType          `json:"type"`
	Quantity      float64               `json:"quantity"`
	ReferenceType MovementReferenceType `json:"referenceType"`
	ReferenceID   *uuid.UUID            `json:"referenceId,omitempty"`
	UserID        *uuid.UUID            `json:"userId,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     string                `json:"createdAt"`
}

// StockLevelDTO reports a product's materialized counter next to the
// value derived from the ledger, for reconciliation.
type StockLevelDTO struct {
	ProductID    uuid.UUID `json:"productId"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Stored       float64   `json:"stored"`
	Derived      float64   `json:"derived"`
	InSync       bool      `json:"inSync"`
}

type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	ReadAt     *string    `json:"readAt,omitempty"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

// UnreadCountDTO represents the count of unread notifications
type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Roles       []string  `json:"roles"`
	IsActive    bool      `json:"isActive"`
	LastLoginAt *string   `json:"lastLoginAt,omitempty"`
}

// Dashboard DTOs

// DashboardMetrics contains the headline numbers for the workshop
// dashboard. Revenue counts finished orders in the current month.
type DashboardMetrics struct {
	OpenQuotes       int64   `json:"openQuotes"`
	OrdersInProgress int64   `json:"ordersInProgress"`
	OrdersWaiting    int64   `json:"ordersWaiting"`
	FinishedThisMonth int64  `json:"finishedThisMonth"`
	RevenueThisMonth float64 `json:"revenueThisMonth"`
	LowStockProducts int64   `json:"lowStockProducts"`
	SettledTotal     float64 `json:"settledTotal,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Request DTOs

type CreateClientRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"max=50"`
	Document   string `json:"document,omitempty" validate:"max=50"`
	Address    string `json:"address,omitempty" validate:"max=500"`
	City       string `json:"city,omitempty" validate:"max=100"`
	PostalCode string `json:"postalCode,omitempty" validate:"max=20"`
	Notes      string `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"max=50"`
	Document   string `json:"document,omitempty" validate:"max=50"`
	Address    string `json:"address,omitempty" validate:"max=500"`
	City       string `json:"city,omitempty" validate:"max=100"`
	PostalCode string `json:"postalCode,omitempty" validate:"max=20"`
	Notes      string `json:"notes,omitempty"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

type CreateVehicleRequest struct {
	ClientID     uuid.UUID `json:"clientId" validate:"required"`
	Plate        string    `json:"plate" validate:"required,max=20"`
	Brand        string    `json:"brand,omitempty" validate:"max=100"`
	Model        string    `json:"model,omitempty" validate:"max=100"`
	Year         int       `json:"year,omitempty" validate:"omitempty,gte=1900"`
	Color        string    `json:"color,omitempty" validate:"max=50"`
	VIN          string    `json:"vin,omitempty" validate:"max=50"`
	Mileage      int       `json:"mileage,omitempty" validate:"gte=0"`
	Observations string    `json:"observations,omitempty"`
}

type UpdateVehicleRequest struct {
	Plate        string `json:"plate" validate:"required,max=20"`
	Brand        string `json:"brand,omitempty" validate:"max=100"`
	Model        string `json:"model,omitempty" validate:"max=100"`
	Year         int    `json:"year,omitempty" validate:"omitempty,gte=1900"`
	Color        string `json:"color,omitempty" validate:"max=50"`
	VIN          string `json:"vin,omitempty" validate:"max=50"`
	Mileage      int    `json:"mileage,omitempty" validate:"gte=0"`
	Observations string `json:"observations,omitempty"`
}

type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
	Notes         string `json:"notes,omitempty"`
}

type UpdateSupplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
	Notes         string `json:"notes,omitempty"`
	IsActive      *bool  `json:"isActive,omitempty"`
}

type CreateProductRequest struct {
	Code         string     `json:"code" validate:"required,max=50"`
	Name         string     `json:"name" validate:"required,max=200"`
	Description  string     `json:"description,omitempty"`
	UnitPrice    float64    `json:"unitPrice" validate:"gte=0"`
	CostPrice    float64    `json:"costPrice,omitempty" validate:"gte=0"`
	InitialStock float64    `json:"initialStock,omitempty" validate:"gte=0"`
	MinStock     float64    `json:"minStock,omitempty" validate:"gte=0"`
	Unit         string     `json:"unit,omitempty" validate:"max=20"`
	SupplierID   *uuid.UUID `json:"supplierId,omitempty"`
}

type UpdateProductRequest struct {
	Code        string     `json:"code" validate:"required,max=50"`
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description,omitempty"`
	UnitPrice   float64    `json:"unitPrice" validate:"gte=0"`
	CostPrice   float64    `json:"costPrice,omitempty" validate:"gte=0"`
	MinStock    float64    `json:"minStock,omitempty" validate:"gte=0"`
	Unit        string     `json:"unit,omitempty" validate:"max=20"`
	SupplierID  *uuid.UUID `json:"supplierId,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
}

type CreateLaborTypeRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	HourlyRate  float64 `json:"hourlyRate" validate:"gte=0"`
}

type UpdateLaborTypeRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	HourlyRate  float64 `json:"hourlyRate" validate:"gte=0"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Quote request DTOs

// LineItemRequest is the shared shape for quote and order line items.
// TotalPrice is intentionally absent; derived prices are computed
// server-side.
type LineItemRequest struct {
	ItemType    ItemType   `json:"itemType" validate:"required,oneof=product labor"`
	ProductID   *uuid.UUID `json:"productId,omitempty"`
	LaborTypeID *uuid.UUID `json:"laborTypeId,omitempty"`
	Description string     `json:"description" validate:"required,max=500"`
	Quantity    float64    `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64    `json:"unitPrice" validate:"gte=0"`
}

type CreateQuoteRequest struct {
	ClientID   uuid.UUID         `json:"clientId" validate:"required"`
	VehicleID  uuid.UUID         `json:"vehicleId" validate:"required"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount   float64           `json:"discount,omitempty" validate:"gte=0"`
	ValidUntil *time.Time        `json:"validUntil,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

// UpdateQuoteRequest updates mutable quote fields. A non-nil Items slice
// replaces the full item set.
type UpdateQuoteRequest struct {
	Discount   *float64           `json:"discount,omitempty" validate:"omitempty,gte=0"`
	ValidUntil *time.Time         `json:"validUntil,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	Items      *[]LineItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

type UpdateQuoteStatusRequest struct {
	Status QuoteStatus `json:"status" validate:"required,oneof=open approved rejected"`
}

type ConvertQuoteRequest struct {
	MechanicID *uuid.UUID `json:"mechanicId,omitempty"`
}

// Order request DTOs

type CreateOrderRequest struct {
	ClientID   uuid.UUID         `json:"clientId" validate:"required"`
	VehicleID  uuid.UUID         `json:"vehicleId" validate:"required"`
	MechanicID *uuid.UUID        `json:"mechanicId,omitempty"`
	Items      []LineItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
	Discount   float64           `json:"discount,omitempty" validate:"gte=0"`
	Notes      string            `json:"notes,omitempty"`
}

type UpdateOrderRequest struct {
	MechanicID *uuid.UUID `json:"mechanicId,omitempty"`
	Discount   *float64   `json:"discount,omitempty" validate:"omitempty,gte=0"`
	Notes      *string    `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=open in_progress waiting_parts finished cancelled"`
}

// Inventory request DTOs

type RecordMovementRequest struct {
	ProductID uuid.UUID    `json:"productId" validate:"required"`
	Type      MovementType `json:"type" validate:"required,oneof=entry exit adjustment"`
	Quantity  float64      `json:"quantity" validate:"gte=0"`
	Notes     string       `json:"notes,omitempty" validate:"max=500"`
}

// Auth DTOs

// IssueTokenRequest asks for a signed token on behalf of a registered user.
// The endpoint is reserved for the admin API key.
type IssueTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"` // ISO 8601
}

// CreateNotificationRequest contains the data needed to create a notification
type CreateNotificationRequest struct {
	UserID     uuid.UUID  `json:"userId" validate:"required"`
	Type       string     `json:"type" validate:"required,max=50"`
	Title      string     `json:"title" validate:"required,max=200"`
	Message    string     `json:"message" validate:"required,max=500"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty" validate:"max=50"`
}
