package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when the store reports a uniqueness or
	// foreign-key violation
	ErrConflict = errors.New("resource conflict")

	// ErrClientNotFound is returned when a client is not found
	ErrClientNotFound = errors.New("client not found")

	// ErrVehicleNotFound is returned when a vehicle is not found
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrSupplierNotFound is returned when a supplier is not found
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrProductNotFound is returned when a product is not found
	ErrProductNotFound = errors.New("product not found")

	// ErrLaborTypeNotFound is returned when a labor type is not found
	ErrLaborTypeNotFound = errors.New("labor type not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrQuoteNotFound is returned when a quote is not found
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrOrderNotFound is returned when an order is not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrItemNotFound is returned when a line item is not found on the
	// quote or order it was addressed through
	ErrItemNotFound = errors.New("line item not found")

	// ErrQuoteConverted is returned when mutating a quote that has already
	// been converted to an order
	ErrQuoteConverted = errors.New("quote has been converted and is read-only")

	// ErrQuoteHasNoItems is returned when converting a quote without items
	ErrQuoteHasNoItems = errors.New("quote has no items")

	// ErrEmptyItems is returned when creating a quote without items
	ErrEmptyItems = errors.New("at least one item is required")

	// ErrStatusReserved is returned when a status update names a status
	// that only an internal protocol may set
	ErrStatusReserved = errors.New("status is reserved for internal transitions")

	// ErrInvalidStatus is returned when a status value is not valid
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidStatusTransition is returned when a transition is not allowed
	ErrInvalidStatusTransition = errors.New("status transition not allowed")

	// ErrInsufficientStock is returned when an exit movement would drive a
	// product's stock negative
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidMovement is returned when a movement request is malformed
	ErrInvalidMovement = errors.New("invalid inventory movement")

	// ErrNotificationNotFound is returned when a notification is not found
	ErrNotificationNotFound = errors.New("notification not found")
)
