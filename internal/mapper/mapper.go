package mapper

import (
	"time"

	"github.com/verksted-as/workshop-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeFormat)
	return &s
}

// ClientToDTO converts Client to ClientDTO
func ClientToDTO(client *domain.Client) *domain.ClientDTO {
	dto := &domain.ClientDTO{
		ID:         client.ID,
		Name:       client.Name,
		Email:      client.Email,
		Phone:      client.Phone,
		Document:   client.Document,
		Address:    client.Address,
		City:       client.City,
		PostalCode: client.PostalCode,
		Notes:      client.Notes,
		IsActive:   client.IsActive,
		CreatedAt:  client.CreatedAt.Format(timeFormat),
		UpdatedAt:  client.UpdatedAt.Format(timeFormat),
	}

	if len(client.Vehicles) > 0 {
		dto.Vehicles = make([]domain.VehicleDTO, len(client.Vehicles))
		for i := range client.Vehicles {
			dto.Vehicles[i] = *VehicleToDTO(&client.Vehicles[i])
		}
	}

	return dto
}

// VehicleToDTO converts Vehicle to VehicleDTO
func VehicleToDTO(vehicle *domain.Vehicle) *domain.VehicleDTO {
	dto := &domain.VehicleDTO{
		ID:           vehicle.ID,
		ClientID:     vehicle.ClientID,
		Plate:        vehicle.Plate,
		Brand:        vehicle.Brand,
		Model:        vehicle.Model,
		Year:         vehicle.Year,
		Color:        vehicle.Color,
		VIN:          vehicle.VIN,
		Mileage:      vehicle.Mileage,
		Observations: vehicle.Observations,
		CreatedAt:    vehicle.CreatedAt.Format(timeFormat),
		UpdatedAt:    vehicle.UpdatedAt.Format(timeFormat),
	}

	if vehicle.Client != nil {
		dto.ClientName = vehicle.Client.Name
	}

	return dto
}

// SupplierToDTO converts Supplier to SupplierDTO
func SupplierToDTO(supplier *domain.Supplier) *domain.SupplierDTO {
	return &domain.SupplierDTO{
		ID:            supplier.ID,
		Name:          supplier.Name,
		OrgNumber:     supplier.OrgNumber,
		Email:         supplier.Email,
		Phone:         supplier.Phone,
		Address:       supplier.Address,
		ContactPerson: supplier.ContactPerson,
		Notes:         supplier.Notes,
		IsActive:      supplier.IsActive,
		CreatedAt:     supplier.CreatedAt.Format(timeFormat),
		UpdatedAt:     supplier.UpdatedAt.Format(timeFormat),
	}
}

// ProductToDTO converts Product to ProductDTO. LowStock is derived from the
// materialized counter against the configured minimum.
func ProductToDTO(product *domain.Product) *domain.ProductDTO {
	dto := &domain.ProductDTO{
		ID:            product.ID,
		Code:          product.Code,
		Name:          product.Name,
		Description:   product.Description,
		UnitPrice:     product.UnitPrice,
		CostPrice:     product.CostPrice,
		StockQuantity: product.StockQuantity,
		MinStock:      product.MinStock,
		Unit:          product.Unit,
		SupplierID:    product.SupplierID,
		IsActive:      product.IsActive,
		LowStock:      product.StockQuantity <= product.MinStock,
		CreatedAt:     product.CreatedAt.Format(timeFormat),
		UpdatedAt:     product.UpdatedAt.Format(timeFormat),
	}

	if product.Supplier != nil {
		dto.SupplierName = product.Supplier.Name
	}

	return dto
}

// LaborTypeToDTO converts LaborType to LaborTypeDTO
func LaborTypeToDTO(laborType *domain.LaborType) *domain.LaborTypeDTO {
	return &domain.LaborTypeDTO{
		ID:          laborType.ID,
		Name:        laborType.Name,
		Description: laborType.Description,
		HourlyRate:  laborType.HourlyRate,
		IsActive:    laborType.IsActive,
		CreatedAt:   laborType.CreatedAt.Format(timeFormat),
		UpdatedAt:   laborType.UpdatedAt.Format(timeFormat),
	}
}

// QuoteToDTO converts Quote to QuoteDTO
func QuoteToDTO(quote *domain.Quote) *domain.QuoteDTO {
	items := make([]domain.QuoteItemDTO, len(quote.Items))
	for i := range quote.Items {
		items[i] = *QuoteItemToDTO(&quote.Items[i])
	}

	dto := &domain.QuoteDTO{
		ID:         quote.ID,
		Number:     quote.Number,
		ClientID:   quote.ClientID,
		VehicleID:  quote.VehicleID,
		UserID:     quote.UserID,
		Status:     quote.Status,
		Subtotal:   quote.Subtotal,
		Discount:   quote.Discount,
		Total:      quote.Total,
		ValidUntil: formatTimePtr(quote.ValidUntil),
		Notes:      quote.Notes,
		Items:      items,
		CreatedAt:  quote.CreatedAt.Format(timeFormat),
		UpdatedAt:  quote.UpdatedAt.Format(timeFormat),
	}

	if quote.Client != nil {
		dto.ClientName = quote.Client.Name
	}
	if quote.Vehicle != nil {
		dto.VehiclePlate = quote.Vehicle.Plate
	}

	return dto
}

// QuoteItemToDTO converts QuoteItem to QuoteItemDTO
func QuoteItemToDTO(item *domain.QuoteItem) *domain.QuoteItemDTO {
	return &domain.QuoteItemDTO{
		ID:          item.ID,
		QuoteID:     item.QuoteID,
		ItemType:    item.ItemType,
		ProductID:   item.ProductID,
		LaborTypeID: item.LaborTypeID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
	}
}

// OrderToDTO converts Order to OrderDTO
func OrderToDTO(order *domain.Order) *domain.OrderDTO {
	items := make([]domain.OrderItemDTO, len(order.Items))
	for i := range order.Items {
		items[i] = *OrderItemToDTO(&order.Items[i])
	}

	dto := &domain.OrderDTO{
		ID:            order.ID,
		Number:        order.Number,
		QuoteID:       order.QuoteID,
		ClientID:      order.ClientID,
		VehicleID:     order.VehicleID,
		MechanicID:    order.MechanicID,
		Status:        order.Status,
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		Total:         order.Total,
		StartedAt:     formatTimePtr(order.StartedAt),
		FinishedAt:    formatTimePtr(order.FinishedAt),
		Notes:         order.Notes,
		SignaturePath: order.SignaturePath,
		Items:         items,
		CreatedAt:     order.CreatedAt.Format(timeFormat),
		UpdatedAt:     order.UpdatedAt.Format(timeFormat),
	}

	if order.Quote != nil {
		dto.QuoteNumber = order.Quote.Number
	}
	if order.Client != nil {
		dto.ClientName = order.Client.Name
	}
	if order.Vehicle != nil {
		dto.VehiclePlate = order.Vehicle.Plate
	}

	return dto
}

// OrderItemToDTO converts OrderItem to OrderItemDTO
func OrderItemToDTO(item *domain.OrderItem) *domain.OrderItemDTO {
	return &domain.OrderItemDTO{
		ID:          item.ID,
		OrderID:     item.OrderID,
		ItemType:    item.ItemType,
		ProductID:   item.ProductID,
		LaborTypeID: item.LaborTypeID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
	}
}

// InventoryMovementToDTO converts InventoryMovement to InventoryMovementDTO
func InventoryMovementToDTO(movement *domain.InventoryMovement) *domain.InventoryMovementDTO {
	dto := &domain.InventoryMovementDTO{
		ID:            movement.ID,
		ProductID:     movement.ProductID,
		Type:          movement.Type,
		Quantity:      movement.Quantity,
		ReferenceType: movement.ReferenceType,
		ReferenceID:   movement.ReferenceID,
		UserID:        movement.UserID,
		Notes:         movement.Notes,
		CreatedAt:     movement.CreatedAt.Format(timeFormat),
	}

	if movement.Product != nil {
		dto.ProductName = movement.Product.Name
	}

	return dto
}

// NotificationToDTO converts Notification to NotificationDTO
func NotificationToDTO(notification *domain.Notification) *domain.NotificationDTO {
	return &domain.NotificationDTO{
		ID:         notification.ID,
		UserID:     notification.UserID,
		Type:       notification.Type,
		Title:      notification.Title,
		Message:    notification.Message,
		Read:       notification.Read,
		ReadAt:     formatTimePtr(notification.ReadAt),
		EntityID:   notification.EntityID,
		EntityType: notification.EntityType,
		CreatedAt:  notification.CreatedAt.Format(timeFormat),
	}
}

// UserToDTO converts User to UserDTO
func UserToDTO(user *domain.User) *domain.UserDTO {
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	return &domain.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       roles,
		IsActive:    user.IsActive,
		LastLoginAt: formatTimePtr(user.LastLoginAt),
	}
}

// Paginate wraps a page of DTOs in the standard list envelope
func Paginate[T any](data []T, total int64, page, pageSize int) *domain.PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
