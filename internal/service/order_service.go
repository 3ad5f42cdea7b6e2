package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/mapper"
	"github.com/verksted-as/workshop-api/internal/repository"
	"github.com/verksted-as/workshop-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService owns service orders and their line items. It follows the
// same totals discipline as QuoteService and additionally drives the
// inventory ledger: adding a product item writes an exit movement, removing
// one writes a compensating entry, both in the same transaction as the
// item change.
type OrderService struct {
	orderRepo        *repository.OrderRepository
	orderItemRepo    *repository.OrderItemRepository
	clientRepo       *repository.ClientRepository
	vehicleRepo      *repository.VehicleRepository
	productRepo      *repository.ProductRepository
	laborTypeRepo    *repository.LaborTypeRepository
	numberService    *NumberService
	inventoryService *InventoryService
	txManager        repository.TransactionManager
	store            storage.Storage
	logger           *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo *repository.OrderRepository,
	orderItemRepo *repository.OrderItemRepository,
	clientRepo *repository.ClientRepository,
	vehicleRepo *repository.VehicleRepository,
	productRepo *repository.ProductRepository,
	laborTypeRepo *repository.LaborTypeRepository,
	numberService *NumberService,
	inventoryService *InventoryService,
	txManager repository.TransactionManager,
	store storage.Storage,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		orderItemRepo:    orderItemRepo,
		clientRepo:       clientRepo,
		vehicleRepo:      vehicleRepo,
		productRepo:      productRepo,
		laborTypeRepo:    laborTypeRepo,
		numberService:    numberService,
		inventoryService: inventoryService,
		txManager:        txManager,
		store:            store,
		logger:           logger,
	}
}

// Create creates a direct order in status open. Product items go through
// the stock-coupled add path, so a failing stock check rolls back the whole
// order.
func (s *OrderService) Create(ctx context.Context, req *domain.CreateOrderRequest, userID uuid.UUID) (*domain.OrderDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}
	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to verify vehicle: %w", err)
	}
	for i := range req.Items {
		if err := validateLineItem(ctx, s.productRepo, s.laborTypeRepo, &req.Items[i]); err != nil {
			return nil, err
		}
	}

	var order *domain.Order
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.numberService.NextOrderNumber(txCtx)
		if err != nil {
			return err
		}

		order = &domain.Order{
			Number:     number,
			ClientID:   req.ClientID,
			VehicleID:  req.VehicleID,
			MechanicID: req.MechanicID,
			Status:     domain.OrderStatusOpen,
			Discount:   req.Discount,
			Notes:      req.Notes,
		}
		if err := s.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range req.Items {
			if err := s.insertItem(txCtx, order, &req.Items[i], &userID); err != nil {
				return err
			}
		}

		return s.recomputeTotals(txCtx, order.ID, req.Discount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderID", order.ID.String()),
		zap.String("number", order.Number))

	return s.GetByID(ctx, order.ID)
}

// GetByID returns an order with its items attached.
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return mapper.OrderToDTO(order), nil
}

// List returns a paginated list of orders.
func (s *OrderService) List(ctx context.Context, page, pageSize int, clientID, vehicleID *uuid.UUID, status *domain.OrderStatus) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orders, total, err := s.orderRepo.List(ctx, page, pageSize, clientID, vehicleID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	dtos := make([]domain.OrderDTO, len(orders))
	for i := range orders {
		dtos[i] = *mapper.OrderToDTO(&orders[i])
	}

	return mapper.Paginate(dtos, total, page, pageSize), nil
}

// Update applies partial changes to an order's mechanic, notes and
// discount. A discount change recomputes the totals against the current
// item set.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateOrderRequest) (*domain.OrderDTO, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.lockOrder(txCtx, id)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if req.MechanicID != nil {
			fields["mechanic_id"] = *req.MechanicID
		}
		if req.Notes != nil {
			fields["notes"] = *req.Notes
		}
		if len(fields) > 0 {
			if err := s.orderRepo.UpdateFields(txCtx, id, fields); err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
		}

		discount := order.Discount
		if req.Discount != nil {
			discount = *req.Discount
		}
		return s.recomputeTotals(txCtx, id, discount)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// AddItem inserts a line item and recomputes the order's totals. For
// product items the product row is locked, the stock check runs, and an
// exit movement referencing the order is appended, all in one transaction;
// insufficient stock rolls everything back.
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, req *domain.LineItemRequest, userID *uuid.UUID) (*domain.OrderDTO, error) {
	if err := validateLineItem(ctx, s.productRepo, s.laborTypeRepo, req); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.lockOrder(txCtx, orderID)
		if err != nil {
			return err
		}

		if err := s.insertItem(txCtx, order, req, userID); err != nil {
			return err
		}

		return s.recomputeTotals(txCtx, orderID, order.Discount)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orderID)
}

// RemoveItem deletes a line item and recomputes the order's totals.
// Removing a product item returns its quantity to stock through a
// compensating entry movement written in the same transaction; if that
// write fails the deletion fails with it.
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID, userID *uuid.UUID) (*domain.OrderDTO, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.lockOrder(txCtx, orderID)
		if err != nil {
			return err
		}

		item, err := s.orderItemRepo.GetByID(txCtx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to load order item: %w", err)
		}
		if item.OrderID != orderID {
			return ErrItemNotFound
		}

		if item.ItemType == domain.ItemTypeProduct {
			notes := fmt.Sprintf("item removed from order %s", order.Number)
			if _, err := s.inventoryService.record(txCtx, *item.ProductID, domain.MovementTypeEntry,
				item.Quantity, domain.MovementReferenceOrder, &order.ID, userID, notes); err != nil {
				return err
			}
		}

		if err := s.orderItemRepo.Delete(txCtx, itemID); err != nil {
			return fmt.Errorf("failed to delete order item: %w", err)
		}

		return s.recomputeTotals(txCtx, orderID, order.Discount)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orderID)
}

// UpdateStatus transitions the order's status. started_at is stamped the
// first time the order enters in_progress and finished_at the first time
// it enters finished; neither is ever overwritten.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.OrderDTO, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.lockOrder(txCtx, id)
		if err != nil {
			return err
		}

		if !order.Status.CanTransitionTo(status) {
			return ErrInvalidStatusTransition
		}

		fields := map[string]interface{}{"status": status}
		now := time.Now()
		if status == domain.OrderStatusInProgress && order.StartedAt == nil {
			fields["started_at"] = now
		}
		if status == domain.OrderStatusFinished && order.FinishedAt == nil {
			fields["finished_at"] = now
		}

		return s.orderRepo.UpdateFields(txCtx, id, fields)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("orderID", id.String()),
		zap.String("status", string(status)))

	return s.GetByID(ctx, id)
}

// AttachSignature stores the client's signature artifact and records its
// storage path on the order.
func (s *OrderService) AttachSignature(ctx context.Context, id uuid.UUID, filename, contentType string, data io.Reader) (*domain.OrderDTO, error) {
	if _, err := s.orderRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	storagePath, size, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store signature: %w", err)
	}

	if err := s.orderRepo.UpdateFields(ctx, id, map[string]interface{}{"signature_path": storagePath}); err != nil {
		// Orphaned artifact; remove it so storage does not leak.
		_ = s.store.Delete(ctx, storagePath)
		return nil, fmt.Errorf("failed to record signature path: %w", err)
	}

	s.logger.Info("signature attached",
		zap.String("orderID", id.String()),
		zap.String("path", storagePath),
		zap.Int64("size", size))

	return s.GetByID(ctx, id)
}

// DownloadSignature streams the order's signature artifact.
func (s *OrderService) DownloadSignature(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrOrderNotFound
		}
		return nil, "", fmt.Errorf("failed to get order: %w", err)
	}
	if order.SignaturePath == "" {
		return nil, "", ErrNotFound
	}

	reader, err := s.store.Download(ctx, order.SignaturePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read signature: %w", err)
	}
	return reader, order.SignaturePath, nil
}

// insertItem creates the order item and, for product items, checks stock
// and appends the exit movement. Runs inside the caller's transaction with
// the order row already locked.
func (s *OrderService) insertItem(ctx context.Context, order *domain.Order, req *domain.LineItemRequest, userID *uuid.UUID) error {
	if req.ItemType == domain.ItemTypeProduct {
		product, err := s.productRepo.GetByIDForUpdate(ctx, *req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %s does not exist", ErrInvalidInput, req.ProductID)
			}
			return fmt.Errorf("failed to load product: %w", err)
		}
		if req.Quantity > product.StockQuantity {
			return ErrInsufficientStock
		}

		notes := fmt.Sprintf("item added to order %s", order.Number)
		if _, err := s.inventoryService.record(ctx, product.ID, domain.MovementTypeExit,
			req.Quantity, domain.MovementReferenceOrder, &order.ID, userID, notes); err != nil {
			return err
		}
	}

	item := &domain.OrderItem{
		OrderID:     order.ID,
		ItemType:    req.ItemType,
		ProductID:   req.ProductID,
		LaborTypeID: req.LaborTypeID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalPrice:  domain.LineTotal(req.Quantity, req.UnitPrice),
	}
	if err := s.orderItemRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

// lockOrder loads an order under a row lock.
func (s *OrderService) lockOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

// recomputeTotals derives subtotal, discount and total from the full
// current item set and persists them. Runs inside the caller's transaction
// with the order row already locked.
func (s *OrderService) recomputeTotals(ctx context.Context, orderID uuid.UUID, discount float64) error {
	items, err := s.orderItemRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	itemTotals := make([]float64, len(items))
	for i := range items {
		itemTotals[i] = items[i].TotalPrice
	}
	subtotal, discount, total := normalizeTotals(itemTotals, discount)

	return s.orderRepo.UpdateFields(ctx, orderID, map[string]interface{}{
		"subtotal": subtotal,
		"discount": discount,
		"total":    total,
	})
}
