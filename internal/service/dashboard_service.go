package service

import (
	"context"
	"fmt"
	"time"

	"github.com/verksted-as/workshop-api/internal/datawarehouse"
	"github.com/verksted-as/workshop-api/internal/domain"
	"github.com/verksted-as/workshop-api/internal/repository"
	"go.uber.org/zap"
)

type DashboardService struct {
	quoteRepo   *repository.QuoteRepository
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	dwClient    *datawarehouse.Client
	logger      *zap.Logger
}

func NewDashboardService(
	quoteRepo *repository.QuoteRepository,
	orderRepo *repository.OrderRepository,
	productRepo *repository.ProductRepository,
	dwClient *datawarehouse.Client,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		quoteRepo:   quoteRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		dwClient:    dwClient,
		logger:      logger,
	}
}

// GetMetrics returns the headline dashboard numbers. Revenue covers orders
// finished in the current calendar month. The settled total comes from the
// accounting warehouse and is zero when that connection is disabled.
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	openQuotes, err := s.quoteRepo.CountByStatus(ctx, domain.QuoteStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to count open quotes: %w", err)
	}

	inProgress, err := s.orderRepo.CountByStatus(ctx, domain.OrderStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders in progress: %w", err)
	}

	waiting, err := s.orderRepo.CountByStatus(ctx, domain.OrderStatusWaitingParts)
	if err != nil {
		return nil, fmt.Errorf("failed to count waiting orders: %w", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	finished, err := s.orderRepo.CountFinishedBetween(ctx, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count finished orders: %w", err)
	}

	revenue, err := s.orderRepo.SumFinishedTotals(ctx, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sum finished totals: %w", err)
	}

	lowStock, err := s.productRepo.CountLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}

	var settled float64
	if s.dwClient.IsEnabled() {
		settled, err = s.dwClient.SettledTotalBetween(ctx, monthStart, now)
		if err != nil {
			// The dashboard should not fail because accounting is unreachable.
			s.logger.Warn("failed to fetch settled total", zap.Error(err))
			settled = 0
		}
	}

	return &domain.DashboardMetrics{
		OpenQuotes:        openQuotes,
		OrdersInProgress:  inProgress,
		OrdersWaiting:     waiting,
		FinishedThisMonth: finished,
		RevenueThisMonth:  revenue,
		LowStockProducts:  lowStock,
		SettledTotal:      settled,
	}, nil
}
