package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"entrepot/internal/billing/ledger"
	"entrepot/internal/domain"
	apperrors "entrepot/internal/errors"
	ordersrepo "entrepot/internal/orders/repository"
)

type RunOrderRepository interface {
	FindByRunID(ctx context.Context, runID string) ([]domain.Order, error)
	SettleOrders(ctx context.Context, updates []ordersrepo.SettlementUpdate, withdrawnAt time.Time) error
}

// SettleRunUseCase reconciles a driver's cash once a run has no orders
// left on the road, and closes out the completed orders.
type SettleRunUseCase struct {
	orders RunOrderRepository
	logger *zap.Logger
}

func NewSettleRunUseCase(orders RunOrderRepository, logger *zap.Logger) *SettleRunUseCase {
	return &SettleRunUseCase{orders: orders, logger: logger}
}

func (uc *SettleRunUseCase) Settle(ctx context.Context, runID string) (*ledger.Settlement, error) {
	orders, err := uc.orders.FindByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("run %s not found", runID))
	}

	for _, o := range orders {
		if o.Status == domain.StatusOutForDelivery {
			return nil, apperrors.NewConflictError("run still has orders out for delivery")
		}
	}

	settlement := ledger.Settle(orders)

	// settlement closes out every completed order: the client's balance is
	// considered collected in full and the withdrawal date is stamped
	updates := make([]ordersrepo.SettlementUpdate, 0, settlement.OrdersSettled)
	for _, o := range orders {
		if o.Status == domain.StatusCompleted {
			updates = append(updates, ordersrepo.SettlementUpdate{
				OrderID:    o.ID,
				AmountPaid: ledger.GrandTotal(o),
			})
		}
	}
	if err := uc.orders.SettleOrders(ctx, updates, time.Now().UTC()); err != nil {
		return nil, err
	}

	uc.logger.Info("run settled",
		zap.String("runId", runID),
		zap.Int("ordersSettled", settlement.OrdersSettled),
		zap.Float64("netTotal", settlement.Net))

	return &settlement, nil
}
