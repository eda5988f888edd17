package usecase

import (
	"context"

	"go.uber.org/zap"

	"entrepot/internal/billing/ledger"
	"entrepot/internal/domain"
	apperrors "entrepot/internal/errors"
	ordersrepo "entrepot/internal/orders/repository"
)

type PaymentOrderRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Order, error)
	ApplyPayments(ctx context.Context, updates []ordersrepo.PaymentUpdate) error
}

type BulkPaymentResult struct {
	Allocations []ledger.Allocation
	Leftover    float64
}

// BulkPaymentUseCase spreads one client payment across several orders, in
// the sequence the client chose them.
type BulkPaymentUseCase struct {
	orders PaymentOrderRepository
	logger *zap.Logger
}

func NewBulkPaymentUseCase(orders PaymentOrderRepository, logger *zap.Logger) *BulkPaymentUseCase {
	return &BulkPaymentUseCase{orders: orders, logger: logger}
}

func (uc *BulkPaymentUseCase) Apply(ctx context.Context, pool float64, orderIDs []string) (*BulkPaymentResult, error) {
	if err := validateBulkPayment(pool, orderIDs); err != nil {
		return nil, err
	}

	orders, err := uc.orders.FindByIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	allocations, leftover := ledger.Allocate(pool, orders)

	updates := make([]ordersrepo.PaymentUpdate, 0, len(allocations))
	for _, a := range allocations {
		if a.Allocated > 0 {
			updates = append(updates, ordersrepo.PaymentUpdate{
				OrderID:    a.OrderID,
				AmountPaid: a.NewAmountPaid,
			})
		}
	}

	if err := uc.orders.ApplyPayments(ctx, updates); err != nil {
		return nil, err
	}

	if leftover > 0 {
		// the ledger drops any pool remainder beyond total dues; there is
		// no credit or refund tracking, so make the drop visible
		uc.logger.Warn("bulk payment leftover dropped",
			zap.Float64("pool", pool),
			zap.Float64("leftover", leftover),
			zap.Int("orderCount", len(orderIDs)))
	}

	uc.logger.Info("bulk payment applied",
		zap.Float64("pool", pool),
		zap.Int("orderCount", len(orderIDs)),
		zap.Int("updatedOrders", len(updates)))

	return &BulkPaymentResult{Allocations: allocations, Leftover: leftover}, nil
}

func validateBulkPayment(pool float64, orderIDs []string) error {
	var details []apperrors.ValidationDetail

	if pool < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "pool",
			Message: "pool must be non-negative",
		})
	}
	if len(orderIDs) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "orderIds",
			Message: "orderIds must not be empty",
		})
	}

	seen := make(map[string]bool, len(orderIDs))
	for _, id := range orderIDs {
		if id == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "orderIds",
				Message: "orderIds must not contain empty ids",
			})
			continue
		}
		if seen[id] {
			details = append(details, apperrors.ValidationDetail{
				Field:   "orderIds",
				Message: "orderIds must not contain duplicates",
			})
		}
		seen[id] = true
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
