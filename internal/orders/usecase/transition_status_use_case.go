package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"entrepot/internal/domain"
	apperrors "entrepot/internal/errors"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	TransitionStatus(ctx context.Context, id string, from, to domain.OrderStatus, location *string) error
}

// TransitionStatusUseCase applies one lifecycle step to an order. The
// domain owns the rules; this layer maps rule violations to API errors
// and keeps the storage location consistent with the status.
type TransitionStatusUseCase struct {
	orders OrderRepository
	logger *zap.Logger
}

func NewTransitionStatusUseCase(orders OrderRepository, logger *zap.Logger) *TransitionStatusUseCase {
	return &TransitionStatusUseCase{orders: orders, logger: logger}
}

func (uc *TransitionStatusUseCase) Transition(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be a known lifecycle state",
		})
	}

	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.ValidateTransition(next); err != nil {
		return nil, mapTransitionError(order, next, err)
	}

	// storageLocation exists only while STORED; entering STORED through
	// this generic endpoint defaults to the floor (the storage module owns
	// slot placement)
	var location *string
	if next == domain.StatusStored {
		floor := domain.FloorLocation
		location = &floor
	}

	if err := uc.orders.TransitionStatus(ctx, orderID, order.Status, next, location); err != nil {
		return nil, err
	}

	uc.logger.Info("order status changed",
		zap.String("orderId", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)))

	order.Status = next
	order.StorageLocation = location
	return order, nil
}

func mapTransitionError(order *domain.Order, next domain.OrderStatus, err error) error {
	switch {
	case errors.Is(err, domain.ErrWeightRequired):
		return apperrors.NewValidationError("cannot dispatch or complete without a recorded weight",
			apperrors.ValidationDetail{
				Field:   "weight",
				Message: "weight must be set and greater than zero",
			})
	case errors.Is(err, domain.ErrInvalidTransition):
		return apperrors.NewConflictError(
			"transition " + string(order.Status) + " -> " + string(next) + " is not allowed")
	default:
		return err
	}
}
