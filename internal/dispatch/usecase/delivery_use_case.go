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

// DeliveryUseCase handles the two ways an order leaves a driver's hands:
// delivered to the client, or brought back to the office.
type DeliveryUseCase struct {
	orders OrderRepository
	runs   RunOrderRepository
	logger *zap.Logger
}

func NewDeliveryUseCase(orders OrderRepository, runs RunOrderRepository, logger *zap.Logger) *DeliveryUseCase {
	return &DeliveryUseCase{orders: orders, runs: runs, logger: logger}
}

// Complete marks an out-for-delivery order as delivered.
func (uc *DeliveryUseCase) Complete(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.transition(ctx, orderID, domain.StatusCompleted, nil)
}

// Return brings an undeliverable order back into storage. It lands on the
// floor; staff re-slot it through the storage module if needed.
func (uc *DeliveryUseCase) Return(ctx context.Context, orderID string) (*domain.Order, error) {
	floor := domain.FloorLocation
	return uc.transition(ctx, orderID, domain.StatusStored, &floor)
}

// RunPhase reports the derived phase of a run.
func (uc *DeliveryUseCase) RunPhase(ctx context.Context, runID string) (domain.RunPhase, int, error) {
	orders, err := uc.runs.FindByRunID(ctx, runID)
	if err != nil {
		return "", 0, err
	}
	if len(orders) == 0 {
		return "", 0, apperrors.NewNotFoundError("run " + runID + " not found")
	}
	return domain.RunPhaseOf(orders), len(orders), nil
}

func (uc *DeliveryUseCase) transition(ctx context.Context, orderID string, next domain.OrderStatus, location *string) (*domain.Order, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.ValidateTransition(next); err != nil {
		switch {
		case errors.Is(err, domain.ErrWeightRequired):
			return nil, apperrors.NewValidationError("cannot complete delivery without a recorded weight",
				apperrors.ValidationDetail{
					Field:   "weight",
					Message: "weight must be set and greater than zero",
				})
		case errors.Is(err, domain.ErrInvalidTransition):
			return nil, apperrors.NewConflictError("order is not out for delivery")
		default:
			return nil, err
		}
	}

	if err := uc.orders.TransitionStatus(ctx, orderID, order.Status, next, location); err != nil {
		return nil, err
	}

	uc.logger.Info("delivery outcome recorded",
		zap.String("orderId", orderID),
		zap.String("outcome", string(next)))

	order.Status = next
	order.StorageLocation = location
	return order, nil
}
