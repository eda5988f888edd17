package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"entrepot/internal/domain"
	apperrors "entrepot/internal/errors"
)

type RunOrderRepository interface {
	FindByRunID(ctx context.Context, runID string) ([]domain.Order, error)
	LaunchOrders(ctx context.Context, orderIDs []string) error
}

// LaunchRunUseCase dispatches a draft run: every stored order of the run
// leaves its slot and goes out for delivery. Orders without a recorded
// weight block the whole launch.
type LaunchRunUseCase struct {
	orders RunOrderRepository
	logger *zap.Logger
}

func NewLaunchRunUseCase(orders RunOrderRepository, logger *zap.Logger) *LaunchRunUseCase {
	return &LaunchRunUseCase{orders: orders, logger: logger}
}

func (uc *LaunchRunUseCase) Launch(ctx context.Context, runID string) ([]string, error) {
	orders, err := uc.orders.FindByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("run %s not found", runID))
	}
	if domain.RunPhaseOf(orders) == domain.RunActive {
		return nil, apperrors.NewConflictError("run is already out for delivery")
	}

	var details []apperrors.ValidationDetail
	var launchIDs []string
	for _, o := range orders {
		switch o.Status {
		case domain.StatusStored:
			if err := o.ValidateTransition(domain.StatusOutForDelivery); err != nil {
				details = append(details, apperrors.ValidationDetail{
					Field:   "orders[" + o.ID + "].weight",
					Message: "weight must be recorded before dispatch",
				})
				continue
			}
			launchIDs = append(launchIDs, o.ID)
		case domain.StatusArrivedAtOffice:
			details = append(details, apperrors.ValidationDetail{
				Field:   "orders[" + o.ID + "].status",
				Message: "order must be stored before dispatch",
			})
		case domain.StatusCompleted, domain.StatusCancelled:
			// already through a previous trip of this run; nothing to launch
		case domain.StatusNew, domain.StatusOrdered, domain.StatusShippedFromStore, domain.StatusOutForDelivery:
			details = append(details, apperrors.ValidationDetail{
				Field:   "orders[" + o.ID + "].status",
				Message: "order is not at the office",
			})
		}
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("cannot launch run", details...)
	}
	if len(launchIDs) == 0 {
		return nil, apperrors.NewConflictError("run has no orders ready for dispatch")
	}

	if err := uc.orders.LaunchOrders(ctx, launchIDs); err != nil {
		return nil, err
	}

	uc.logger.Info("run launched",
		zap.String("runId", runID),
		zap.Int("orderCount", len(launchIDs)))
	return launchIDs, nil
}
