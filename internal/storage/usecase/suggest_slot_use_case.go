package usecase

import (
	"context"

	"go.uber.org/zap"

	"entrepot/internal/domain"
	apperrors "entrepot/internal/errors"
	"entrepot/internal/storage/advisor"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindStored(ctx context.Context) ([]domain.Order, error)
	AssignSlot(ctx context.Context, orderID, location string, strict bool) error
}

type DrawerRepository interface {
	FindAll(ctx context.Context) ([]domain.StorageDrawer, error)
}

type SuggestSlotUseCase struct {
	orders  OrderRepository
	drawers DrawerRepository
	logger  *zap.Logger
	strict  bool
}

func NewSuggestSlotUseCase(orders OrderRepository, drawers DrawerRepository, logger *zap.Logger, strict bool) *SuggestSlotUseCase {
	return &SuggestSlotUseCase{
		orders:  orders,
		drawers: drawers,
		logger:  logger,
		strict:  strict,
	}
}

// Suggest computes a placement recommendation from a fresh snapshot. It
// does not reserve anything: the slot may be taken by the time the caller
// commits, which is what the assign path's retry loop is for.
func (uc *SuggestSlotUseCase) Suggest(ctx context.Context, orderID string) (advisor.Suggestion, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return advisor.Suggestion{}, err
	}

	if order.Status != domain.StatusArrivedAtOffice && order.Status != domain.StatusStored {
		return advisor.Suggestion{}, apperrors.NewConflictError("order is not at the office")
	}

	stored, err := uc.orders.FindStored(ctx)
	if err != nil {
		return advisor.Suggestion{}, err
	}
	drawers, err := uc.drawers.FindAll(ctx)
	if err != nil {
		return advisor.Suggestion{}, err
	}

	suggestion := advisor.SuggestWithOptions(*order, stored, drawers, advisor.Options{StrictOccupancy: uc.strict})
	if !suggestion.Found() {
		uc.logger.Info("no slot available", zap.String("orderId", orderID))
	}
	return suggestion, nil
}
