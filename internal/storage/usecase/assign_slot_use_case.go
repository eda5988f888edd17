package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"entrepot/internal/domain"
	apperrors "entrepot/internal/errors"
	"entrepot/internal/storage/advisor"
)

type AssignResult struct {
	Suggestion advisor.Suggestion
	Attempts   int
}

// AssignSlotUseCase commits a storage placement. Because the advisor works
// on a snapshot, the commit can lose a race for the slot; the usecase then
// re-fetches and re-suggests, bounded by maxRetryAttempts.
type AssignSlotUseCase struct {
	orders           OrderRepository
	drawers          DrawerRepository
	logger           *zap.Logger
	strict           bool
	maxRetryAttempts int
	txTimeout        time.Duration
}

func NewAssignSlotUseCase(
	orders OrderRepository,
	drawers DrawerRepository,
	logger *zap.Logger,
	strict bool,
	maxRetryAttempts int,
	txTimeout time.Duration,
) *AssignSlotUseCase {
	return &AssignSlotUseCase{
		orders:           orders,
		drawers:          drawers,
		logger:           logger,
		strict:           strict,
		maxRetryAttempts: maxRetryAttempts,
		txTimeout:        txTimeout,
	}
}

// AssignSuggested runs the suggest-then-commit loop for one order.
func (uc *AssignSlotUseCase) AssignSuggested(ctx context.Context, orderID string) (*AssignResult, error) {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		suggestion, err := uc.suggestFresh(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !suggestion.Found() {
			return nil, apperrors.NewConflictError("no free slot available; assign manually or use the floor")
		}

		err = uc.commit(ctx, orderID, suggestion.Location)
		if err == nil {
			uc.logger.Info("slot assigned",
				zap.String("orderId", orderID),
				zap.String("location", suggestion.Location),
				zap.Int("attempt", attempt))
			return &AssignResult{Suggestion: suggestion, Attempts: attempt}, nil
		}

		if _, conflict := apperrors.IsConflictError(err); conflict || isDeadlockError(err) {
			if attempt < uc.maxRetryAttempts {
				uc.logger.Warn("slot assignment lost race, retrying with fresh snapshot",
					zap.String("orderId", orderID),
					zap.String("location", suggestion.Location),
					zap.Int("attempt", attempt),
					zap.Error(err))
				sleepBackoff(backoffs, attempt)
				continue
			}
		}
		return nil, err
	}

	return nil, apperrors.NewConflictError(
		fmt.Sprintf("could not secure a slot after %d attempts", uc.maxRetryAttempts))
}

// AssignManual places an order in an explicitly chosen slot or on the
// floor, going through the same compare-and-swap commit as the suggested
// path.
func (uc *AssignSlotUseCase) AssignManual(ctx context.Context, orderID, location string) (*AssignResult, error) {
	if location != domain.FloorLocation {
		if err := uc.validateSlot(ctx, location); err != nil {
			return nil, err
		}
	}

	if err := uc.commit(ctx, orderID, location); err != nil {
		return nil, err
	}
	uc.logger.Info("slot assigned manually",
		zap.String("orderId", orderID),
		zap.String("location", location))
	return &AssignResult{
		Suggestion: advisor.Suggestion{Location: location, Reasons: []string{"manual selection"}},
		Attempts:   1,
	}, nil
}

func (uc *AssignSlotUseCase) suggestFresh(ctx context.Context, orderID string) (advisor.Suggestion, error) {
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
	return advisor.SuggestWithOptions(*order, stored, drawers, advisor.Options{StrictOccupancy: uc.strict}), nil
}

func (uc *AssignSlotUseCase) commit(ctx context.Context, orderID, location string) error {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()
	return uc.orders.AssignSlot(txCtx, orderID, location, uc.strict)
}

func (uc *AssignSlotUseCase) validateSlot(ctx context.Context, location string) error {
	name, ok := domain.SlotDrawer(location)
	if !ok {
		return apperrors.NewValidationError("invalid slot address", apperrors.ValidationDetail{
			Field:   "location",
			Message: `location must be "<Drawer>-<NN>" or "Floor"`,
		})
	}

	drawers, err := uc.drawers.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, d := range drawers {
		if d.Name == name {
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("drawer %s not found", name))
}

func sleepBackoff(backoffs []time.Duration, attempt int) {
	idx := attempt - 1
	if idx >= len(backoffs) {
		idx = len(backoffs) - 1
	}
	base := backoffs[idx]
	if base == 0 {
		return
	}
	jitter := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
	time.Sleep(jitter)
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
