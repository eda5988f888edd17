package orders

import (
	"database/sql"

	"go.uber.org/zap"

	"entrepot/internal/orders/controller"
	"entrepot/internal/orders/repository"
	"entrepot/internal/orders/usecase"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.OrderStatusController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	transitionUC := usecase.NewTransitionStatusUseCase(orderRepo, logger)
	return controller.NewOrderStatusController(transitionUC, logger)
}
