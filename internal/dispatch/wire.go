package dispatch

import (
	"database/sql"

	"go.uber.org/zap"

	"entrepot/internal/dispatch/controller"
	"entrepot/internal/dispatch/usecase"
	ordersrepo "entrepot/internal/orders/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.DispatchController {
	orderRepo := ordersrepo.NewMySQLOrderRepository(db)

	launchUC := usecase.NewLaunchRunUseCase(orderRepo, logger)
	deliveryUC := usecase.NewDeliveryUseCase(orderRepo, orderRepo, logger)

	return controller.NewDispatchController(launchUC, deliveryUC, logger)
}
