package storage

import (
	"database/sql"

	"go.uber.org/zap"

	"entrepot/internal/config"
	ordersrepo "entrepot/internal/orders/repository"
	"entrepot/internal/storage/controller"
	"entrepot/internal/storage/repository"
	"entrepot/internal/storage/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.StorageController {
	orderRepo := ordersrepo.NewMySQLOrderRepository(db)
	drawerRepo := repository.NewMySQLDrawerRepository(db)

	suggestUC := usecase.NewSuggestSlotUseCase(
		orderRepo,
		drawerRepo,
		logger,
		cfg.Storage.StrictSlotOccupancy,
	)
	assignUC := usecase.NewAssignSlotUseCase(
		orderRepo,
		drawerRepo,
		logger,
		cfg.Storage.StrictSlotOccupancy,
		cfg.Storage.MaxRetryAttempts,
		cfg.Storage.AssignTxTimeout,
	)

	return controller.NewStorageController(suggestUC, assignUC, logger)
}
