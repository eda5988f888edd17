package billing

import (
	"database/sql"

	"go.uber.org/zap"

	"entrepot/internal/billing/controller"
	"entrepot/internal/billing/usecase"
	ordersrepo "entrepot/internal/orders/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.BillingController {
	orderRepo := ordersrepo.NewMySQLOrderRepository(db)

	bulkPaymentUC := usecase.NewBulkPaymentUseCase(orderRepo, logger)
	settleRunUC := usecase.NewSettleRunUseCase(orderRepo, logger)

	return controller.NewBillingController(orderRepo, bulkPaymentUC, settleRunUC, logger)
}
