package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	billingctrl "entrepot/internal/billing/controller"
	dispatchctrl "entrepot/internal/dispatch/controller"
	ordersctrl "entrepot/internal/orders/controller"
	"entrepot/internal/pricing"
	storagectrl "entrepot/internal/storage/controller"
)

func NewRouter(
	orders *ordersctrl.OrderStatusController,
	storage *storagectrl.StorageController,
	billing *billingctrl.BillingController,
	dispatch *dispatchctrl.DispatchController,
	pricingCtrl *pricing.Controller,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Patch("/orders/{orderId}/status", orders.TransitionStatus)

		r.Post("/orders/{orderId}/storage/suggestion", storage.SuggestSlot)
		r.Post("/orders/{orderId}/storage/assignment", storage.AssignSlot)

		r.Get("/orders/{orderId}/collection", billing.GetCollection)
		r.Post("/payments/bulk", billing.BulkPayment)

		r.Get("/runs/{runId}", dispatch.RunStatus)
		r.Post("/runs/{runId}/launch", dispatch.LaunchRun)
		r.Post("/runs/{runId}/settlement", billing.SettleRun)
		r.Post("/orders/{orderId}/delivery/completion", dispatch.CompleteOrder)
		r.Post("/orders/{orderId}/delivery/return", dispatch.ReturnOrder)

		r.Post("/pricing/quote", pricingCtrl.HandleQuote)
	})

	return r
}
