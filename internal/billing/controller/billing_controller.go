package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"entrepot/internal/billing/ledger"
	"entrepot/internal/billing/usecase"
	"entrepot/internal/domain"
	"entrepot/internal/dto"
	apperrors "entrepot/internal/errors"
)

type OrderFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

type BulkPaymentUseCase interface {
	Apply(ctx context.Context, pool float64, orderIDs []string) (*usecase.BulkPaymentResult, error)
}

type SettleRunUseCase interface {
	Settle(ctx context.Context, runID string) (*ledger.Settlement, error)
}

type BillingController struct {
	orders      OrderFinder
	bulkPayment BulkPaymentUseCase
	settleRun   SettleRunUseCase
	logger      *zap.Logger
}

func NewBillingController(orders OrderFinder, bulkPayment BulkPaymentUseCase, settleRun SettleRunUseCase, logger *zap.Logger) *BillingController {
	return &BillingController{
		orders:      orders,
		bulkPayment: bulkPayment,
		settleRun:   settleRun,
		logger:      logger,
	}
}

// GetCollection reports what an order still owes and what a driver would
// collect at the door.
func (c *BillingController) GetCollection(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := chi.URLParam(r, "orderId")
	order, err := c.orders.FindByID(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.CollectionResponse{
		TraceID:       traceID,
		OrderID:       order.ID,
		BaseDebt:      ledger.BaseDebt(*order),
		DeliveryFee:   ledger.DeliveryFee(*order),
		GrandTotal:    ledger.GrandTotal(*order),
		CashToCollect: ledger.CashToCollect(*order),
		PaymentState:  string(ledger.Classify(*order)),
		Timestamp:     time.Now().UTC(),
	})
}

func (c *BillingController) BulkPayment(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.BulkPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	result, err := c.bulkPayment.Apply(r.Context(), req.Pool, req.OrderIDs)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	allocations := make([]dto.AllocationDTO, len(result.Allocations))
	for i, a := range result.Allocations {
		allocations[i] = dto.AllocationDTO{
			OrderID:       a.OrderID,
			Due:           a.Due,
			Allocated:     a.Allocated,
			NewAmountPaid: a.NewAmountPaid,
		}
	}

	c.writeJSON(w, http.StatusOK, dto.BulkPaymentResponse{
		TraceID:     traceID,
		PaymentID:   uuid.New().String(),
		Allocations: allocations,
		Leftover:    result.Leftover,
		Timestamp:   time.Now().UTC(),
	})
}

func (c *BillingController) SettleRun(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	runID := chi.URLParam(r, "runId")
	settlement, err := c.settleRun.Settle(r.Context(), runID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	direction := dto.DirectionDriverOwesOffice
	if !settlement.DriverOwesOffice() {
		direction = dto.DirectionOfficeOwesDriver
	}

	c.writeJSON(w, http.StatusOK, dto.SettlementResponse{
		TraceID:                 traceID,
		RunID:                   runID,
		BaseDebtCollected:       settlement.BaseDebtCollected,
		DeliveryFeesFromClients: settlement.DeliveryFeesFromClients,
		DriverEarnings:          settlement.DriverEarnings,
		CashInHand:              settlement.CashInHand,
		NetTotal:                settlement.Net,
		Direction:               direction,
		AmountOwed:              settlement.AmountOwed(),
		OrdersSettled:           settlement.OrdersSettled,
		Timestamp:               time.Now().UTC(),
	})
}

func (c *BillingController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type errorResponse struct {
	TraceID string `json:"traceId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *BillingController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{TraceID: traceID, Code: code, Message: message})
}

func (c *BillingController) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *BillingController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
