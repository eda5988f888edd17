package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"entrepot/internal/domain"
	"entrepot/internal/dto"
	apperrors "entrepot/internal/errors"
)

type LaunchRunUseCase interface {
	Launch(ctx context.Context, runID string) ([]string, error)
}

type DeliveryUseCase interface {
	Complete(ctx context.Context, orderID string) (*domain.Order, error)
	Return(ctx context.Context, orderID string) (*domain.Order, error)
	RunPhase(ctx context.Context, runID string) (domain.RunPhase, int, error)
}

type DispatchController struct {
	launch   LaunchRunUseCase
	delivery DeliveryUseCase
	logger   *zap.Logger
}

func NewDispatchController(launch LaunchRunUseCase, delivery DeliveryUseCase, logger *zap.Logger) *DispatchController {
	return &DispatchController{
		launch:   launch,
		delivery: delivery,
		logger:   logger,
	}
}

func (c *DispatchController) LaunchRun(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	runID := chi.URLParam(r, "runId")
	orderIDs, err := c.launch.Launch(r.Context(), runID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.LaunchRunResponse{
		TraceID:   traceID,
		RunID:     runID,
		Launched:  len(orderIDs),
		OrderIDs:  orderIDs,
		Timestamp: time.Now().UTC(),
	})
}

func (c *DispatchController) RunStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	runID := chi.URLParam(r, "runId")
	phase, count, err := c.delivery.RunPhase(r.Context(), runID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.RunStatusResponse{
		TraceID:   traceID,
		RunID:     runID,
		Phase:     string(phase),
		Orders:    count,
		Timestamp: time.Now().UTC(),
	})
}

func (c *DispatchController) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	c.deliveryOutcome(w, r, c.delivery.Complete)
}

func (c *DispatchController) ReturnOrder(w http.ResponseWriter, r *http.Request) {
	c.deliveryOutcome(w, r, c.delivery.Return)
}

func (c *DispatchController) deliveryOutcome(w http.ResponseWriter, r *http.Request, outcome func(context.Context, string) (*domain.Order, error)) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := chi.URLParam(r, "orderId")
	order, err := outcome(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	resp := dto.OrderStatusResponse{
		TraceID:   traceID,
		OrderID:   order.ID,
		Status:    string(order.Status),
		Timestamp: time.Now().UTC(),
	}
	if order.StorageLocation != nil {
		resp.StorageLocation = *order.StorageLocation
	}
	c.writeJSON(w, http.StatusOK, resp)
}

func (c *DispatchController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
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

func (c *DispatchController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{TraceID: traceID, Code: code, Message: message})
}

func (c *DispatchController) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *DispatchController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
