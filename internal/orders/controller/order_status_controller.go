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

type TransitionStatusUseCase interface {
	Transition(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error)
}

type OrderStatusController struct {
	useCase TransitionStatusUseCase
	logger  *zap.Logger
}

func NewOrderStatusController(useCase TransitionStatusUseCase, logger *zap.Logger) *OrderStatusController {
	return &OrderStatusController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderStatusController) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		c.writeValidationError(w, traceID, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId is required",
		})
		return
	}

	var req dto.TransitionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.Status == "" {
		c.writeValidationError(w, traceID, "invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status is required",
		})
		return
	}

	order, err := c.useCase.Transition(r.Context(), orderID, domain.OrderStatus(req.Status))
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

func (c *OrderStatusController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
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

func (c *OrderStatusController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{TraceID: traceID, Code: code, Message: message})
}

func (c *OrderStatusController) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderStatusController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
