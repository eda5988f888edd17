package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"entrepot/internal/dto"
	apperrors "entrepot/internal/errors"
	"entrepot/internal/storage/advisor"
	"entrepot/internal/storage/usecase"
)

type SuggestSlotUseCase interface {
	Suggest(ctx context.Context, orderID string) (advisor.Suggestion, error)
}

type AssignSlotUseCase interface {
	AssignSuggested(ctx context.Context, orderID string) (*usecase.AssignResult, error)
	AssignManual(ctx context.Context, orderID, location string) (*usecase.AssignResult, error)
}

type StorageController struct {
	suggest SuggestSlotUseCase
	assign  AssignSlotUseCase
	logger  *zap.Logger
}

func NewStorageController(suggest SuggestSlotUseCase, assign AssignSlotUseCase, logger *zap.Logger) *StorageController {
	return &StorageController{
		suggest: suggest,
		assign:  assign,
		logger:  logger,
	}
}

func (c *StorageController) SuggestSlot(w http.ResponseWriter, r *http.Request) {
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

	suggestion, err := c.suggest.Suggest(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.SuggestSlotResponse{
		TraceID:   traceID,
		OrderID:   orderID,
		Location:  suggestion.Location,
		Score:     suggestion.Score,
		Reasons:   suggestion.Reasons,
		Timestamp: time.Now().UTC(),
	})
}

func (c *StorageController) AssignSlot(w http.ResponseWriter, r *http.Request) {
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

	var req dto.AssignSlotRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
				Field:   "body",
				Message: "request body must be valid JSON",
			})
			return
		}
	}

	var (
		result *usecase.AssignResult
		err    error
	)
	if req.Location != "" {
		result, err = c.assign.AssignManual(r.Context(), orderID, req.Location)
	} else {
		result, err = c.assign.AssignSuggested(r.Context(), orderID)
	}
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.AssignSlotResponse{
		TraceID:   traceID,
		OrderID:   orderID,
		Location:  result.Suggestion.Location,
		Score:     result.Suggestion.Score,
		Reasons:   result.Suggestion.Reasons,
		Attempts:  result.Attempts,
		Timestamp: time.Now().UTC(),
	})
}

func (c *StorageController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
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
	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "DEADLOCK", err.Error())
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

func (c *StorageController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{TraceID: traceID, Code: code, Message: message})
}

func (c *StorageController) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *StorageController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
