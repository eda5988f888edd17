package pricing

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "entrepot/internal/errors"
)

type Controller struct {
	settings Settings
	logger   *zap.Logger
}

func NewController(settings Settings, logger *zap.Logger) *Controller {
	return &Controller{
		settings: settings,
		logger:   logger,
	}
}

func (c *Controller) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.validateQuoteRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	quote, err := Calculate(c.settings, QuoteInput{
		PriceMRU: req.PriceMRU,
		Weight:   req.Weight,
		Zone:     req.Zone,
	})
	if err != nil {
		if ve, ok := apperrors.IsValidationError(err); ok {
			c.writeValidationError(w, ve.Message, ve.Details...)
			return
		}
		c.logger.Error("quote failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, QuoteResponse{
		PriceMRU:    quote.PriceMRU,
		Commission:  quote.Commission,
		Shipping:    quote.Shipping,
		DeliveryFee: quote.DeliveryFee,
		Total:       quote.Total,
		Zone:        quote.Zone,
	})
}

func (c *Controller) validateQuoteRequest(req QuoteRequest) error {
	var details []apperrors.ValidationDetail

	if req.PriceMRU < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "priceMRU",
			Message: "priceMRU must be non-negative",
		})
	}
	if req.Weight < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "weight",
			Message: "weight must be non-negative",
		})
	}
	if req.Zone == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "zone",
			Message: "zone is required",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
