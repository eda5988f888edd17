// Package pricing quotes an order's cost up front: commission on the
// product price plus weight-based international shipping plus the standard
// delivery fee. Rates come in as an explicit Settings value so the
// calculator stays pure and testable.
package pricing

import (
	"strings"

	apperrors "entrepot/internal/errors"
	"entrepot/internal/money"
)

type Settings struct {
	CommissionRate     float64
	ZoneRates          map[string]float64
	DefaultDeliveryFee float64
}

type QuoteInput struct {
	PriceMRU float64
	Weight   float64
	Zone     string
}

type Quote struct {
	PriceMRU    float64
	Commission  float64
	Shipping    float64
	DeliveryFee float64
	Total       float64
	Zone        string
}

// Calculate produces a quote. Unknown zones are a validation error; all
// monetary components are rounded to whole MRU.
func Calculate(s Settings, in QuoteInput) (Quote, error) {
	zone := strings.ToLower(strings.TrimSpace(in.Zone))
	rate, ok := s.ZoneRates[zone]
	if !ok {
		return Quote{}, apperrors.NewValidationError("unknown shipping zone", apperrors.ValidationDetail{
			Field:   "zone",
			Message: "zone is not configured",
		})
	}

	price := money.Round(money.ClampNonNegative(in.PriceMRU))
	commission := money.Round(price * s.CommissionRate)
	shipping := money.Round(money.ClampNonNegative(in.Weight) * rate)
	deliveryFee := money.Round(s.DefaultDeliveryFee)

	return Quote{
		PriceMRU:    price,
		Commission:  commission,
		Shipping:    shipping,
		DeliveryFee: deliveryFee,
		Total:       price + commission + shipping + deliveryFee,
		Zone:        zone,
	}, nil
}
