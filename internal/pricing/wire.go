package pricing

import (
	"go.uber.org/zap"

	"entrepot/internal/config"
)

func NewModule(cfg *config.Config, logger *zap.Logger) *Controller {
	settings := Settings{
		CommissionRate:     cfg.Pricing.CommissionRate,
		ZoneRates:          cfg.Pricing.ZoneRates,
		DefaultDeliveryFee: cfg.Pricing.DefaultDeliveryFee,
	}
	return NewController(settings, logger)
}
