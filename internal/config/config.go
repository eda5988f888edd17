package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Storage  StorageConfig
	Pricing  PricingConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type StorageConfig struct {
	// StrictSlotOccupancy makes the advisor refuse occupied slots and the
	// assign path verify slot emptiness inside the commit transaction.
	StrictSlotOccupancy bool
	MaxRetryAttempts    int
	AssignTxTimeout     time.Duration
}

type PricingConfig struct {
	CommissionRate     float64
	DefaultDeliveryFee float64
	ZoneRates          map[string]float64
}

// DefaultZoneRates are the per-kilogram international shipping rates in MRU
// used when no override is configured.
func DefaultZoneRates() map[string]float64 {
	return map[string]float64{
		"china":  900,
		"dubai":  1100,
		"europe": 1400,
	}
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "entrepot")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "entrepot")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_STRICT_SLOTS", false)
	viper.SetDefault("STORAGE_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("STORAGE_ASSIGN_TX_TIMEOUT", "5s")
	viper.SetDefault("PRICING_COMMISSION_RATE", 0.10)
	viper.SetDefault("PRICING_DEFAULT_DELIVERY_FEE", 100)

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	assignTxTimeout, err := time.ParseDuration(viper.GetString("STORAGE_ASSIGN_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Storage: StorageConfig{
			StrictSlotOccupancy: viper.GetBool("STORAGE_STRICT_SLOTS"),
			MaxRetryAttempts:    viper.GetInt("STORAGE_MAX_RETRY_ATTEMPTS"),
			AssignTxTimeout:     assignTxTimeout,
		},
		Pricing: PricingConfig{
			CommissionRate:     viper.GetFloat64("PRICING_COMMISSION_RATE"),
			DefaultDeliveryFee: viper.GetFloat64("PRICING_DEFAULT_DELIVERY_FEE"),
			ZoneRates:          DefaultZoneRates(),
		},
	}

	return cfg, nil
}
