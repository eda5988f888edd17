package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"entrepot/internal/billing"
	"entrepot/internal/commons"
	"entrepot/internal/dispatch"
	"entrepot/internal/infrastructure/logger"
	"entrepot/internal/infrastructure/mysql"
	"entrepot/internal/orders"
	"entrepot/internal/pricing"
	"entrepot/internal/server"
	"entrepot/internal/storage"
)

func main() {
	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	ordersCtrl := orders.NewModule(db, zapLogger)
	storageCtrl := storage.NewModule(db, cfg, zapLogger)
	billingCtrl := billing.NewModule(db, zapLogger)
	dispatchCtrl := dispatch.NewModule(db, zapLogger)
	pricingCtrl := pricing.NewModule(cfg, zapLogger)

	router := server.NewRouter(ordersCtrl, storageCtrl, billingCtrl, dispatchCtrl, pricingCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
