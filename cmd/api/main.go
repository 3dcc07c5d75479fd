package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/sportsbook/app"
	"github.com/joefazee/sportsbook/app/api"
	"github.com/joefazee/sportsbook/app/events"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/app/wallet"
	"github.com/joefazee/sportsbook/internal/logger"
	"github.com/joefazee/sportsbook/internal/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	appLogger := logger.NewZeroLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel), logger.Fields{
		"service": "sportsbook-api",
		"env":     cfg.Env,
	})

	rt, err := app.NewRuntime(cfg, appLogger)
	if err != nil {
		appLogger.Fatal(err, map[string]interface{}{"stage": "bootstrap"})
	}
	defer rt.Close()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(api.CorsMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})))

	mounter := router.NewMounter(rt.Container)
	mounter.Public(r).RouterGroup().GET("/healthz", api.HealthCheck(rt.HealthChecks()))
	mounter.Admin(r, api.AdminKey(cfg.AdminAPIKey)).
		Mount(wallet.MountAdmin).
		Mount(settlement.MountAdmin).
		Mount(events.MountAdmin)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("starting sportsbook api", map[string]interface{}{"addr": cfg.Addr()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(err, map[string]interface{}{"stage": "listen"})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, map[string]interface{}{"stage": "shutdown"})
	}
	appLogger.Info("sportsbook api stopped", nil)
}
