package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joefazee/sportsbook/app"
	"github.com/joefazee/sportsbook/app/events"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/internal/broker"
	"github.com/joefazee/sportsbook/internal/logger"
	"github.com/joefazee/sportsbook/models"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	appLogger := logger.NewZeroLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel), logger.Fields{
		"service": "settlement-worker",
		"env":     cfg.Env,
	})

	rt, err := app.NewRuntime(cfg, appLogger)
	if err != nil {
		appLogger.Fatal(err, map[string]interface{}{"stage": "bootstrap"})
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	if cfg.Kafka.Enabled() {
		reader := broker.NewReader(cfg.Kafka.BrokerList(), cfg.Kafka.ResultsTopic, cfg.Kafka.ConsumerGroup)
		defer func() { _ = reader.Close() }()

		consumer := events.NewFeedConsumer(rt.EventService(), rt.Container.Metrics, appLogger).Consumer(reader)
		wg.Add(1)
		go func() {
			defer wg.Done()
			appLogger.Info("consuming results feed", map[string]interface{}{"topic": cfg.Kafka.ResultsTopic})
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error(err, map[string]interface{}{"stage": "feed"})
			}
		}()
	} else {
		appLogger.Warn("kafka not configured, running the parlay sweep only", nil)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		sweepParlays(ctx, rt.SettlementService(), cfg.Settlement.SweepInterval, appLogger)
	}()

	wg.Wait()
	appLogger.Info("settlement worker stopped", nil)
}

// sweepParlays settles parlays whose last leg finished since the previous tick.
// Event settlement already covers most of them; the sweep catches the rest.
func sweepParlays(ctx context.Context, svc settlement.Service, every time.Duration, appLogger logger.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := svc.SettleParlays(ctx, models.TriggerSweep)
			if err != nil {
				if ctx.Err() == nil {
					appLogger.Error(err, map[string]interface{}{"stage": "parlay_sweep"})
				}
				continue
			}
			appLogger.Debug("parlay sweep finished", map[string]interface{}{
				"settled": report.Settled,
				"skipped": report.Skipped,
				"errors":  len(report.Errors),
			})
		}
	}
}
