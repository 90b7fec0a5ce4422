// edge es el proceso consumidor: ingesta de eventos de arenero/comedero y
// alertas de playroom desde NATS hacia el storage, con detección de
// anomalías en el camino.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	mem "pet-lostfound/internal/adapters/storage/memory"
	"pet-lostfound/internal/adapters/storage/postgres"
	"pet-lostfound/internal/config"
	"pet-lostfound/internal/domain/alerts"
	"pet-lostfound/internal/domain/anomaly"
	"pet-lostfound/internal/domain/telemetry"
	"pet-lostfound/internal/edge"
	"pet-lostfound/internal/platform/logger"
)

func main() {
	log := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	var (
		telemetryRepo telemetry.Repository
		alertsRepo    alerts.Repository
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			// Sin storage no hay nada que consumir: salir para que el
			// supervisor reinicie.
			log.Error("database unreachable", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Error("schema setup failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		cancel()

		telemetryRepo = postgres.NewTelemetryRepo(db)
		alertsRepo = postgres.NewAlertsRepo(db)
	} else {
		log.Warn("no database_url configured, using in-memory repositories", nil)
		telemetryRepo = mem.NewTelemetryRepo()
		alertsRepo = mem.NewAlertsRepo()
	}

	pipeline := edge.NewPipeline(
		telemetry.NewService(telemetryRepo),
		alerts.NewService(alertsRepo),
		anomaly.Thresholds{
			DurationS: cfg.LitterDurationThreshold,
			Conf:      cfg.LitterConfThreshold,
		},
		log,
	)

	consumer, err := edge.Connect(cfg.BusURL, log)
	if err != nil {
		log.Error("bus unreachable", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Subscribe(ctx, pipeline.Routes()); err != nil {
		log.Error("subscribe failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log.Info("edge consumers listening", map[string]any{"bus_url": cfg.BusURL})

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-consumer.Closed():
		// Reconexiones agotadas: sin bus no hay ingesta. Salir para que
		// el supervisor reinicie en lugar de quedar colgado sin consumir.
		log.Error("bus connection closed", map[string]any{"bus_url": cfg.BusURL})
		os.Exit(1)
	case sig := <-sigs:
		// Drain antes de cancelar: los handlers en vuelo terminan con su
		// context vivo, recién después se suelta todo.
		log.Info("draining", map[string]any{"signal": sig.String()})
		if err := consumer.Drain(); err != nil {
			log.Error("drain failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}
}
