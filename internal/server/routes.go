package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mindbloom/internal/config"
	"mindbloom/internal/events"
	"mindbloom/internal/logger"
	"mindbloom/internal/metrics"
	"mindbloom/internal/training"
	"mindbloom/internal/wshub"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run() error {
	appCfg := config.Load()

	log, err := logger.New(appCfg.LogMode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := OpenBackend(ctx, appCfg, log)
	if err != nil {
		log.Error("storage unavailable, running in memory", "error", err)
		backend = &Backend{}
		backend.UseMemory()
	}
	defer backend.Close(context.Background())
	log.Info("storage selected", "backend", backend.Name)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	bus := events.NewBus()
	hub := wshub.NewHub(log)
	go hub.Run(ctx, bus)

	engine := backend.NewEngine(appCfg, log, metrics.New(reg))
	engine.Notifier = bus

	srv := &Server{
		Engine:   engine,
		Training: training.NewService(backend.Store, engine, log),
		Hub:      hub,
		Ping:     backend.Ping,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Log:      log,
	}

	httpSrv := &http.Server{
		Addr:              "0.0.0.0:" + appCfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info("server listening", "addr", "http://localhost:"+appCfg.Port)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
