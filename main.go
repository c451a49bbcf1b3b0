package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mqttdesk/input"
	"mqttdesk/internal/agent"
	"mqttdesk/internal/capture"
	"mqttdesk/internal/config"
	"mqttdesk/internal/display"
	"mqttdesk/internal/observability"
	"mqttdesk/internal/relay"
	"mqttdesk/internal/session"
	"mqttdesk/internal/transport"
)

func main() {
	cfg, err := config.FromArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	log := observability.NewLogger(cfg.LogLevel)

	if cfg.Mode != config.ModeRelay && os.Getenv("DISPLAY") == "" {
		// Keep previous behavior if unset (useful for X on Linux)
		os.Setenv("DISPLAY", ":0")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	switch cfg.Mode {
	case config.ModeRelay:
		err = runRelay(ctx, cfg, log, metrics)
	case config.ModeTarget:
		err = runTarget(ctx, cfg, log, metrics)
	case config.ModeController:
		err = runController(ctx, cfg, log, metrics)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", cfg.Mode).Msg("exit")
	}
}

func newBus(cfg *config.Config, log zerolog.Logger) transport.Bus {
	if cfg.Broker.Transport == config.TransportWS {
		return transport.NewWS(cfg.BrokerURL(), log)
	}
	return transport.NewMQTT(transport.MQTTOptions{
		BrokerURL: cfg.BrokerURL(),
		ClientID:  cfg.Broker.ClientID,
		KeepAlive: cfg.Broker.KeepAlive,
	}, log)
}

func runTarget(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *observability.Metrics) error {
	scr := capture.NewScreen(capture.Options{
		Top: cfg.Screen.Top, Left: cfg.Screen.Left,
		Width: cfg.Screen.Width, Height: cfg.Screen.Height,
	})
	a := agent.NewTarget(session.New(cfg.Session.ID), newBus(cfg, log), scr, input.NewRobot(log),
		agent.TargetOptions{
			CaptureInterval: cfg.Target.CaptureInterval,
			CaptureEvery:    cfg.Target.CaptureEvery,
			ScrollAmount:    cfg.Controller.ScrollAmount,
		}, log, m)
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer a.Stop()
	if a.State() == agent.StateFailed {
		return errors.New("could not connect to broker")
	}
	go serveMetrics(ctx, cfg.MetricsAddr, m, log)

	<-ctx.Done()
	log.Info().Msg("shutting down target...")
	return nil
}

func runController(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *observability.Metrics) error {
	c := agent.NewController(session.New(cfg.Session.ID), newBus(cfg, log), agent.ControllerOptions{
		Width:       cfg.Screen.Width,
		Height:      cfg.Screen.Height,
		OffsetX:     cfg.Screen.Left,
		OffsetY:     cfg.Screen.Top,
		MoveDelay:   cfg.Controller.MoveDelay,
		ScrollDelay: cfg.Controller.ScrollDelay,
	}, log, m)
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer c.Stop()
	if c.State() == agent.StateFailed {
		log.Warn().Msg("broker unavailable; window will stay blank")
	}
	go serveMetrics(ctx, cfg.MetricsAddr, m, log)

	title := fmt.Sprintf("mqttdesk - session %d", cfg.Session.ID)
	return display.Run(ctx, c, cfg.Screen.Width, cfg.Screen.Height, title)
}

func runRelay(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *observability.Metrics) error {
	srv := relay.NewServer(relay.NewHub(), log, m)
	return runServer(ctx, cfg.Relay.Addr, srv.Handler(), log)
}

func serveMetrics(ctx context.Context, addr string, m *observability.Metrics, log zerolog.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if err := runServer(ctx, addr, mux, log); err != nil {
		log.Error().Err(err).Msg("metrics server")
	}
}

// runServer serves h on addr until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, addr string, h http.Handler, log zerolog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown error")
	}
	return nil
}
