package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"codeberg.org/mutker/hostctl/internal/action"
	"codeberg.org/mutker/hostctl/internal/audit"
	"codeberg.org/mutker/hostctl/internal/config"
	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/gpu"
	"codeberg.org/mutker/hostctl/internal/httpserver"
	"codeberg.org/mutker/hostctl/internal/indicator"
	"codeberg.org/mutker/hostctl/internal/logger"
	"codeberg.org/mutker/hostctl/internal/metrics"
	"codeberg.org/mutker/hostctl/internal/pid"
	"codeberg.org/mutker/hostctl/internal/platform"
	"codeberg.org/mutker/hostctl/internal/telemetry"
	"codeberg.org/mutker/hostctl/internal/wol"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().Msg("Config loaded")

	if err := run(cfg); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("hostctl failed")
		} else {
			logger.Error().Err(err).Msg("hostctl failed")
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	pidFile := pid.New(cfg.PIDFile)
	if err := pidFile.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pidFile.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	plat := platform.New(platform.Options{})

	var gpuSensor action.GPU
	if dev, err := gpu.Open(); err != nil {
		logger.Debug().Err(err).Msg("No NVIDIA GPU sensor available")
	} else {
		defer func() {
			if err := dev.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close GPU sensor")
			}
		}()
		gpuSensor = dev
	}

	journal, err := audit.NewService(audit.Config{
		Enabled:      cfg.Audit.Enabled,
		DBPath:       cfg.Audit.Database,
		BatchSize:    cfg.Audit.BatchSize,
		BatchTimeout: cfg.Audit.BatchTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close audit journal")
		}
	}()

	store := telemetry.NewStore()
	reg := metrics.New()

	notifiers := []telemetry.Notifier{reg.Notify}

	var ind *indicator.Indicator
	if cfg.Indicator {
		ind = indicator.New(os.Stderr, indicator.Options{
			Thresholds: indicator.Thresholds{Low: cfg.Thresholds.Low, Medium: cfg.Thresholds.Medium},
			Show:       indicator.Show(cfg.IndicatorShow),
			StaleAfter: 2 * cfg.PollInterval(),
		})
		notifiers = append(notifiers, ind.Notify)
	}

	poller, err := telemetry.NewPoller(telemetry.Config{Interval: cfg.PollInterval()}, plat.Power, store, notifiers...)
	if err != nil {
		return err
	}

	dispatcher := action.NewDispatcher(action.Deps{
		Snapshots:    store,
		Refresher:    poller,
		Facts:        plat.Facts,
		Power:        plat.Power,
		Processes:    plat.Processes,
		Capabilities: plat.Capabilities,
		WOL:          wol.NewSender(cfg.WOLBroadcast),
		GPU:          gpuSensor,
		Observers:    []action.Observer{reg, journal},
	})

	logger.Info().
		Interface("capabilities", plat.Capabilities.Available()).
		Dur("interval", poller.Interval()).
		Msg("Platform ready")

	router, err := httpserver.NewRouter(httpserver.RouterDeps{
		Dispatcher:     dispatcher,
		AllowedSubnets: cfg.AllowedSubnets,
		Metrics:        reg.Handler(),
	})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	if ind != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ind.Run(ctx, poller)
		}()
	}

	srv := httpserver.NewServer(httpserver.Config{
		Listen:          cfg.Listen,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, router)

	err = srv.Run(ctx)
	cancel()
	wg.Wait()

	logger.Info().Msg("Exiting...")

	return err
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
