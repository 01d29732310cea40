package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Izenberk/analytics-dashboard/actions"
	"github.com/Izenberk/analytics-dashboard/dataservice"
	"github.com/Izenberk/analytics-dashboard/logging"
	"github.com/Izenberk/analytics-dashboard/prefs"
	"github.com/Izenberk/analytics-dashboard/shutdown"
	"github.com/Izenberk/analytics-dashboard/store"
	"github.com/Izenberk/analytics-dashboard/webui"
	"github.com/Izenberk/analytics-dashboard/webui/auth"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	// Service management commands (install/uninstall/start/stop/status)
	if HandleServiceCommand(os.Args) {
		return
	}

	// Windows service mode runs the server through the service lifecycle
	if isService, err := RunAsService(); err != nil {
		fmt.Fprintf(os.Stderr, "Service error: %v\n", err)
		os.Exit(exitCodeError)
	} else if isService {
		return
	}

	os.Exit(runServer(context.Background()))
}

// runServer boots the dashboard backend and blocks until shutdown. The
// parent context lets service wrappers stop the server externally.
func runServer(parent context.Context) int {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return exitCodeError
	}

	logger, err := logging.NewLogger(config.DevMode, config.LogFile)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return exitCodeError
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Printf("Failed to sync logger: %v\n", syncErr)
		}
	}()

	result := NewValidationSuite(config).Validate()
	if !result.Success {
		logger.Error("Startup validation failed",
			zap.Int("failed_steps", result.FailedSteps))
		return exitCodeError
	}

	logger.Info("Configuration loaded",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.Bool("auth_enabled", config.AuthEnabled()),
		zap.Bool("prefs_enabled", config.PrefsEnabled()),
		zap.String("seed_file", config.SeedFile),
		zap.Float64("fetch_failure_rate", config.FetchFailureRate),
		zap.Bool("dev_mode", config.DevMode),
	)

	manager := shutdown.NewManager(logger.Zap(), shutdown.WithTimeout(config.ShutdownTimeout))
	manager.Start()

	// Preference persistence is optional; the API degrades to 503s without it
	var prefsStore *prefs.Store
	if config.PrefsEnabled() {
		if err := prefs.MigrateUpFromPath(config.PrefsDBPath, config.MigrationsPath); err != nil {
			logger.Error("Failed to migrate preferences database", zap.Error(err))
			return exitCodeError
		}
		db, err := prefs.NewConnectionWithDefaults(config.PrefsDBPath)
		if err != nil {
			logger.Error("Failed to open preferences database", zap.Error(err))
			return exitCodeError
		}
		prefsStore, err = prefs.NewStore(db)
		if err != nil {
			logger.Error("Failed to create preferences store", zap.Error(err))
			db.Close()
			return exitCodeError
		}
		manager.Register("prefs-db", 30, func(ctx context.Context) error {
			return db.Close()
		})
	}

	svc := dataservice.NewService(dataservice.Config{
		FailureRate: config.FetchFailureRate,
	}, logger.Zap())

	registry := actions.NewRegistry(logger.Zap())

	widgets := store.NewStore(newWidgetRefresh(svc, logger.Zap()), logger.Zap())

	seedWidgets, layout, err := loadDashboardSeed(config)
	if err != nil {
		logger.Error("Failed to load dashboard seed", zap.Error(err))
		return exitCodeError
	}
	if err := widgets.InitializeDashboard(seedWidgets); err != nil {
		logger.Error("Failed to initialize dashboard", zap.Error(err))
		return exitCodeError
	}
	if layout != nil {
		widgets.UpdateLayout(*layout)
	}
	logger.Info("Dashboard initialized", zap.Int("widgets", widgets.Count()))

	api := webui.NewDashboardAPI(widgets, svc, registry, prefsStore,
		webui.DefaultDashboardAPIConfig(), logger.Zap())
	broadcaster := webui.NewWebSocketBroadcaster(widgets, logger.Zap())

	var authProvider webui.AuthProvider
	if config.AuthEnabled() {
		authProvider, err = auth.NewAuthMiddleware(config.AuthPassword, logger.Zap())
		if err != nil {
			logger.Error("Failed to initialize authentication", zap.Error(err))
			return exitCodeError
		}
	} else {
		logger.Warn("Running without authentication, set DASHBOARD_PASSWORD to enable")
	}

	serverConfig := webui.DefaultServerConfig()
	serverConfig.Host = config.Host
	serverConfig.Port = config.Port
	server, err := webui.NewServer(serverConfig, api, broadcaster, authProvider, logger.Zap())
	if err != nil {
		logger.Error("Failed to create server", zap.Error(err))
		return exitCodeError
	}
	manager.Register("http", 10, server.Shutdown)

	if config.RefreshInterval > 0 {
		go runAutoRefresh(manager, widgets, config.RefreshInterval, logger.Zap())
		logger.Info("Auto-refresh enabled", zap.Duration("interval", config.RefreshInterval))
	}

	// Stop on parent cancellation as well as on signals
	go func() {
		select {
		case <-parent.Done():
		case <-manager.Context().Done():
		}
		manager.Shutdown()
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(manager.Context())
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			manager.Shutdown()
			return exitCodeError
		}
	case <-manager.Context().Done():
	case <-parent.Done():
	}

	if err := manager.Shutdown(); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
		return exitCodeError
	}
	logger.Info("Goodbye!")
	return exitCodeSuccess
}

// newWidgetRefresh builds the store's refresh function: metrics and charts
// fetch through the data service with bounded retries, tables only simulate
// a round trip since no tabular fixtures exist yet.
func newWidgetRefresh(svc *dataservice.Service, logger *zap.Logger) store.RefreshFunc {
	return func(ctx context.Context, widget store.WidgetRecord) error {
		switch widget.Kind {
		case store.KindMetric:
			_, err := dataservice.RetryRequest(ctx, logger,
				dataservice.DefaultMaxRetries, dataservice.DefaultBaseDelay,
				func(ctx context.Context) (*dataservice.Response[dataservice.MetricPayload], error) {
					return svc.FetchMetric(ctx, widget.DatasetID)
				})
			return err
		case store.KindChart:
			_, err := dataservice.RetryRequest(ctx, logger,
				dataservice.DefaultMaxRetries, dataservice.DefaultBaseDelay,
				func(ctx context.Context) (*dataservice.Response[dataservice.ChartPayload], error) {
					return svc.FetchChart(ctx, widget.DatasetID)
				})
			return err
		default:
			return svc.SimulateWidgetRefresh(ctx, widget.ID)
		}
	}
}

// runAutoRefresh periodically refreshes every widget until shutdown begins.
// Each cycle runs as a tracked operation so shutdown drains an in-flight
// refresh instead of cutting it off.
func runAutoRefresh(manager *shutdown.Manager, widgets *store.Store, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-manager.Context().Done():
			return
		case <-ticker.C:
			err := manager.WrapOperation(manager.Context(), "auto-refresh", func(ctx context.Context) error {
				summary := widgets.RefreshAllWidgets(ctx)
				if summary.Failed > 0 {
					logger.Warn("Auto-refresh cycle had failures",
						zap.Int("failed", summary.Failed),
						zap.Int("successful", summary.Successful))
				}
				return nil
			})
			if err != nil {
				return
			}
		}
	}
}

// loadDashboardSeed returns the configured seed file's widgets, or the
// built-in defaults when no seed file is set.
func loadDashboardSeed(config *Config) ([]store.WidgetRecord, *store.LayoutConfig, error) {
	if config.SeedFile == "" {
		return store.DefaultWidgets(), nil, nil
	}
	return LoadSeed(config.SeedFile)
}
