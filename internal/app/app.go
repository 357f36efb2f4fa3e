package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/forexai/internal/common"
	"github.com/ternarybob/forexai/internal/fred"
	"github.com/ternarybob/forexai/internal/handlers"
	"github.com/ternarybob/forexai/internal/interfaces"
	"github.com/ternarybob/forexai/internal/services/events"
	"github.com/ternarybob/forexai/internal/services/llm"
	"github.com/ternarybob/forexai/internal/services/reports"
	"github.com/ternarybob/forexai/internal/services/scheduler"
	badgerstore "github.com/ternarybob/forexai/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	DB          *badgerstore.BadgerDB
	ReportCache interfaces.ReportCache

	EventService     interfaces.EventService
	ProviderFactory  *llm.ProviderFactory
	FredClient       *fred.Client
	ReportService    interfaces.ReportService
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	ReportHandler *handlers.ReportHandler
	WSHandler     *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	db, err := badgerstore.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db
	app.ReportCache = badgerstore.NewReportCacheStorage(db, logger)

	app.EventService = events.NewService(logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, logger)

	app.ProviderFactory = llm.NewProviderFactory(&cfg.Claude, &cfg.Gemini, &cfg.LLM, logger)
	if !app.ProviderFactory.Configured() {
		logger.Warn().Msg("No AI provider configured, reports will use fallback content")
	}

	var indicators interfaces.IndicatorSource
	if cfg.FRED.APIKey != "" {
		app.FredClient = fred.NewClient(cfg.FRED.APIKey,
			fred.WithBaseURL(cfg.FRED.BaseURL),
			fred.WithLogger(logger),
			fred.WithRateLimit(cfg.FRED.RateLimit),
		)
		indicators = app.FredClient
	} else {
		logger.Warn().Msg("No FRED API key configured, reports will omit economic data")
	}

	app.ReportService = reports.NewService(
		app.ReportCache,
		app.ProviderFactory,
		indicators,
		app.EventService,
		logger,
	)

	app.SchedulerService = scheduler.NewService(app.ReportService, logger)

	app.APIHandler = handlers.NewAPIHandler()
	app.ReportHandler = handlers.NewReportHandler(app.ReportService, logger)

	logger.Info().Msg("Application initialized")
	return app, nil
}

// Start launches background services.
func (a *App) Start() error {
	if a.Config.Scheduler.Enabled {
		if err := a.SchedulerService.Start(a.Config.Scheduler.Schedule); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	} else {
		a.Logger.Info().Msg("Scheduler disabled by configuration")
	}
	return nil
}

// Close shuts down services and storage in reverse dependency order.
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduler stop failed")
		}
	}

	if a.WSHandler != nil {
		a.WSHandler.Close()
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Event service close failed")
		}
	}

	if a.ProviderFactory != nil {
		if err := a.ProviderFactory.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Provider factory close failed")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	a.Logger.Info().Msg("Application shut down")
	return nil
}
