// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "hawala-backoffice/internal/api"
	"hawala-backoffice/internal/api/handler"
	"hawala-backoffice/internal/config"
	"hawala-backoffice/internal/conversion"
	"hawala-backoffice/internal/repository"
	"hawala-backoffice/internal/repository/postgres"
	"hawala-backoffice/internal/service"
	"hawala-backoffice/internal/util"
	"hawala-backoffice/migrations"
	"hawala-backoffice/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	CurrencyRepository          repository.CurrencyRepository
	ExchangerRepository         repository.ExchangerRepository
	SupportedCurrencyRepository repository.SupportedCurrencyRepository
	ProvinceRepository          repository.ProvinceRepository
	CustomerRepository          repository.CustomerRepository
	BalanceRepository           repository.BalanceRepository
	TransactionRepository       repository.TransactionRepository
	HawalaRepository            repository.HawalaRepository
	ClaimRepository             repository.ClaimRepository

	// Services
	CurrencyService  service.CurrencyService
	Converter        conversion.Service
	LedgerService    service.LedgerService
	HawalaService    service.HawalaService
	ExchangerService service.ExchangerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.MigrateOnStart {
		if err := db.Migrate(app.DB.DB, migrations.FS, cfg.DB.DBName, app.Logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// 4. Initialize Repositories
	app.CurrencyRepository = postgres.NewCurrencyRepository()
	app.ExchangerRepository = postgres.NewExchangerRepository()
	app.SupportedCurrencyRepository = postgres.NewSupportedCurrencyRepository()
	app.ProvinceRepository = postgres.NewProvinceRepository()
	app.CustomerRepository = postgres.NewCustomerRepository()
	app.BalanceRepository = postgres.NewBalanceRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()
	app.HawalaRepository = postgres.NewHawalaRepository()
	app.ClaimRepository = postgres.NewClaimRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	app.CurrencyService = service.NewCurrencyService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.CurrencyRepository,
		app.Logger,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Converter = conversion.NewLoggingService(app.Logger, conversion.NewService(app.CurrencyService))
	app.LedgerService = service.NewLedgerService(
		app.DB,
		app.DB,
		app.CurrencyService,
		app.ExchangerRepository,
		app.CustomerRepository,
		app.BalanceRepository,
		app.TransactionRepository,
		cfg.PrimaryCurrencyCode,
		app.Logger,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.HawalaService = service.NewHawalaService(
		app.DB,
		app.DB,
		app.CurrencyService,
		app.HawalaRepository,
		app.ClaimRepository,
		app.ProvinceRepository,
		app.ExchangerRepository,
		cfg.HawalaNumberRetries,
		app.Logger,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.ExchangerService = service.NewExchangerService(
		app.DB,
		app.CurrencyService,
		app.ExchangerRepository,
		app.SupportedCurrencyRepository,
		app.ProvinceRepository,
		cfg.BcryptCost,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	if def, err := app.CurrencyService.GetDefault(ctx); err != nil {
		app.Logger.Warn("Could not read default currency", "error", err)
	} else if def == nil {
		app.Logger.Warn("No default currency configured; conversions will fail until one is set")
	} else {
		app.Logger.Info("Default currency", "code", def.Code)
	}

	// 6. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Currency:  handler.NewCurrencyHandler(app.CurrencyService, app.Converter, app.Logger),
		Ledger:    handler.NewLedgerHandler(app.LedgerService, app.Logger),
		Hawala:    handler.NewHawalaHandler(app.HawalaService, app.Logger),
		Exchanger: handler.NewExchangerHandler(app.ExchangerService, app.Logger),
	}, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
