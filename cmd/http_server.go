package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/deptdesk/api"
	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/analytics"
	analyticsPostgres "github.com/frahmantamala/deptdesk/internal/analytics/postgres"
	"github.com/frahmantamala/deptdesk/internal/auth"
	authPostgres "github.com/frahmantamala/deptdesk/internal/auth/postgres"
	"github.com/frahmantamala/deptdesk/internal/cache"
	"github.com/frahmantamala/deptdesk/internal/category"
	categoryPostgres "github.com/frahmantamala/deptdesk/internal/category/postgres"
	"github.com/frahmantamala/deptdesk/internal/core/events"
	"github.com/frahmantamala/deptdesk/internal/expense"
	expensePostgres "github.com/frahmantamala/deptdesk/internal/expense/postgres"
	"github.com/frahmantamala/deptdesk/internal/issue"
	issuePostgres "github.com/frahmantamala/deptdesk/internal/issue/postgres"
	"github.com/frahmantamala/deptdesk/internal/routing"
	"github.com/frahmantamala/deptdesk/internal/team"
	teamPostgres "github.com/frahmantamala/deptdesk/internal/team/postgres"
	"github.com/frahmantamala/deptdesk/internal/transport"
	"github.com/frahmantamala/deptdesk/internal/transport/rest"
	"github.com/frahmantamala/deptdesk/internal/user"
	userPostgres "github.com/frahmantamala/deptdesk/internal/user/postgres"
	"github.com/frahmantamala/deptdesk/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *gorm.DB
	SQLX    *sqlx.DB
	Cache   *cache.Client
	Bus     *events.EventBus
	Router  *chi.Mux
	Routing *routing.Engine
	Logger  *slog.Logger
}

func (d *Dependencies) Close() {
	d.Bus.Wait()
	if err := d.Cache.Close(); err != nil {
		d.Logger.Error("Cache close error", "error", err)
	}
	if err := d.SQLX.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Close()
	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, sqlxDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cacheClient := cache.New(config.Cache.Addr, config.Cache.Password, config.Cache.DB, lg)

	spec, err := api.Load(context.Background())
	if err != nil {
		return nil, err
	}
	lg.Debug("openapi document loaded", "paths", spec.Paths.Len())

	return WireDependencies(config, db, sqlxDB, cacheClient, lg)
}

// WireDependencies builds every service and handler on top of already open
// connections. cacheClient may be nil.
func WireDependencies(cfg *internal.Config, db *gorm.DB, sqlxDB *sqlx.DB, cacheClient *cache.Client, lg *slog.Logger) (*Dependencies, error) {
	decimal.MarshalJSONWithoutQuotes = true

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	userRepo := userPostgres.NewUserRepository(db)
	issueRepo := issuePostgres.NewIssueRepository(db)

	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(db), lg)
	userService := user.NewService(userRepo, bus, lg)
	teamService := team.NewService(teamPostgres.NewTeamRepository(db), userRepo, lg)
	issueService := issue.NewService(issueRepo, teamService, bus, lg)
	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(db), categoryService, bus, lg)
	authService := auth.NewService(
		authPostgres.NewRepository(db),
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenDuration),
		auth.NewRedisTokenStore(cacheClient),
		bus,
		lg,
		auth.Options{BCryptCost: cfg.Security.BCryptCost, MinPasswordLength: cfg.Security.MinPasswordLength},
	)

	table, err := routing.NewCategoryTable(cfg.Routing.CategoryDepartments, cfg.Routing.DefaultDepartment)
	if err != nil {
		return nil, fmt.Errorf("invalid routing config: %w", err)
	}
	engine := routing.NewEngine(issueRepo, userRepo, table, routing.FirstAvailable, bus, lg)

	analyticsService := analytics.NewService(analyticsPostgres.NewAnalyticsRepository(sqlxDB), cacheClient, cfg.Cache.SummaryTTL, lg)
	analyticsService.Subscribe(bus)

	var cachePinger rest.Pinger
	if cacheClient != nil {
		cachePinger = rest.PingFunc(cacheClient.Ping)
	}

	router := rest.NewRouter(rest.Handlers{
		Auth:       auth.NewHandler(authService),
		Users:      user.NewHandler(userService),
		Teams:      team.NewHandler(teamService),
		Issues:     issue.NewHandler(issueService),
		Routing:    routing.NewHandler(engine),
		Expenses:   expense.NewHandler(expenseService),
		Categories: category.NewHandler(transport.NewBaseHandler(lg), categoryService),
		Analytics:  analytics.NewHandler(analyticsService),
		Health:     rest.NewHealthHandler(sqlxDB, cachePinger),
	}, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenAPISpec:    api.Spec,
	}, lg)

	return &Dependencies{
		Config:  cfg,
		DB:      db,
		SQLX:    sqlxDB,
		Cache:   cacheClient,
		Bus:     bus,
		Router:  router,
		Routing: engine,
		Logger:  lg,
	}, nil
}

// initDB opens one pgx pool shared by gorm and sqlx.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	const driver = "pgx"

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: cfg.GetDSN()}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, sqlx.NewDb(sqlDB, driver), nil
}
