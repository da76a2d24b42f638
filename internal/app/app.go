package app

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"net/http"

	"github.com/avinassh/rtiman/config"
	accountMongoRepo "github.com/avinassh/rtiman/internal/accountrepo/mongo"
	accountPostgresRepo "github.com/avinassh/rtiman/internal/accountrepo/postgres"
	"github.com/avinassh/rtiman/internal/accountservice"
	"github.com/avinassh/rtiman/internal/auth"
	"github.com/avinassh/rtiman/internal/funding"
	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/middleware"
	"github.com/avinassh/rtiman/internal/routes"
	rtiMongoRepo "github.com/avinassh/rtiman/internal/rtirepo/mongo"
	rtiPostgresRepo "github.com/avinassh/rtiman/internal/rtirepo/postgres"
	"github.com/avinassh/rtiman/internal/rtiservice"
	"github.com/avinassh/rtiman/internal/server"
	"github.com/avinassh/rtiman/pkg/databases/mongo"
	"github.com/avinassh/rtiman/pkg/databases/postgres"
	"github.com/avinassh/rtiman/pkg/metrics"
	"github.com/avinassh/rtiman/pkg/zerolog"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// App represents the main application, containing server and configuration.
// It initializes with a config file, validates settings, and manages routes.
type App struct {
	Server     interfaces.Server
	Config     *config.ServiceConfig
	Logger     interfaces.Logger
	privateKey *ecdsa.PrivateKey
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
	}

	// Validate the configuration
	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		errors := err.(structValidator.ValidationErrors)
		return nil, fmt.Errorf("validation error: %s", errors)
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)
	app.Logger = logger

	app.Server = server.NewServer(cfg.Host, cfg.Port, logger)

	metricsInstance := app.initializeMetrics()

	if err := app.initializePrivateKey(); err != nil {
		return nil, fmt.Errorf("failed to initialize private key: %v", err)
	}

	dbClient, err := app.initializeDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %v", err)
	}

	accountRepo, rtiRepo, err := app.initializeRepos(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %v", err)
	}

	accountService := accountservice.NewAccountService(accountRepo, logger, cfg.Signup.StartingCredits)
	rtiService := rtiservice.NewRTIService(rtiRepo, logger)
	fundingService := funding.NewService(accountRepo, rtiRepo, logger,
		cfg.Funding.MinimumAmount, cfg.Funding.MaxAttempts)

	route := routes.NewRoute(metricsInstance, accountService, rtiService, fundingService,
		app.privateKey, logger, validator)

	metricsHandler := promhttp.HandlerFor(
		metricsInstance.GetRegistry(),
		promhttp.HandlerOpts{})
	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)

	// Login and fund share one bucket; see middleware.RateLimitMiddleware.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	limited := middleware.RateLimitMiddleware(limiter)

	routeTable := map[string]func(http.ResponseWriter, *http.Request){
		routes.MetricsRouteAPI: tracedMetricsHandler.ServeHTTP,
		routes.SignupRouteAPI:  route.Signup,
		routes.LoginRouteAPI:   limited(http.HandlerFunc(route.Login)).ServeHTTP,
		routes.LogoutRouteAPI:  route.Logout,
		routes.MeRouteAPI:      route.Me,
		routes.RTIRouteAPI:     route.RTI,
		routes.RTIItemRouteAPI: route.RTIDisplay,
		routes.FundRouteAPI:    limited(http.HandlerFunc(route.Fund)).ServeHTTP,
	}

	for pattern, handler := range routeTable {
		if err := app.Server.AddRoute(pattern, handler); err != nil {
			return nil, fmt.Errorf("failed to add route %s: %v", pattern, err)
		}
	}

	return app, nil
}

func (app *App) Run() error {
	// start the server
	if err := app.Server.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}

	return nil
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)

	appMetrics.RegisterCounter(routes.SignupRequestsTotal, routes.SignupRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.SignupSuccessTotal, routes.SignupSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.SignupErrorsTotal, routes.SignupErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.SignupDurationSeconds,
		routes.SignupDurationSecondsHelp,
		routes.SignupDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.LoginRequestsTotal, routes.LoginRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.LoginSuccessTotal, routes.LoginSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.LoginFailedTotal, routes.LoginFailedTotalHelp)
	appMetrics.RegisterHistogram(
		routes.LoginDurationSeconds,
		routes.LoginDurationSecondsHelp,
		routes.LoginDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.RTICreatedTotal, routes.RTICreatedTotalHelp)

	appMetrics.RegisterCounter(routes.FundRequestsTotal, routes.FundRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.FundSuccessTotal, routes.FundSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.FundRejectedTotal, routes.FundRejectedTotalHelp)
	appMetrics.RegisterCounter(routes.FundConflictTotal, routes.FundConflictTotalHelp)
	appMetrics.RegisterHistogram(
		routes.FundDurationSeconds,
		routes.FundDurationSecondsHelp,
		routes.FundDurationSecondsBuckets)

	return appMetrics
}

func (app *App) initializeDBClient() (interfaces.DBClient, error) {
	var dbClient interfaces.DBClient
	var err error

	switch app.Config.Database.Type {
	case "mongo":
		dbClient, err = mongo.NewMongoDB(&app.Config.Database.MongoDB, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %v", err)
		}

		if err = dbClient.Connect(context.Background(), app.Config.Database.MongoDB.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
		}

	case "postgres":
		dbClient = postgres.NewPostgresDatabaseClient(&app.Config.Database.Postgres, app.Logger)

		if err = dbClient.Connect(context.Background(), app.Config.Database.Postgres.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	return dbClient, nil
}

func (app *App) initializeRepos(dbClient interfaces.DBClient) (interfaces.AccountRepository, interfaces.RTIRequestRepository, error) {
	var accountRepo interfaces.AccountRepository
	var rtiRepo interfaces.RTIRequestRepository
	var err error

	switch app.Config.Database.Type {
	case "mongo":
		accountRepo, err = accountMongoRepo.NewMongoAccountRepository(dbClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MongoDB account repository: %v", err)
		}
		rtiRepo, err = rtiMongoRepo.NewMongoRTIRepository(dbClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MongoDB rti repository: %v", err)
		}

	case "postgres":
		accountRepo, err = accountPostgresRepo.NewPostgresAccountRepository(dbClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL account repository: %v", err)
		}
		rtiRepo, err = rtiPostgresRepo.NewPostgresRTIRepository(dbClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL rti repository: %v", err)
		}

	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	// Bootstrap the unique username index and the rti table/index.
	if err = accountRepo.EnsureIndices(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure account indices: %v", err)
	}
	if err = rtiRepo.EnsureIndices(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure rti indices: %v", err)
	}

	return accountRepo, rtiRepo, nil
}

func (app *App) initializePrivateKey() error {
	if app.Config.PrivateKeyPath == "" {
		return fmt.Errorf("private key path is not provided in the configuration")
	}

	privateKey, err := auth.LoadECDSAPrivateKey(app.Config.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load private key: %v", err)
	}

	app.privateKey = privateKey
	return nil
}
