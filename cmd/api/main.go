package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/BlessingGianna7/rest-pms-system/api/controllers"
	"github.com/BlessingGianna7/rest-pms-system/api/routes"
	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	"github.com/BlessingGianna7/rest-pms-system/internal/auth"
	"github.com/BlessingGianna7/rest-pms-system/internal/notifications"
	"github.com/BlessingGianna7/rest-pms-system/internal/slotrequests"
	"github.com/BlessingGianna7/rest-pms-system/internal/slots"
	"github.com/BlessingGianna7/rest-pms-system/internal/users"
	"github.com/BlessingGianna7/rest-pms-system/internal/vehicles"
	"github.com/BlessingGianna7/rest-pms-system/pkg/auth/session"
	"github.com/BlessingGianna7/rest-pms-system/pkg/config"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/metrics"
	"github.com/BlessingGianna7/rest-pms-system/pkg/migrate"
	"github.com/BlessingGianna7/rest-pms-system/pkg/pubsub"
	"github.com/BlessingGianna7/rest-pms-system/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	readiness := map[string]controllers.Pinger{"db": dbClient, "redis": redisClient}

	var notifier notifications.Gateway = notifications.NewLogMailer(cfg.Notifications.FromAddress, logg)
	if cfg.Notifications.UsesPubSub() {
		var psClient *pubsub.Client
		psClient, err = pubsub.NewClient(ctx, cfg.GCP, cfg.Notifications, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, psClient.Close()) }()

		var mailer *notifications.PubSubMailer
		mailer, err = notifications.NewPubSubMailer(psClient.EmailPublisher(), cfg.Notifications.FromAddress, cfg.Notifications.SendTimeout)
		if err != nil {
			return err
		}
		notifier = mailer
		readiness["pubsub"] = psClient
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	audit := auditlog.NewWriter(auditlog.NewRepository(dbClient.DB()), logg)
	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Audit:          audit,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		Notifier:       notifier,
		Audit:          audit,
		Logger:         logg,
		PasswordConfig: cfg.Password,
		OTPConfig:      cfg.OTP,
	})
	if err != nil {
		return err
	}
	userService, err := users.NewService(userRepo, dbClient, audit, cfg.Password)
	if err != nil {
		return err
	}
	vehicleService, err := vehicles.NewService(vehicles.NewRepository(dbClient.DB()), audit)
	if err != nil {
		return err
	}
	slotService, err := slots.NewService(slots.NewRepository(dbClient.DB()), dbClient, audit)
	if err != nil {
		return err
	}
	auditService, err := auditlog.NewService(auditlog.NewRepository(dbClient.DB()), audit)
	if err != nil {
		return err
	}

	var (
		registry       = prometheus.NewRegistry()
		httpMetrics    *metrics.HTTPMetrics
		allocMetrics   *metrics.AllocationMetrics
		metricsHandler http.Handler
	)
	if cfg.FeatureFlags.MetricsEnabled {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		httpMetrics = metrics.NewHTTPMetrics(registry)
		allocMetrics = metrics.NewAllocationMetrics(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	slotRequestService, err := slotrequests.NewService(slotrequests.Options{
		Repo:          slotrequests.NewRepository(dbClient.DB()),
		Tx:            dbClient,
		Notifier:      notifier,
		Audit:         audit,
		Metrics:       allocMetrics,
		Logger:        logg,
		LockTimeout:   cfg.DB.LockTimeout,
		NotifyTimeout: cfg.Notifications.SendTimeout,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":                 cfg.App.Env,
		"addr":                addr,
		"notification_driver": cfg.Notifications.Driver,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			Store:          redisClient,
			Sessions:       sessionManager,
			Readiness:      readiness,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: metricsHandler,
			Auth:           authService,
			Register:       registerService,
			Users:          userService,
			Vehicles:       vehicleService,
			Slots:          slotService,
			SlotRequests:   slotRequestService,
			AuditLogs:      auditService,
		}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
