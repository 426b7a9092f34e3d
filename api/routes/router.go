package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BlessingGianna7/rest-pms-system/api/controllers"
	"github.com/BlessingGianna7/rest-pms-system/api/middleware"
	"github.com/BlessingGianna7/rest-pms-system/internal/auditlog"
	"github.com/BlessingGianna7/rest-pms-system/internal/auth"
	"github.com/BlessingGianna7/rest-pms-system/internal/slotrequests"
	"github.com/BlessingGianna7/rest-pms-system/internal/slots"
	"github.com/BlessingGianna7/rest-pms-system/internal/users"
	"github.com/BlessingGianna7/rest-pms-system/internal/vehicles"
	"github.com/BlessingGianna7/rest-pms-system/pkg/access"
	"github.com/BlessingGianna7/rest-pms-system/pkg/config"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/metrics"
)

// Store backs rate limiting and idempotency. *redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// Deps collects everything the router mounts. A nil Store disables rate
// limiting and idempotency; a nil MetricsHandler leaves /metrics unmounted.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	Store          Store
	Sessions       middleware.SessionChecker
	Readiness      map[string]controllers.Pinger
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth         auth.Service
	Register     auth.RegisterService
	Users        users.Service
	Vehicles     vehicles.Service
	Slots        slots.Service
	SlotRequests slotrequests.Service
	AuditLogs    auditlog.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var (
		loginLimit    = func(h http.Handler) http.Handler { return h }
		registerLimit = loginLimit
		otpLimit      = loginLimit
		idempotency   = middleware.Idempotency(nil, logg)
	)
	if d.Store != nil {
		loginLimit = middleware.AuthRateLimit(middleware.LoginPolicy(cfg.AuthRateLimit), d.Store, logg)
		registerLimit = middleware.AuthRateLimit(middleware.RegisterPolicy(cfg.AuthRateLimit), d.Store, logg)
		otpLimit = middleware.AuthRateLimit(middleware.OTPPolicy(cfg.AuthRateLimit), d.Store, logg)
		idempotency = middleware.Idempotency(d.Store, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.Readiness, logg))
	})
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}

	requireAuth := middleware.Auth(cfg.JWT, d.Sessions, logg)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(registerLimit).Post("/register", controllers.AuthRegister(d.Register, logg))
		r.With(otpLimit).Post("/verify-otp", controllers.AuthVerifyOTP(d.Register, logg))
		r.With(otpLimit).Post("/resend-otp", controllers.AuthResendOTP(d.Register, logg))
		r.With(loginLimit).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.With(requireAuth).Post("/logout", controllers.AuthLogout(d.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UserProfile(d.Users, logg))
			r.Put("/me", controllers.UserUpdateProfile(d.Users, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(access.ManageUsers, logg))
				r.Get("/", controllers.UserList(d.Users, logg))
				r.Delete("/{id}", controllers.UserDelete(d.Users, logg))
			})
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Post("/", controllers.VehicleCreate(d.Vehicles, logg))
			r.Get("/", controllers.VehicleList(d.Vehicles, logg))
			r.Get("/{id}", controllers.VehicleGet(d.Vehicles, logg))
			r.Put("/{id}", controllers.VehicleUpdate(d.Vehicles, logg))
			r.Delete("/{id}", controllers.VehicleDelete(d.Vehicles, logg))
		})

		r.Route("/parking-slots", func(r chi.Router) {
			r.Get("/", controllers.SlotList(d.Slots, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(access.ManageSlots, logg))
				r.With(idempotency).Post("/bulk", controllers.SlotBulkCreate(d.Slots, logg))
				r.Put("/{id}", controllers.SlotUpdate(d.Slots, logg))
				r.Delete("/{id}", controllers.SlotDelete(d.Slots, logg))
			})
		})

		r.Route("/slot-requests", func(r chi.Router) {
			r.With(idempotency).Post("/", controllers.SlotRequestCreate(d.SlotRequests, logg))
			r.Get("/", controllers.SlotRequestList(d.SlotRequests, logg))
			r.Put("/{id}", controllers.SlotRequestUpdate(d.SlotRequests, logg))
			r.Delete("/{id}", controllers.SlotRequestDelete(d.SlotRequests, logg))
			r.With(middleware.RequireCapability(access.ApproveRequests, logg)).
				Put("/{id}/approve", controllers.SlotRequestApprove(d.SlotRequests, logg))
			r.With(middleware.RequireCapability(access.RejectRequests, logg)).
				Put("/{id}/reject", controllers.SlotRequestReject(d.SlotRequests, logg))
		})

		r.With(middleware.RequireCapability(access.ViewAuditLogs, logg)).
			Get("/logs", controllers.AuditLogList(d.AuditLogs, logg))
	})

	return r
}
