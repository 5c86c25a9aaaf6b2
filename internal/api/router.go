package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/palaup/jobboard/docs"
	"github.com/palaup/jobboard/internal/api/handler"
	"github.com/palaup/jobboard/internal/api/middleware"
	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

// Deps carries everything the HTTP layer needs. Services are built by the
// caller so tests can wire in-memory stores.
type Deps struct {
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Profiles      ports.ProfileService
	Jobs          ports.JobService
	Health        map[string]handler.Pinger

	CORSOrigins []string
	LoginRate   float64 // requests per second per client IP; <= 0 disables the limiter
	LoginBurst  int

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "jobboard",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(d.Auth)
	employeeHandler := handler.NewEmployeeHandler(d.Profiles, d.Jobs)
	companyHandler := handler.NewCompanyHandler(d.Profiles, d.Jobs)
	jobHandler := handler.NewJobHandler(d.Jobs)
	adminHandler := handler.NewAdminHandler(d.Auth)
	healthHandler := handler.NewHealthHandler(d.Health)

	requireAuth := middleware.RequireAuth(d.Authenticator)
	optionalAuth := middleware.OptionalAuth(d.Authenticator)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register/employee", authHandler.RegisterEmployee)
	auth.POST("/register/company", authHandler.RegisterCompany)
	auth.POST("/login", authHandler.Login, loginLimiter(d.LoginRate, d.LoginBurst)...)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.PUT("/password", authHandler.ChangePassword, requireAuth)

	// --- Public job board ---
	jobs := e.Group("/jobs", optionalAuth)
	jobs.GET("", jobHandler.List)
	jobs.GET("/featured", jobHandler.Featured)
	jobs.GET("/stats/overview", jobHandler.Stats)
	jobs.GET("/:id", jobHandler.Get)

	// --- Employee ---
	emp := e.Group("/employee", middleware.RequireRole(d.Authenticator, domain.RoleEmployee))
	emp.GET("/profile", employeeHandler.GetProfile)
	emp.PUT("/profile", employeeHandler.UpdateProfile)
	emp.PUT("/skills", employeeHandler.UpdateSkills)
	emp.PUT("/languages", employeeHandler.UpdateLanguages)
	emp.PUT("/avatar", employeeHandler.UpdateAvatar)
	emp.POST("/jobs/:id/apply", employeeHandler.Apply)
	emp.GET("/applications", employeeHandler.Applications)
	emp.GET("/saved-jobs", employeeHandler.SavedJobs)
	emp.POST("/saved-jobs/:id", employeeHandler.ToggleSaved)

	// --- Company ---
	co := e.Group("/company", middleware.RequireRole(d.Authenticator, domain.RoleCompany))
	co.GET("/profile", companyHandler.GetProfile)
	co.PUT("/profile", companyHandler.UpdateProfile)
	co.PUT("/specialties", companyHandler.UpdateSpecialties)
	co.PUT("/benefits", companyHandler.UpdateBenefits)
	co.PUT("/logo", companyHandler.UpdateLogo)
	co.POST("/jobs", companyHandler.CreateJob)
	co.GET("/jobs", companyHandler.ListJobs)
	co.PUT("/jobs/:id", companyHandler.UpdateJob)
	co.DELETE("/jobs/:id", companyHandler.DeleteJob)
	co.GET("/jobs/:id/applications", companyHandler.JobApplications)
	co.PATCH("/jobs/:id/applications/:appId", companyHandler.UpdateApplicationStatus)

	// --- Admin ---
	admin := e.Group("/admin", middleware.RequireRole(d.Authenticator, domain.RoleAdmin))
	admin.PATCH("/accounts/:id/active", adminHandler.SetActive)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func loginLimiter(r float64, burst int) []echo.MiddlewareFunc {
	if r <= 0 {
		return nil
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(r),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiter(store)}
}
