package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-resolver/internal/auth"
	"github.com/octobees/contact-resolver/internal/config"
	"github.com/octobees/contact-resolver/internal/handler"
	middlewarepkg "github.com/octobees/contact-resolver/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Contacts *handler.ContactsHandler
	Intake   *handler.IntakeHandler
	Resolve  *handler.ResolveHandler
	Quota    *handler.QuotaHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.GET("/contacts", handlers.Contacts.List)
	secured.GET("/contacts/:id", handlers.Contacts.Get)
	secured.GET("/contacts/:id/export", handlers.Contacts.Export)
	secured.POST("/contacts", handlers.Intake.Create)
	secured.POST("/intake", handlers.Intake.Create)

	resolveLimiter := middlewarepkg.ResolveRateLimiter(cfg.RateLimitResolve)
	secured.POST("/resolve/batch", handlers.Resolve.ResolveBatch, resolveLimiter)
	secured.POST("/resolve/:id", handlers.Resolve.ResolveOne, resolveLimiter)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/quota", handlers.Quota.Status)
	admin.POST("/contacts/import-csv", handlers.Contacts.ImportCSV)
}
