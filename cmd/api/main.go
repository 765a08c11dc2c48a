package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/contact-resolver/internal/auth"
	"github.com/octobees/contact-resolver/internal/client"
	"github.com/octobees/contact-resolver/internal/config"
	"github.com/octobees/contact-resolver/internal/database"
	"github.com/octobees/contact-resolver/internal/handler"
	middlewarepkg "github.com/octobees/contact-resolver/internal/middleware"
	"github.com/octobees/contact-resolver/internal/repository"
	"github.com/octobees/contact-resolver/internal/router"
	"github.com/octobees/contact-resolver/internal/service"
	"github.com/octobees/contact-resolver/internal/service/quota"
	"github.com/octobees/contact-resolver/internal/service/waterfall"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	contactsRepo := repository.NewPGXContactsRepository(pool)

	tracker := quota.NewTracker(repository.NewPGXQuotaStore(pool), map[string]int{
		waterfall.ServiceVerifier: cfg.Quotas.Verifier,
		waterfall.ServiceFinder:   cfg.Quotas.Finder,
		waterfall.ServiceLLM:      cfg.Quotas.LLM,
	})

	externalClient := &http.Client{Timeout: 15 * time.Second}
	scraper := client.NewScraperClient(nil, cfg.ScraperBaseURL, time.Second)
	extractor := client.NewLLMClient(nil, cfg.LLMWorkerBaseURL, time.Second)
	verifier := client.NewVerifierClient(externalClient, cfg.VerifierBaseURL, cfg.VerifierAPIKey, time.Second)
	finder := client.NewFinderClient(externalClient, cfg.FinderBaseURL, cfg.FinderAPIKey, time.Second)

	engine := waterfall.NewEngine(scraper, extractor, verifier, finder, tracker,
		waterfall.WithPatternChecks(cfg.PatternChecks))

	intake := service.NewIntakeProcessor(cfg.DefaultPhoneRegion)

	authService := service.NewAuthService(usersRepo, jwtManager)
	contactsService := service.NewContactsService(contactsRepo, intake)
	resolveService := service.NewResolveService(contactsRepo, engine)

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Contacts: handler.NewContactsHandler(contactsService),
		Intake:   handler.NewIntakeHandler(contactsService),
		Resolve:  handler.NewResolveHandler(resolveService),
		Quota:    handler.NewQuotaHandler(tracker),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
