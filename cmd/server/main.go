package main // Entry point package

import (
	"context"
	"log" // Logging library
	"time"

	"github.com/joho/godotenv"    // .env autoloading for development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/helpdesk/internal/config"
	"github.com/iliyamo/helpdesk/internal/database"
	"github.com/iliyamo/helpdesk/internal/handler"
	"github.com/iliyamo/helpdesk/internal/mailer"
	"github.com/iliyamo/helpdesk/internal/queue"
	"github.com/iliyamo/helpdesk/internal/ratelimit"
	"github.com/iliyamo/helpdesk/internal/repository"
	"github.com/iliyamo/helpdesk/internal/router"
)

func main() {
	_ = godotenv.Load() // absent .env is fine in prod; env vars win either way

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	migrateCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tickets := repository.NewTicketRepo(db)
	categories := repository.NewCategoryRepo(db)

	// The limiter backend is chosen by config: the in-process map for a
	// single instance, Redis when login throttling must be shared.
	var limiter ratelimit.Limiter
	if rlCfg.Backend == "redis" {
		if rdb := config.NewRedisClient(); rdb != nil {
			limiter = ratelimit.NewRedis(rdb, rlCfg.Prefix)
			log.Printf("rate limiter: redis backend")
		} else {
			log.Printf("rate limiter: redis unavailable, falling back to memory")
		}
	}
	if limiter == nil {
		limiter = ratelimit.NewMemory(rlCfg.SweepInterval)
	}

	mail := mailer.NewFromEnv()
	if !mail.Configured() {
		log.Printf("mailer: SMTP not configured, codes and notifications will be logged")
	}

	// Background consumer for ticket.created notifications.
	go func() {
		if err := queue.StartTicketConsumer(mail); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, rlCfg, users, tokens, limiter, mail)
	ticketH := handler.NewTicketHandler(cfg, tickets, categories)
	categoryH := handler.NewCategoryHandler(categories)
	uploadH := handler.NewUploadHandler(cfg)

	e := echo.New() // Create Echo instance
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, users)
	router.RegisterTickets(e, ticketH, uploadH, cfg.JWTSecret, users)
	router.RegisterAdmin(e, categoryH, cfg.JWTSecret, users)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
