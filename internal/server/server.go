package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nova-bank/nova_bank/internal/apperr"
	"github.com/nova-bank/nova_bank/internal/config"
	"github.com/nova-bank/nova_bank/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app   *fiber.App
	cfg   config.Config
	db    *pgxpool.Pool
	cache *redis.Client
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler,
	})

	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, db: db, cache: cache}, nil
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders every error as the structured {kind, message, status}
// body. Business outcomes keep their message; anything unexpected is flattened
// so transport-level detail never reaches a caller.
func errorHandler(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	kind := "Internal Error"
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case apperr.IsBusiness(err):
		status = http.StatusBadRequest
		kind = "Business Error"
		message = err.Error()
	case apperr.IsUnavailable(err):
		status = http.StatusBadGateway
		kind = "Bad Gateway"
		message = err.Error()
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
		switch {
		case status == http.StatusUnauthorized:
			kind = "Unauthorized"
		case status >= 400 && status < 500:
			kind = "Business Error"
		default:
			kind = "Internal Error"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"kind":    kind,
		"message": message,
		"status":  status,
	})
}
