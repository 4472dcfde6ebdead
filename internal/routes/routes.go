package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nova-bank/nova_bank/internal/accounts"
	"github.com/nova-bank/nova_bank/internal/blocker"
	"github.com/nova-bank/nova_bank/internal/cash"
	"github.com/nova-bank/nova_bank/internal/config"
	"github.com/nova-bank/nova_bank/internal/exchange"
	"github.com/nova-bank/nova_bank/internal/middleware"
	"github.com/nova-bank/nova_bank/internal/notification"
	"github.com/nova-bank/nova_bank/internal/stream"
	"github.com/nova-bank/nova_bank/internal/transfer"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Collaborator clients. The ledger is always remote; the fraud gate and
	// the converter are remote only when a URL is configured, otherwise the
	// in-process variants serve.
	accountsClient := accounts.NewHTTPClient(d.Cfg.AccountsURL, d.Cfg.ClientTimeout, d.Logger)

	blockerSvc := blocker.NewService(d.Cfg.BlockerMaxAmount, d.Cfg.BlockerProbability)
	var gate blocker.Gate = blockerSvc
	if d.Cfg.BlockerURL != "" {
		gate = blocker.NewHTTPGate(d.Cfg.BlockerURL, d.Cfg.ClientTimeout, d.Cfg.BlockerFailClosed, d.Logger)
	}

	var rateRepo exchange.Repository
	if d.DB != nil {
		rateRepo = exchange.NewPostgresRepository(d.DB)
	} else {
		rateRepo = exchange.NewMemoryRepository()
	}
	exchangeSvc := exchange.NewService(rateRepo, d.Logger)
	var converter exchange.Converter = exchangeSvc
	if d.Cfg.ExchangeURL != "" {
		converter = exchange.NewHTTPConverter(d.Cfg.ExchangeURL, d.Cfg.ClientTimeout, d.Logger)
	}

	var notifier notification.Publisher = notification.NewStreamPublisher(stream.NewProducer(d.Cache), d.Logger)

	var cashRepo cash.Repository
	var transferRepo transfer.Repository
	var inboxRepo notification.Repository
	if d.DB != nil {
		cashRepo = cash.NewPostgresRepository(d.DB)
		transferRepo = transfer.NewPostgresRepository(d.DB)
		inboxRepo = notification.NewPostgresRepository(d.DB)
	} else {
		cashRepo = cash.NewMemoryRepository()
		transferRepo = transfer.NewMemoryRepository()
		inboxRepo = notification.NewMemoryRepository()
	}

	cashSvc := cash.NewService(accountsClient, gate, cashRepo, notifier, d.Logger)
	transferSvc := transfer.NewService(accountsClient, gate, converter, transferRepo, notifier, d.Logger)
	notificationSvc := notification.NewService(inboxRepo, d.Logger)

	cashHandler := cash.NewHandler(cashSvc)
	transferHandler := transfer.NewHandler(transferSvc)
	exchangeHandler := exchange.NewHandler(exchangeSvc)
	blockerHandler := blocker.NewHandler(blockerSvc)
	notificationHandler := notification.NewHandler(notificationSvc)

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Service-to-service endpoints.
	RegisterExchangeRoutes(api, exchangeHandler)
	RegisterBlockerRoutes(api, blockerHandler)

	// Money movement and the inbox require an authenticated caller.
	protected := api.Group("", middleware.Auth(d.Cfg.JWTSecret))
	RegisterCashRoutes(protected, cashHandler)
	RegisterTransferRoutes(protected, transferHandler)
	RegisterNotificationRoutes(protected, notificationHandler)

	return nil
}
