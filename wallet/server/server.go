package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	libLog "github.com/LerianStudio/lib-wallet/wallet/log"
	"github.com/LerianStudio/lib-wallet/wallet/registry"
	"github.com/LerianStudio/lib-wallet/wallet/service"
)

// ErrServiceRequired is returned when no wallet service is provided.
var ErrServiceRequired = errors.New("wallet service is required")

const defaultShutdownTimeout = 5 * time.Second

// Server is the HTTP surface over the wallet service.
type Server struct {
	app     *fiber.App
	service *service.Service
	logger  libLog.Logger
}

// CreateTransferRequest is the transfer submission payload. Amount accepts a
// JSON number or a decimal string.
type CreateTransferRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Recipient string          `json:"recipient"`
}

// SetNetworkRequest is the transport connectivity payload.
type SetNetworkRequest struct {
	Connected         bool `json:"connected"`
	InternetReachable bool `json:"internetReachable"`
}

// SetSimulationRequest is the offline simulation payload.
type SetSimulationRequest struct {
	Offline bool `json:"offline"`
}

// BalanceResponse reports the wallet balances.
type BalanceResponse struct {
	Confirmed  decimal.Decimal `json:"confirmed"`
	Effective  decimal.Decimal `json:"effective"`
	PendingSum decimal.Decimal `json:"pendingSum"`
}

// New creates the HTTP server over the wallet service.
func New(walletService *service.Service, logger libLog.Logger) (*Server, error) {
	if walletService == nil {
		return nil, ErrServiceRequired
	}

	if logger == nil {
		logger = libLog.NewNop()
	}

	server := &Server{
		service: walletService,
		logger:  logger,
	}

	app := fiber.New(fiber.Config{
		AppName:               "lib-wallet",
		DisableStartupMessage: true,
	})

	app.Get("/health", server.handleHealth)

	v1 := app.Group("/v1")
	v1.Post("/transfers", server.handleCreateTransfer)
	v1.Get("/balance", server.handleBalance)
	v1.Get("/transactions", server.handleListTransactions)
	v1.Get("/transactions/:id", server.handleGetTransaction)
	v1.Put("/network", server.handleSetNetwork)
	v1.Put("/network/simulation", server.handleSetSimulation)

	server.app = app

	return server, nil
}

// App returns the underlying fiber application, used by tests.
func (server *Server) App() *fiber.App {
	return server.app
}

// Listen serves HTTP on the given address until Shutdown is called.
func (server *Server) Listen(address string) error {
	return server.app.Listen(address)
}

// Shutdown gracefully stops the server.
func (server *Server) Shutdown(ctx context.Context) error {
	if ctx == nil {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
	}

	return server.app.ShutdownWithContext(ctx)
}

func (server *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "available",
		"online": server.service.Online(),
	})
}

func (server *Server) handleCreateTransfer(c *fiber.Ctx) error {
	var request CreateTransferRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "invalid_payload", "request body must be valid JSON")
	}

	transaction, err := server.service.EnqueueTransfer(c.UserContext(), request.Amount, request.Recipient)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrAmountNotPositive),
			errors.Is(err, registry.ErrRecipientRequired):
			return badRequest(c, "invalid_transfer", err.Error())
		case errors.Is(err, service.ErrInsufficientEffectiveBalance):
			return unprocessableEntity(c, "insufficient_balance", err.Error())
		default:
			server.logger.Log(c.UserContext(), libLog.LevelError, "failed to enqueue transfer", libLog.Err(err))

			return writeError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(transaction)
}

func (server *Server) handleBalance(c *fiber.Ctx) error {
	return c.JSON(BalanceResponse{
		Confirmed:  server.service.ConfirmedBalance(),
		Effective:  server.service.EffectiveBalance(),
		PendingSum: server.service.PendingSum(),
	})
}

func (server *Server) handleListTransactions(c *fiber.Ctx) error {
	return c.JSON(server.service.Transactions())
}

func (server *Server) handleGetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid_transaction_id", "transaction id must be a UUID")
	}

	transaction, err := server.service.Transaction(id)
	if err != nil {
		if errors.Is(err, registry.ErrTransactionNotFound) {
			return notFound(c, "transaction_not_found", err.Error())
		}

		server.logger.Log(c.UserContext(), libLog.LevelError, "failed to load transaction", libLog.Err(err))

		return writeError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}

	return c.JSON(transaction)
}

func (server *Server) handleSetNetwork(c *fiber.Ctx) error {
	var request SetNetworkRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "invalid_payload", "request body must be valid JSON")
	}

	server.service.SetNetwork(c.UserContext(), request.Connected, request.InternetReachable)

	return c.JSON(fiber.Map{"online": server.service.Online()})
}

func (server *Server) handleSetSimulation(c *fiber.Ctx) error {
	var request SetSimulationRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "invalid_payload", "request body must be valid JSON")
	}

	server.service.SetSimulatedOffline(c.UserContext(), request.Offline)

	return c.JSON(fiber.Map{
		"online":           server.service.Online(),
		"simulatedOffline": server.service.SimulatedOffline(),
	})
}
