//go:build unit

package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/lib-wallet/wallet/connectivity"
	"github.com/LerianStudio/lib-wallet/wallet/ledger"
	"github.com/LerianStudio/lib-wallet/wallet/registry"
	"github.com/LerianStudio/lib-wallet/wallet/server"
	"github.com/LerianStudio/lib-wallet/wallet/service"
)

func newTestServer(t *testing.T) (*server.Server, *service.Service) {
	t.Helper()

	transactionRegistry := registry.New()

	balanceLedger := ledger.New()
	require.NoError(t, balanceLedger.SetConfirmed(decimal.NewFromInt(500)))

	walletService, err := service.New(transactionRegistry, balanceLedger, connectivity.NewMonitor())
	require.NoError(t, err)

	httpServer, err := server.New(walletService, nil)
	require.NoError(t, err)

	return httpServer, walletService
}

func doJSON(t *testing.T, httpServer *server.Server, method, target string, payload any) *http.Response {
	t.Helper()

	var body io.Reader

	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)

		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, target, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := httpServer.App().Test(request)
	require.NoError(t, err)

	return response
}

func decodeBody[T any](t *testing.T, response *http.Response) T {
	t.Helper()

	defer func() { _ = response.Body.Close() }()

	var decoded T
	require.NoError(t, json.NewDecoder(response.Body).Decode(&decoded))

	return decoded
}

func TestNewRequiresService(t *testing.T) {
	_, err := server.New(nil, nil)
	require.ErrorIs(t, err, server.ErrServiceRequired)
}

func TestHealth(t *testing.T) {
	httpServer, _ := newTestServer(t)

	response := doJSON(t, httpServer, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	body := decodeBody[map[string]any](t, response)
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, true, body["online"])
}

func TestCreateTransfer(t *testing.T) {
	httpServer, walletService := newTestServer(t)

	response := doJSON(t, httpServer, http.MethodPost, "/v1/transfers", server.CreateTransferRequest{
		Amount:    decimal.NewFromInt(60),
		Recipient: "alice",
	})
	require.Equal(t, http.StatusCreated, response.StatusCode)

	created := decodeBody[registry.Transaction](t, response)
	assert.Equal(t, registry.StatusPending, created.Status)
	assert.Equal(t, "alice", created.Recipient)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.NotEqual(t, uuid.Nil, created.IdempotencyKey)

	assert.True(t, decimal.NewFromInt(440).Equal(walletService.EffectiveBalance()))
}

func TestCreateTransferValidation(t *testing.T) {
	httpServer, _ := newTestServer(t)

	response := doJSON(t, httpServer, http.MethodPost, "/v1/transfers", server.CreateTransferRequest{
		Amount:    decimal.Zero,
		Recipient: "alice",
	})
	require.Equal(t, http.StatusBadRequest, response.StatusCode)

	body := decodeBody[server.ErrorResponse](t, response)
	assert.Equal(t, "invalid_transfer", body.Title)

	response = doJSON(t, httpServer, http.MethodPost, "/v1/transfers", server.CreateTransferRequest{
		Amount: decimal.NewFromInt(10),
	})
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestCreateTransferInsufficientBalance(t *testing.T) {
	httpServer, _ := newTestServer(t)

	response := doJSON(t, httpServer, http.MethodPost, "/v1/transfers", server.CreateTransferRequest{
		Amount:    decimal.NewFromInt(600),
		Recipient: "alice",
	})
	require.Equal(t, http.StatusUnprocessableEntity, response.StatusCode)

	body := decodeBody[server.ErrorResponse](t, response)
	assert.Equal(t, "insufficient_balance", body.Title)
}

func TestBalance(t *testing.T) {
	httpServer, walletService := newTestServer(t)

	ctx := context.Background()
	walletService.SetSimulatedOffline(ctx, true)

	_, err := walletService.EnqueueTransfer(ctx, decimal.NewFromInt(60), "alice")
	require.NoError(t, err)

	response := doJSON(t, httpServer, http.MethodGet, "/v1/balance", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	body := decodeBody[server.BalanceResponse](t, response)
	assert.True(t, decimal.NewFromInt(500).Equal(body.Confirmed))
	assert.True(t, decimal.NewFromInt(440).Equal(body.Effective))
	assert.True(t, decimal.NewFromInt(60).Equal(body.PendingSum))
}

func TestTransactions(t *testing.T) {
	httpServer, walletService := newTestServer(t)

	ctx := context.Background()
	walletService.SetSimulatedOffline(ctx, true)

	created, err := walletService.EnqueueTransfer(ctx, decimal.NewFromInt(60), "alice")
	require.NoError(t, err)

	response := doJSON(t, httpServer, http.MethodGet, "/v1/transactions", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	listed := decodeBody[[]registry.Transaction](t, response)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	response = doJSON(t, httpServer, http.MethodGet, "/v1/transactions/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	fetched := decodeBody[registry.Transaction](t, response)
	assert.Equal(t, created.IdempotencyKey, fetched.IdempotencyKey)
}

func TestGetTransactionErrors(t *testing.T) {
	httpServer, _ := newTestServer(t)

	response := doJSON(t, httpServer, http.MethodGet, "/v1/transactions/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, response.StatusCode)

	response = doJSON(t, httpServer, http.MethodGet, "/v1/transactions/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestSetNetwork(t *testing.T) {
	httpServer, walletService := newTestServer(t)

	response := doJSON(t, httpServer, http.MethodPut, "/v1/network", server.SetNetworkRequest{
		Connected:         true,
		InternetReachable: false,
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	body := decodeBody[map[string]any](t, response)
	assert.Equal(t, false, body["online"])
	assert.False(t, walletService.Online())
}

func TestSetSimulation(t *testing.T) {
	httpServer, walletService := newTestServer(t)

	response := doJSON(t, httpServer, http.MethodPut, "/v1/network/simulation", server.SetSimulationRequest{
		Offline: true,
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	body := decodeBody[map[string]any](t, response)
	assert.Equal(t, false, body["online"])
	assert.Equal(t, true, body["simulatedOffline"])
	assert.True(t, walletService.SimulatedOffline())
}
