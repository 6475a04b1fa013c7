package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxpilot/internal/broker"
)

type stubProvider struct {
	status Status
}

func (s *stubProvider) Status() Status { return s.status }

type stubTerminal struct {
	balance   float64
	balErr    error
	positions []broker.Position
	posErr    error
}

func (s *stubTerminal) Balance(ctx context.Context) (float64, error) {
	return s.balance, s.balErr
}

func (s *stubTerminal) ListOpen(ctx context.Context, symbol string) ([]broker.Position, error) {
	return s.positions, s.posErr
}

func newTestServer(t *testing.T, term *stubTerminal) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		Addr: ":0",
		Provider: &stubProvider{status: Status{
			Symbol:        "EURUSD",
			Timeframe:     "H1",
			LastAction:    "HOLD",
			LastEvaluated: time.Now(),
		}},
		Account:   term,
		Positions: term,
	})
	require.NoError(t, err)
	return srv
}

func doGet(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServer_RequiresProvider(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	rec := doGet(t, newTestServer(t, &stubTerminal{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	rec := doGet(t, newTestServer(t, &stubTerminal{}), "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var got Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "EURUSD", got.Symbol)
	assert.Equal(t, "HOLD", got.LastAction)
}

func TestSignalEndpoint(t *testing.T) {
	rec := doGet(t, newTestServer(t, &stubTerminal{}), "/api/signal")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"action":"HOLD"`)
}

func TestAccountEndpoint(t *testing.T) {
	rec := doGet(t, newTestServer(t, &stubTerminal{balance: 10234.5}), "/api/account")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance": 10234.5}`, rec.Body.String())
}

func TestAccountEndpoint_UpstreamFailure(t *testing.T) {
	rec := doGet(t, newTestServer(t, &stubTerminal{balErr: errors.New("terminal gone")}), "/api/account")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPositionsEndpoint(t *testing.T) {
	term := &stubTerminal{positions: []broker.Position{
		{Ticket: 101, Symbol: "EURUSD", Direction: broker.Buy, Volume: 0.5},
	}}
	rec := doGet(t, newTestServer(t, term), "/api/positions?symbol=EURUSD")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Positions []broker.Position `json:"positions"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, int64(101), got.Positions[0].Ticket)
}

func TestPositionsEndpoint_NilListIsEmptyArray(t *testing.T) {
	rec := doGet(t, newTestServer(t, &stubTerminal{}), "/api/positions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"positions":[]`)
}
