// Package apihttp exposes a small read-only HTTP surface for observing
// the running bot: health, status, account and open positions.
package apihttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fxpilot/internal/broker"
	"fxpilot/internal/logger"
)

// StatusProvider reports the bot's current trading state.
type StatusProvider interface {
	Status() Status
}

// Status is the snapshot served on /api/status.
type Status struct {
	Symbol        string    `json:"symbol"`
	Timeframe     string    `json:"timeframe"`
	DryRun        bool      `json:"dry_run"`
	LastAction    string    `json:"last_action"`
	LastPrice     float64   `json:"last_price"`
	LastEvaluated time.Time `json:"last_evaluated"`
}

// Server wires the observability endpoints onto a gin engine.
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig lists the server's dependencies.
type ServerConfig struct {
	Addr      string
	Provider  StatusProvider
	Account   broker.Account
	Positions broker.Positions
}

// NewServer builds the HTTP server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Provider == nil {
		return nil, errors.New("http server requires a status provider")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9992"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, cfg.Provider.Status())
	})
	api.GET("/signal", func(c *gin.Context) {
		st := cfg.Provider.Status()
		c.JSON(http.StatusOK, gin.H{
			"symbol": st.Symbol,
			"action": st.LastAction,
			"price":  st.LastPrice,
			"at":     st.LastEvaluated,
		})
	})
	api.GET("/account", func(c *gin.Context) {
		if cfg.Account == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "account source not available"})
			return
		}
		balance, err := cfg.Account.Balance(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	})
	api.GET("/positions", func(c *gin.Context) {
		if cfg.Positions == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "position source not available"})
			return
		}
		positions, err := cfg.Positions.ListOpen(c.Request.Context(), c.Query("symbol"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if positions == nil {
			positions = []broker.Position{}
		}
		c.JSON(http.StatusOK, gin.H{"positions": positions, "count": len(positions)})
	})

	return &Server{addr: cfg.Addr, router: router}, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}
