package mt5bridge

import (
	"context"
	"fmt"
	"net/http"

	"fxpilot/internal/logger"
)

type initializeResponse struct {
	Connected bool   `json:"connected"`
	Server    string `json:"server"`
	Login     int64  `json:"login"`
	Currency  string `json:"currency"`
}

// Initialize connects the bridge to its terminal. The trading core only
// requires the resulting "connected" state; credentials and terminal
// discovery are the bridge's concern.
func (c *Client) Initialize(ctx context.Context) error {
	var resp initializeResponse
	if err := c.doRequest(ctx, http.MethodPost, "/initialize", nil, &resp); err != nil {
		return fmt.Errorf("initializing terminal session: %w", err)
	}
	if !resp.Connected {
		return fmt.Errorf("terminal session not connected")
	}
	logger.Infof("connected to %s (login %d, %s)", resp.Server, resp.Login, resp.Currency)
	return nil
}

// Shutdown disconnects the bridge from its terminal.
func (c *Client) Shutdown(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/shutdown", nil, nil); err != nil {
		return fmt.Errorf("shutting down terminal session: %w", err)
	}
	logger.Infof("terminal session closed")
	return nil
}
