package config

import "strings"

// Config is the top-level configuration carrier for the bot.
type Config struct {
	App      AppConfig      `toml:"app"`
	Bridge   BridgeConfig   `toml:"bridge"`
	Strategy StrategyConfig `toml:"strategy"`
	Trading  TradingConfig  `toml:"trading"`
	Retry    RetryConfig    `toml:"retry"`

	// merged settings as read from disk, kept for the effective-config dump
	settings map[string]any
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// BridgeConfig describes how to reach the MetaTrader REST bridge.
type BridgeConfig struct {
	APIURL         string `toml:"api_url"`
	APIToken       string `toml:"api_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// StrategyConfig drives the SMA crossover evaluation loop.
type StrategyConfig struct {
	Symbol         string          `toml:"symbol"`
	Timeframe      string          `toml:"timeframe"`
	FastPeriod     int             `toml:"fast_period"`
	SlowPeriod     int             `toml:"slow_period"`
	LookbackMargin int             `toml:"lookback_margin"`
	PollSeconds    int             `toml:"poll_seconds"`
	PriceDigits    int             `toml:"price_digits"`
	RSI            RSIFilterConfig `toml:"rsi"`
}

// RSIFilterConfig gates crossover entries on momentum extremes.
type RSIFilterConfig struct {
	Enabled    bool    `toml:"enabled"`
	Period     int     `toml:"period"`
	Overbought float64 `toml:"overbought"`
	Oversold   float64 `toml:"oversold"`
}

// TradingConfig controls sizing and order placement.
type TradingConfig struct {
	RiskPercent     float64 `toml:"risk_percent"` // % of balance risked per trade, 0-100
	SLPips          float64 `toml:"sl_pips"`
	TPPips          float64 `toml:"tp_pips"` // 0 disables the take-profit level
	DeviationPoints int     `toml:"deviation_points"`
	Magic           int64   `toml:"magic"`
	Comment         string  `toml:"comment"`
	DryRun          bool    `toml:"dry_run"`
}

// RetryConfig wraps order submission in a transient-failure retry loop.
type RetryConfig struct {
	Enabled      bool `toml:"enabled"`
	MaxAttempts  int  `toml:"max_attempts"`
	MinBackoffMS int  `toml:"min_backoff_ms"`
	MaxBackoffMS int  `toml:"max_backoff_ms"`
}

// keySet tracks the field paths explicitly set in the config files, so
// defaults never clobber a deliberate zero.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault describes the default rule for a single field.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
