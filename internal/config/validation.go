package config

import (
	"fmt"
	"strings"

	"fxpilot/internal/broker"
)

func validate(c *Config) error {
	if err := c.Bridge.validate(); err != nil {
		return err
	}
	if err := c.Strategy.validate(); err != nil {
		return err
	}
	if err := c.Trading.validate(); err != nil {
		return err
	}
	return nil
}

func (b *BridgeConfig) validate() error {
	if strings.TrimSpace(b.APIURL) == "" {
		return fmt.Errorf("bridge.api_url cannot be empty")
	}
	return nil
}

func (s *StrategyConfig) validate() error {
	if strings.TrimSpace(s.Symbol) == "" {
		return fmt.Errorf("strategy.symbol cannot be empty")
	}
	if _, err := broker.ParseTimeframe(s.Timeframe); err != nil {
		return fmt.Errorf("strategy.timeframe: %w", err)
	}
	if s.FastPeriod <= 0 {
		return fmt.Errorf("strategy.fast_period must be > 0")
	}
	if s.SlowPeriod <= s.FastPeriod {
		return fmt.Errorf("strategy.slow_period must be greater than fast_period")
	}
	if s.RSI.Enabled {
		if s.RSI.Period <= 0 {
			return fmt.Errorf("strategy.rsi.period must be > 0")
		}
		if s.RSI.Oversold >= s.RSI.Overbought {
			return fmt.Errorf("strategy.rsi.oversold must be below overbought")
		}
	}
	return nil
}

func (t *TradingConfig) validate() error {
	if t.RiskPercent <= 0 || t.RiskPercent > 100 {
		return fmt.Errorf("trading.risk_percent must be in (0,100]")
	}
	if t.SLPips <= 0 {
		return fmt.Errorf("trading.sl_pips must be > 0")
	}
	if t.TPPips < 0 {
		return fmt.Errorf("trading.tp_pips cannot be negative")
	}
	if t.DeviationPoints < 0 {
		return fmt.Errorf("trading.deviation_points cannot be negative")
	}
	return nil
}
