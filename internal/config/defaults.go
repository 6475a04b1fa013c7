package config

import "strings"

const (
	defaultAppEnv        = "dev"
	defaultAppLogLevel   = "info"
	defaultAppHTTPAddr   = ":9992"
	defaultAppLogPath    = "logs/fxpilot.log"
	defaultBridgeAPI     = "http://127.0.0.1:5000"
	defaultBridgeTimeout = 15
	defaultSymbol        = "EURUSD"
	defaultTimeframe     = "H1"
	defaultFastPeriod    = 10
	defaultSlowPeriod    = 50
	defaultLookback      = 5
	defaultPollSeconds   = 60
	defaultPriceDigits   = 5
	defaultRSIPeriod     = 14
	defaultRSIOverbought = 70
	defaultRSIOversold   = 30
	defaultRiskPercent   = 1.0
	defaultSLPips        = 50
	defaultTPPips        = 100
	defaultDeviation     = 20
	defaultMagic         = 246800
	defaultComment       = "fxpilot"
	defaultRetryAttempts = 3
	defaultRetryMinMS    = 500
	defaultRetryMaxMS    = 10000
)

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Bridge.applyDefaults(keys)
	c.Strategy.applyDefaults(keys)
	c.Trading.applyDefaults(keys)
	c.Retry.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
	)
}

func (b *BridgeConfig) applyDefaults(keys keySet) {
	if b == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("bridge.api_url", &b.APIURL, defaultBridgeAPI),
		fieldDefault{
			key:   "bridge.timeout_seconds",
			need:  func() bool { return b.TimeoutSeconds <= 0 },
			apply: func() { b.TimeoutSeconds = defaultBridgeTimeout },
		},
	)
}

func (s *StrategyConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("strategy.symbol", &s.Symbol, defaultSymbol),
		stringFieldDefault("strategy.timeframe", &s.Timeframe, defaultTimeframe),
		fieldDefault{
			key:   "strategy.fast_period",
			need:  func() bool { return s.FastPeriod <= 0 },
			apply: func() { s.FastPeriod = defaultFastPeriod },
		},
		fieldDefault{
			key:   "strategy.slow_period",
			need:  func() bool { return s.SlowPeriod <= 0 },
			apply: func() { s.SlowPeriod = defaultSlowPeriod },
		},
		fieldDefault{
			key:   "strategy.lookback_margin",
			need:  func() bool { return s.LookbackMargin <= 0 },
			apply: func() { s.LookbackMargin = defaultLookback },
		},
		fieldDefault{
			key:   "strategy.poll_seconds",
			need:  func() bool { return s.PollSeconds <= 0 },
			apply: func() { s.PollSeconds = defaultPollSeconds },
		},
		fieldDefault{
			key:   "strategy.price_digits",
			need:  func() bool { return s.PriceDigits <= 0 },
			apply: func() { s.PriceDigits = defaultPriceDigits },
		},
	)
	s.RSI.applyDefaults(keys)
	s.Symbol = strings.ToUpper(strings.TrimSpace(s.Symbol))
	s.Timeframe = strings.ToUpper(strings.TrimSpace(s.Timeframe))
}

func (r *RSIFilterConfig) applyDefaults(keys keySet) {
	if r == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "strategy.rsi.period",
			need:  func() bool { return r.Period <= 0 },
			apply: func() { r.Period = defaultRSIPeriod },
		},
		fieldDefault{
			key:   "strategy.rsi.overbought",
			need:  func() bool { return r.Overbought <= 0 },
			apply: func() { r.Overbought = defaultRSIOverbought },
		},
		fieldDefault{
			key:   "strategy.rsi.oversold",
			need:  func() bool { return r.Oversold <= 0 },
			apply: func() { r.Oversold = defaultRSIOversold },
		},
	)
}

func (t *TradingConfig) applyDefaults(keys keySet) {
	if t == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("trading.comment", &t.Comment, defaultComment),
		fieldDefault{
			key:   "trading.risk_percent",
			need:  func() bool { return t.RiskPercent <= 0 },
			apply: func() { t.RiskPercent = defaultRiskPercent },
		},
		fieldDefault{
			key:   "trading.sl_pips",
			need:  func() bool { return t.SLPips <= 0 },
			apply: func() { t.SLPips = defaultSLPips },
		},
		fieldDefault{
			key:   "trading.tp_pips",
			need:  func() bool { return t.TPPips < 0 },
			apply: func() { t.TPPips = defaultTPPips },
		},
		fieldDefault{
			key:   "trading.deviation_points",
			need:  func() bool { return t.DeviationPoints <= 0 },
			apply: func() { t.DeviationPoints = defaultDeviation },
		},
		fieldDefault{
			key:   "trading.magic",
			need:  func() bool { return t.Magic <= 0 },
			apply: func() { t.Magic = defaultMagic },
		},
	)
}

func (r *RetryConfig) applyDefaults(keys keySet) {
	if r == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "retry.max_attempts",
			need:  func() bool { return r.MaxAttempts <= 0 },
			apply: func() { r.MaxAttempts = defaultRetryAttempts },
		},
		fieldDefault{
			key:   "retry.min_backoff_ms",
			need:  func() bool { return r.MinBackoffMS <= 0 },
			apply: func() { r.MinBackoffMS = defaultRetryMinMS },
		},
		fieldDefault{
			key:   "retry.max_backoff_ms",
			need:  func() bool { return r.MaxBackoffMS <= 0 },
			apply: func() { r.MaxBackoffMS = defaultRetryMaxMS },
		},
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
