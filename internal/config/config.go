package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`
	DataSource struct {
		Provider          string        `yaml:"provider"` // "yahoo", "rest" or "mock"
		BaseURL           string        `yaml:"base_url"`
		APIKey            string        `yaml:"api_key"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		Burst             int           `yaml:"burst"`
		BreakerTimeout    time.Duration `yaml:"breaker_timeout"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		Lookback    string `yaml:"lookback"` // date preset refreshed by each run
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Defaults struct {
		Ticker string `yaml:"ticker"`
	} `yaml:"defaults"`
	Watchlist  []string   `yaml:"watchlist"`
	Indicators Indicators `yaml:"indicators"`
	Log        struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Indicators holds the windows and spans of every chart overlay.
type Indicators struct {
	ShortMA         int `yaml:"short_ma"`
	LongMA          int `yaml:"long_ma"`
	EMASpan         int `yaml:"ema_span"`
	RSIWindow       int `yaml:"rsi_window"`
	BollingerWindow int `yaml:"bollinger_window"`
	MACDShort       int `yaml:"macd_short"`
	MACDLong        int `yaml:"macd_long"`
	MACDSignal      int `yaml:"macd_signal"`
}

// DefaultIndicators returns the windows the dashboard labels its columns with.
func DefaultIndicators() Indicators {
	return Indicators{
		ShortMA:         7,
		LongMA:          30,
		EMASpan:         20,
		RSIWindow:       14,
		BollingerWindow: 20,
		MACDShort:       12,
		MACDLong:        26,
		MACDSignal:      9,
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCKDASH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REQUESTS_PER_SECOND"); v != "" {
		var rps float64
		if _, err := fmt.Sscanf(v, "%f", &rps); err == nil {
			cfg.DataSource.RequestsPerSecond = rps
		}
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DEFAULT_TICKER"); v != "" {
		cfg.Defaults.Ticker = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.RequestsPerSecond == 0 {
		cfg.DataSource.RequestsPerSecond = 2
	}
	if cfg.DataSource.Burst == 0 {
		cfg.DataSource.Burst = 4
	}
	if cfg.DataSource.BreakerTimeout == 0 {
		cfg.DataSource.BreakerTimeout = 60 * time.Second
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.Lookback == "" {
		cfg.Schedule.Lookback = "1-Year"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockdash.db"
	}
	if cfg.Defaults.Ticker == "" {
		cfg.Defaults.Ticker = "AAPL"
	}
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = []string{"AAPL", "MSFT", "TSLA", "IBM"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Indicators.fillDefaults()

	return cfg, nil
}

func (ind *Indicators) fillDefaults() {
	def := DefaultIndicators()
	if ind.ShortMA == 0 {
		ind.ShortMA = def.ShortMA
	}
	if ind.LongMA == 0 {
		ind.LongMA = def.LongMA
	}
	if ind.EMASpan == 0 {
		ind.EMASpan = def.EMASpan
	}
	if ind.RSIWindow == 0 {
		ind.RSIWindow = def.RSIWindow
	}
	if ind.BollingerWindow == 0 {
		ind.BollingerWindow = def.BollingerWindow
	}
	if ind.MACDShort == 0 {
		ind.MACDShort = def.MACDShort
	}
	if ind.MACDLong == 0 {
		ind.MACDLong = def.MACDLong
	}
	if ind.MACDSignal == 0 {
		ind.MACDSignal = def.MACDSignal
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	ind := c.Indicators
	for name, v := range map[string]int{
		"short_ma": ind.ShortMA, "long_ma": ind.LongMA, "ema_span": ind.EMASpan,
		"rsi_window": ind.RSIWindow, "bollinger_window": ind.BollingerWindow,
		"macd_short": ind.MACDShort, "macd_long": ind.MACDLong, "macd_signal": ind.MACDSignal,
	} {
		if v < 1 {
			return fmt.Errorf("indicators.%s must be >= 1", name)
		}
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
