package config

import (
	"fmt"
	"os"
	"strconv"

	"MarketPulse/internal/insight"
	"MarketPulse/internal/model"

	"gopkg.in/yaml.v3"
)

// InstrumentConfig declares one tracked symbol.
type InstrumentConfig struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// GroupConfig declares one instrument group and how it is ranked.
type GroupConfig struct {
	Name        string             `yaml:"name"`
	Label       string             `yaml:"label"`
	Kind        string             `yaml:"kind"` // commodity | equity | index
	RankBy      string             `yaml:"rank_by"`
	TopN        int                `yaml:"top_n"`
	Instruments []InstrumentConfig `yaml:"instruments"`
}

// TimeframeConfig declares one lookback window in trading bars.
type TimeframeConfig struct {
	Name string `yaml:"name"`
	Bars int    `yaml:"bars"`
}

// Config holds all application configuration.
type Config struct {
	SMTP struct {
		Host     string   `yaml:"host"`
		Port     int      `yaml:"port"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
		From     string   `yaml:"from"`
		To       []string `yaml:"to"`
	} `yaml:"smtp"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Fetch struct {
		Workers    int     `yaml:"workers"`
		RatePerSec float64 `yaml:"rate_per_sec"`
		DailyBars  int     `yaml:"daily_bars"`
	} `yaml:"fetch"`
	Schedule struct {
		WeeklyCron string `yaml:"weekly_cron"`
		DailyCron  string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Report struct {
		Subject string `yaml:"subject"`
		BottomN int    `yaml:"bottom_n"`
	} `yaml:"report"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	History struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"history"`
	Thresholds struct {
		MomentumPct        float64 `yaml:"momentum_pct"`
		SelloffPct         float64 `yaml:"selloff_pct"`
		BreadthAdvancePct  float64 `yaml:"breadth_advance_pct"`
		BreadthDeclinePct  float64 `yaml:"breadth_decline_pct"`
		CommodityWeeklyPct float64 `yaml:"commodity_weekly_pct"`
		QuietPct           float64 `yaml:"quiet_pct"`
	} `yaml:"thresholds"`
	Timeframes []TimeframeConfig `yaml:"timeframes"`
	Groups     []GroupConfig     `yaml:"groups"`
	Proxy      string            `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		cfg.SMTP.Username = v
		cfg.SMTP.From = v
	}
	if v := os.Getenv("SENDER_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("RECEIVER_EMAIL"); v != "" {
		cfg.SMTP.To = []string{v}
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := os.Getenv("CHARTAPI_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("CHARTAPI_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_WEEKLY"); v != "" {
		cfg.Schedule.WeeklyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 8 * * 6" // Saturday 08:00
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 18 * * 1-5" // weekdays after close
	}
	if cfg.Report.Subject == "" {
		cfg.Report.Subject = "Weekly Market & Commodity Report"
	}
	if cfg.Report.BottomN == 0 {
		cfg.Report.BottomN = 5
	}
	if cfg.Fetch.Workers == 0 {
		cfg.Fetch.Workers = 4
	}
	if cfg.Fetch.RatePerSec == 0 {
		cfg.Fetch.RatePerSec = 5
	}
	if cfg.Fetch.DailyBars == 0 {
		cfg.Fetch.DailyBars = 30
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/marketpulse.db"
	}
	if cfg.History.StateFile == "" {
		cfg.History.StateFile = "data/last_run.json"
	}
	if cfg.Thresholds.MomentumPct == 0 {
		cfg.Thresholds.MomentumPct = 3.0
	}
	if cfg.Thresholds.SelloffPct == 0 {
		cfg.Thresholds.SelloffPct = 3.0
	}
	if cfg.Thresholds.BreadthAdvancePct == 0 {
		cfg.Thresholds.BreadthAdvancePct = 70.0
	}
	if cfg.Thresholds.BreadthDeclinePct == 0 {
		cfg.Thresholds.BreadthDeclinePct = 30.0
	}
	if cfg.Thresholds.CommodityWeeklyPct == 0 {
		cfg.Thresholds.CommodityWeeklyPct = 2.0
	}
	if cfg.Thresholds.QuietPct == 0 {
		cfg.Thresholds.QuietPct = 0.5
	}
	if len(cfg.Timeframes) == 0 {
		for _, tf := range model.DefaultTimeframes {
			cfg.Timeframes = append(cfg.Timeframes, TimeframeConfig{Name: tf.Name, Bars: tf.Bars})
		}
	}
	if len(cfg.Groups) == 0 {
		cfg.Groups = defaultGroups()
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.SMTP.From == "" {
		return fmt.Errorf("smtp.from is required")
	}
	if c.SMTP.Password == "" {
		return fmt.Errorf("smtp.password is required")
	}
	if len(c.SMTP.To) == 0 {
		return fmt.Errorf("smtp.to must list at least one recipient")
	}
	for _, tf := range c.Timeframes {
		if tf.Name == "" {
			return fmt.Errorf("timeframe with %d bars is missing a name", tf.Bars)
		}
		if tf.Bars <= 0 {
			return fmt.Errorf("timeframe %q: bars must be positive", tf.Name)
		}
	}
	for _, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("group without a name")
		}
		if !c.hasTimeframe(g.RankBy) && g.Kind != string(model.KindIndex) {
			return fmt.Errorf("group %q ranks by unknown timeframe %q", g.Name, g.RankBy)
		}
	}
	return nil
}

func (c *Config) hasTimeframe(name string) bool {
	for _, tf := range c.Timeframes {
		if tf.Name == name {
			return true
		}
	}
	return false
}

// ModelTimeframes converts the configured timeframes to model values.
func (c *Config) ModelTimeframes() []model.Timeframe {
	tfs := make([]model.Timeframe, len(c.Timeframes))
	for i, tf := range c.Timeframes {
		tfs[i] = model.Timeframe{Name: tf.Name, Bars: tf.Bars}
	}
	return tfs
}

// ModelGroups converts the configured groups to model values.
func (c *Config) ModelGroups() []model.Group {
	groups := make([]model.Group, len(c.Groups))
	for i, g := range c.Groups {
		instruments := make([]model.Instrument, len(g.Instruments))
		for j, inst := range g.Instruments {
			instruments[j] = model.Instrument{Symbol: inst.Symbol, Name: inst.Name}
		}
		groups[i] = model.Group{
			Name:        g.Name,
			Label:       g.Label,
			Kind:        model.GroupKind(g.Kind),
			RankBy:      g.RankBy,
			TopN:        g.TopN,
			Instruments: instruments,
		}
	}
	return groups
}

// InsightThresholds converts the configured thresholds for the rule engine.
func (c *Config) InsightThresholds() insight.Thresholds {
	return insight.Thresholds{
		MomentumPct:        c.Thresholds.MomentumPct,
		SelloffPct:         c.Thresholds.SelloffPct,
		BreadthAdvancePct:  c.Thresholds.BreadthAdvancePct,
		BreadthDeclinePct:  c.Thresholds.BreadthDeclinePct,
		CommodityWeeklyPct: c.Thresholds.CommodityWeeklyPct,
		QuietPct:           c.Thresholds.QuietPct,
	}
}

// defaultGroups is the stock universe tracked when no groups are
// configured.
func defaultGroups() []GroupConfig {
	return []GroupConfig{
		{
			Name: "commodities", Label: "Commodities", Kind: "commodity",
			RankBy: model.TimeframeWeek, TopN: 5,
			Instruments: []InstrumentConfig{
				{Symbol: "GC=F", Name: "Gold"},
				{Symbol: "SI=F", Name: "Silver"},
				{Symbol: "CL=F", Name: "Crude Oil"},
				{Symbol: "NG=F", Name: "Natural Gas"},
				{Symbol: "KOL", Name: "Coal"},
			},
		},
		{
			Name: "large_caps", Label: "Large Cap", Kind: "equity",
			RankBy: model.TimeframeDay, TopN: 10,
			Instruments: []InstrumentConfig{
				{Symbol: "RELIANCE.NS", Name: "Reliance"},
				{Symbol: "TCS.NS", Name: "TCS"},
				{Symbol: "INFY.NS", Name: "Infosys"},
				{Symbol: "HDFCBANK.NS", Name: "HDFC Bank"},
				{Symbol: "ICICIBANK.NS", Name: "ICICI Bank"},
				{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever"},
				{Symbol: "SBIN.NS", Name: "SBI"},
				{Symbol: "KOTAKBANK.NS", Name: "Kotak Bank"},
				{Symbol: "LT.NS", Name: "Larsen & Toubro"},
				{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel"},
			},
		},
		{
			Name: "mid_caps", Label: "Mid Cap", Kind: "equity",
			RankBy: model.TimeframeDay, TopN: 5,
			Instruments: []InstrumentConfig{
				{Symbol: "MUTHOOTFIN.NS", Name: "Muthoot Finance"},
				{Symbol: "MARUTI.NS", Name: "Maruti Suzuki"},
				{Symbol: "PIIND.NS", Name: "PI Industries"},
				{Symbol: "BALKRISIND.NS", Name: "Balkrishna Industries"},
				{Symbol: "GICRE.NS", Name: "GIC Re"},
			},
		},
		{
			Name: "indices", Label: "Indices", Kind: "index",
			Instruments: []InstrumentConfig{
				{Symbol: "^BSESN", Name: "SENSEX"},
				{Symbol: "^NSEI", Name: "NIFTY"},
			},
		},
	}
}
