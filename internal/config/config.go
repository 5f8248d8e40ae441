package config

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/telemetry"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultListen          = "0.0.0.0:5000"
	DefaultInterval        = 5000
	MinInterval            = int(telemetry.MinInterval / time.Millisecond)
	DefaultLowThreshold    = 20
	DefaultMediumThreshold = 30
	DefaultLogLevel        = "info"
	DefaultWOLBroadcast    = "255.255.255.255:9"
	DefaultAuditDB         = "/var/lib/hostctl/audit.db"
	DefaultAuditBatchSize  = 20
	DefaultAuditTimeout    = 5 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultIndicatorShow   = "both"

	configName      = "hostctl"
	configType      = "toml"
	defaultEnvPfx   = "HOSTCTL"
	configPathEnv   = "HOSTCTL_CONFIG"
	defaultPIDFile  = "hostctl.pid"
	maxThresholdPct = 100
)

type Thresholds struct {
	Low    int `mapstructure:"low"`
	Medium int `mapstructure:"medium"`
}

type AuditConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Database     string        `mapstructure:"database"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

type Config struct {
	Listen          string        `mapstructure:"listen"`
	Interval        int           `mapstructure:"interval"`
	Thresholds      Thresholds    `mapstructure:"thresholds"`
	LogLevel        string        `mapstructure:"log_level"`
	AllowedSubnets  []string      `mapstructure:"allowed_subnets"`
	Indicator       bool          `mapstructure:"indicator"`
	IndicatorShow   string        `mapstructure:"indicator_show"`
	WOLBroadcast    string        `mapstructure:"wol_broadcast"`
	PIDFile         string        `mapstructure:"pid_file"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Audit           AuditConfig   `mapstructure:"audit"`
}

// PollInterval returns the telemetry interval, never below MinInterval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(max(c.Interval, MinInterval)) * time.Millisecond
}

// Load resolves configuration from defaults, the config file, HOSTCTL_*
// environment variables and command line args, in increasing precedence.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{
		envPrefix:   defaultEnvPfx,
		searchPaths: defaultSearchPaths(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := bindFlags(v, fs); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := o.configPath
	if f := fs.Lookup("config"); f != nil && f.Changed {
		path = f.Value.String()
	}
	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if err := readConfigFile(v, path, o.searchPaths); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("thresholds.low", DefaultLowThreshold)
	v.SetDefault("thresholds.medium", DefaultMediumThreshold)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("allowed_subnets", []string{})
	v.SetDefault("indicator", false)
	v.SetDefault("indicator_show", DefaultIndicatorShow)
	v.SetDefault("wol_broadcast", DefaultWOLBroadcast)
	v.SetDefault("pid_file", filepath.Join(os.TempDir(), defaultPIDFile))
	v.SetDefault("shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.database", DefaultAuditDB)
	v.SetDefault("audit.batch_size", DefaultAuditBatchSize)
	v.SetDefault("audit.batch_timeout", DefaultAuditTimeout)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	fs.String("config", "", "Path to configuration file")
	fs.String("listen", DefaultListen, "Address the HTTP API listens on")
	fs.Int("interval", DefaultInterval, "Telemetry poll interval in milliseconds (minimum 1000)")
	fs.Int("threshold-low", DefaultLowThreshold, "Battery percentage below which the indicator is critical")
	fs.Int("threshold-medium", DefaultMediumThreshold, "Battery percentage below which the indicator is a warning")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.StringSlice("allow", nil, "CIDR subnets allowed to call the API (default: any)")
	fs.Bool("indicator", false, "Render a battery indicator on stderr")
	fs.String("indicator-show", DefaultIndicatorShow, "Indicator label (percent, time, both)")
	fs.String("wol-broadcast", DefaultWOLBroadcast, "Broadcast address for wake-on-LAN packets")
	fs.String("pid-file", "", "Path to the PID file")
	fs.Bool("audit", false, "Record executed actions in the audit database")
	fs.String("audit-db", DefaultAuditDB, "Path to the audit database")

	return fs
}

var flagKeys = map[string]string{
	"listen":           "listen",
	"interval":         "interval",
	"threshold-low":    "thresholds.low",
	"threshold-medium": "thresholds.medium",
	"log-level":        "log_level",
	"allow":            "allowed_subnets",
	"indicator":        "indicator",
	"indicator-show":   "indicator_show",
	"wol-broadcast":    "wol_broadcast",
	"pid-file":         "pid_file",
	"audit":            "audit.enabled",
	"audit-db":         "audit.database",
}

// bindFlags only binds flags that were set so that an unset flag never
// shadows a value coming from the file or the environment.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})

	return bindErr
}

func readConfigFile(v *viper.Viper, path string, searchPaths []string) error {
	errFactory := errors.New()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err).WithMessage("Failed to read config file")
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err).WithMessage("Failed to read config file")
		}
	}

	return nil
}

func defaultSearchPaths() []string {
	paths := []string{"/etc"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", configName))
	}

	return paths
}

func (c *Config) normalize() {
	if c.Interval < MinInterval {
		c.Interval = MinInterval
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.IndicatorShow = strings.ToLower(strings.TrimSpace(c.IndicatorShow))
	if c.IndicatorShow == "" {
		c.IndicatorShow = DefaultIndicatorShow
	}
	if c.PIDFile == "" {
		c.PIDFile = filepath.Join(os.TempDir(), defaultPIDFile)
	}
	if c.Audit.BatchSize <= 0 {
		c.Audit.BatchSize = DefaultAuditBatchSize
	}
	if c.Audit.BatchTimeout <= 0 {
		c.Audit.BatchTimeout = DefaultAuditTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	t := c.Thresholds
	if t.Low < 0 || t.Medium > maxThresholdPct || t.Low > t.Medium {
		return errFactory.WithData(errors.ErrInvalidThresholds, t)
	}

	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return errFactory.Wrap(errors.ErrInvalidListenAddr, err)
	}

	for _, cidr := range c.AllowedSubnets {
		if _, _, err := net.ParseCIDR(strings.TrimSpace(cidr)); err != nil {
			return errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	switch c.IndicatorShow {
	case "percent", "time", "both":
	default:
		return errFactory.WithMessage(errors.ErrInvalidConfig, "indicator_show must be percent, time or both")
	}

	if c.Audit.Enabled && c.Audit.Database == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "audit database path is required")
	}

	return nil
}
