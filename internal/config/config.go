package config

import (
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"tinyserve/internal/errors"
)

// EnvPrefix is prepended to every runtime setting read from the environment,
// e.g. TINY_SERVE_LOG_LEVEL.
const EnvPrefix = "TINY_SERVE"

// Settings holds runtime knobs that do not change what is served.
type Settings struct {
	Host            string        `json:"host" mapstructure:"host"`
	LogLevel        string        `json:"logLevel" mapstructure:"log_level"`
	LogFormat       string        `json:"logFormat" mapstructure:"log_format"`
	LogFile         string        `json:"logFile" mapstructure:"log_file"`
	LogMaxSize      string        `json:"logMaxSize" mapstructure:"log_max_size"`
	LogMaxBackups   int           `json:"logMaxBackups" mapstructure:"log_max_backups"`
	RequestDB       string        `json:"requestDb" mapstructure:"request_db"`
	Gzip            bool          `json:"gzip" mapstructure:"gzip"`
	AuthUser        string        `json:"authUser" mapstructure:"auth_user"`
	AuthHash        string        `json:"-" mapstructure:"auth_hash"`
	AuthMaxFailures int           `json:"authMaxFailures" mapstructure:"auth_max_failures"` // 0 disables lockout
	MaxConns        int           `json:"maxConns" mapstructure:"max_conns"` // 0 means unlimited
	ShutdownTimeout time.Duration `json:"shutdownTimeout" mapstructure:"shutdown_timeout"`
}

// DefaultSettings returns the default settings
func DefaultSettings() *Settings {
	return &Settings{
		Host:            "0.0.0.0",
		LogLevel:        "info",
		LogFormat:       "human",
		LogMaxBackups:   3,
		AuthMaxFailures: 10,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadSettings reads settings from TINY_SERVE_* environment variables.
func LoadSettings() (*Settings, error) {
	return loadSettings(viper.New())
}

func loadSettings(v *viper.Viper) (*Settings, error) {
	defaults := DefaultSettings()

	// Every key needs a default so AutomaticEnv picks it up during Unmarshal.
	v.SetDefault("host", defaults.Host)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size", "")
	v.SetDefault("log_max_backups", defaults.LogMaxBackups)
	v.SetDefault("request_db", "")
	v.SetDefault("gzip", false)
	v.SetDefault("auth_user", "")
	v.SetDefault("auth_hash", "")
	v.SetDefault("auth_max_failures", defaults.AuthMaxFailures)
	v.SetDefault("max_conns", 0)
	v.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.NewServeError(errors.InvalidSettings, "cannot decode settings", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks if the settings are usable
func (s *Settings) Validate() error {
	switch s.LogFormat {
	case "human", "json":
	default:
		return &SettingsError{Field: "log_format", Message: "must be human or json"}
	}
	if _, err := ParseSize(s.LogMaxSize); err != nil {
		return &SettingsError{Field: "log_max_size", Message: "must be a size like 500KB, 10MB or 1GiB"}
	}
	if s.LogMaxBackups < 0 {
		return &SettingsError{Field: "log_max_backups", Message: "must not be negative"}
	}
	if s.AuthMaxFailures < 0 {
		return &SettingsError{Field: "auth_max_failures", Message: "must not be negative"}
	}
	if s.MaxConns < 0 {
		return &SettingsError{Field: "max_conns", Message: "must not be negative"}
	}
	if s.ShutdownTimeout <= 0 {
		return &SettingsError{Field: "shutdown_timeout", Message: "must be positive"}
	}
	if (s.AuthUser == "") != (s.AuthHash == "") {
		return &SettingsError{Field: "auth_user", Message: "auth_user and auth_hash must be set together"}
	}
	return nil
}

// ParseSize parses a log size such as "500KB", "10MB" or "1GiB" into bytes.
// An empty string means no size limit and parses as 0.
func ParseSize(size string) (int64, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(size)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64 {
		return 0, errors.NewServeError(errors.InvalidSettings, "size "+size+" is too large", nil)
	}
	return int64(n), nil
}

// AuthEnabled reports whether Basic auth is configured.
func (s *Settings) AuthEnabled() bool {
	return s.AuthUser != "" && s.AuthHash != ""
}

// Addr joins the configured host with port.
func (s *Settings) Addr(port uint16) string {
	return net.JoinHostPort(s.Host, strconv.Itoa(int(port)))
}

// SettingsError represents an invalid runtime setting
type SettingsError struct {
	Field   string
	Message string
}

func (e *SettingsError) Error() string {
	return "settings error in field '" + e.Field + "': " + e.Message
}

// Unwrap exposes the error as an INVALID_SETTINGS ServeError.
func (e *SettingsError) Unwrap() error {
	return errors.NewServeError(errors.InvalidSettings, e.Field+": "+e.Message, nil)
}
