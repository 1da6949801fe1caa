package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"timecard/internal/repository/sqldb"
)

// Config holds all configuration options for the timecard engine
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Time        TimeConfig        `toml:"time"`
	Validation  ValidationConfig  `toml:"validation"`
	Application ApplicationConfig `toml:"application"`
	Commands    CommandsConfig    `toml:"commands"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver         string        `toml:"driver" env:"TC_DB_DRIVER"`
	Dir            string        `toml:"dir" env:"TC_DB_DIR"`
	Filename       string        `toml:"filename" env:"TC_DB_FILENAME"`
	DSN            string        `toml:"dsn" env:"TC_DB_DSN"`
	QueryTimeout   time.Duration `toml:"query_timeout" env:"TC_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `toml:"write_timeout" env:"TC_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `toml:"dir_permissions" env:"TC_DB_DIR_PERMISSIONS"`
}

// TimeConfig holds time formatting configuration
type TimeConfig struct {
	DisplayFormat string `toml:"display_format" env:"TC_TIME_DISPLAY_FORMAT"`
	// Location names the zone calendar dates are computed in.
	Location string `toml:"location" env:"TC_TIME_LOCATION"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	MaxEntryDuration time.Duration `toml:"max_entry_duration" env:"TC_VALIDATION_MAX_ENTRY_DURATION"`
	MaxNotesLength   int           `toml:"max_notes_length" env:"TC_VALIDATION_MAX_NOTES_LENGTH"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout   time.Duration `toml:"timeout" env:"TC_APP_TIMEOUT"`
	Verbose   bool          `toml:"verbose" env:"TC_APP_VERBOSE"`
	LogLevel  string        `toml:"log_level" env:"TC_LOG_LEVEL"`
	LogFormat string        `toml:"log_format" env:"TC_LOG_FORMAT"`
	// UserID is the staff member the CLI acts for when --user is not given.
	UserID string `toml:"user_id" env:"TC_USER"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	ListDefaultFormat string `toml:"list_default_format" env:"TC_LIST_DEFAULT_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".timecard")

	return &Config{
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Dir:            defaultDBDir,
			Filename:       "timecard.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			DisplayFormat: "2006-01-02 15:04",
			Location:      "Local",
		},
		Validation: ValidationConfig{
			MaxEntryDuration: 24 * time.Hour,
			MaxNotesLength:   1000,
		},
		Application: ApplicationConfig{
			Timeout:   60 * time.Second,
			LogLevel:  "info",
			LogFormat: "text",
			UserID:    os.Getenv("USER"),
		},
		Commands: CommandsConfig{
			ListDefaultFormat: "table",
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// GetLocation resolves the configured time zone.
func (c *Config) GetLocation() (*time.Location, error) {
	if c.Time.Location == "" || c.Time.Location == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Time.Location)
}

// LoadFromEnvironment loads configuration from TC_* environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if driver := os.Getenv("TC_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dir := os.Getenv("TC_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TC_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if dsn := os.Getenv("TC_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if timeout := os.Getenv("TC_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TC_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("TC_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Time configuration
	if format := os.Getenv("TC_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}
	if loc := os.Getenv("TC_TIME_LOCATION"); loc != "" {
		c.Time.Location = loc
	}

	// Validation configuration
	if maxDur := os.Getenv("TC_VALIDATION_MAX_ENTRY_DURATION"); maxDur != "" {
		c.Validation.MaxEntryDuration = ParseDurationWithFallback(maxDur, c.Validation.MaxEntryDuration)
	}
	if maxLen := os.Getenv("TC_VALIDATION_MAX_NOTES_LENGTH"); maxLen != "" {
		c.Validation.MaxNotesLength = ParseIntWithFallback(maxLen, c.Validation.MaxNotesLength)
	}

	// Application configuration
	if timeout := os.Getenv("TC_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TC_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if level := os.Getenv("TC_LOG_LEVEL"); level != "" {
		c.Application.LogLevel = level
	}
	if format := os.Getenv("TC_LOG_FORMAT"); format != "" {
		c.Application.LogFormat = format
	}
	if user := os.Getenv("TC_USER"); user != "" {
		c.Application.UserID = user
	}

	// Commands configuration
	if format := os.Getenv("TC_LIST_DEFAULT_FORMAT"); format != "" {
		c.Commands.ListDefaultFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	dialect, ok := sqldb.DialectByName(c.Database.Driver)
	if !ok {
		return &ConfigError{Field: "database.driver", Message: "driver must be sqlite or postgres"}
	}
	if dialect == sqldb.Postgres {
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "a DSN is required for postgres"}
		}
	} else if c.Database.DSN == "" {
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate time configuration
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}
	if _, err := c.GetLocation(); err != nil {
		return &ConfigError{Field: "time.location", Message: "unknown time zone " + strconv.Quote(c.Time.Location)}
	}

	// Validate validation configuration
	if c.Validation.MaxEntryDuration <= 0 {
		return &ConfigError{Field: "validation.max_entry_duration", Message: "max entry duration must be positive"}
	}
	if c.Validation.MaxNotesLength < 1 {
		return &ConfigError{Field: "validation.max_notes_length", Message: "max notes length must be at least 1"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	switch c.Application.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "application.log_level", Message: "log level must be debug, info, warn or error"}
	}
	switch c.Application.LogFormat {
	case "text", "json":
	default:
		return &ConfigError{Field: "application.log_format", Message: "log format must be text or json"}
	}

	switch c.Commands.ListDefaultFormat {
	case "table", "json":
	default:
		return &ConfigError{Field: "commands.list_default_format", Message: "list format must be table or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
