package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// Current version of each config file.
const (
	CurrentCommonVersion = 1
	CurrentAPIVersion    = 1
	CurrentWorkerVersion = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig
	API    APIConfig
	Worker WorkerConfig
}

// CommonConfig contains configuration shared between the API server and
// the workers.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Telemetry  Telemetry  `koanf:"telemetry"`
	Support    Support    `koanf:"support"`
}

// Debug contains development and logging settings.
type Debug struct {
	// Logging level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum number of log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum number of lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Enable query logging.
	QueryLogging bool `koanf:"query_logging"`
}

// PostgreSQL contains database connection settings.
type PostgreSQL struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	DBName       string `koanf:"db_name"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	// Connection lifetime limits in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains redis connection settings.
type Redis struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Telemetry contains OpenTelemetry export settings.
type Telemetry struct {
	// Enable OTLP export via uptrace.
	Enabled bool `koanf:"enabled"`
	// Uptrace DSN for trace and metric export.
	DSN string `koanf:"dsn"`
}

// Support contains the lifecycle policy knobs of the engine.
type Support struct {
	// Days after deletion during which an ad may be appealed.
	AppealWindowDays int `koanf:"appeal_window_days"`
	// Days after resolution during which a ticket may be reopened.
	ReopenGraceDays int `koanf:"reopen_grace_days"`
	// Message poll interval in seconds for pull-based delivery.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`
}

// APIConfig contains REST server specific configuration.
type APIConfig struct {
	// Version of the api config.
	Version   int       `koanf:"version"`
	Server    Server    `koanf:"server"`
	RateLimit RateLimit `koanf:"rate_limit"`
}

// Server contains HTTP listener settings.
type Server struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// RateLimit contains client throttling settings.
type RateLimit struct {
	// Allowed sustained requests per second per client.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// Allowed burst above the sustained rate.
	BurstSize int `koanf:"burst_size"`
	// Violations before a client is temporarily blocked.
	StrikeLimit int `koanf:"strike_limit"`
	// Block duration in seconds after too many strikes.
	BlockDuration int `koanf:"block_duration"`
}

// WorkerConfig contains worker specific configuration.
type WorkerConfig struct {
	// Version of the worker config.
	Version int `koanf:"version"`
	// Stats snapshot interval in seconds.
	StatsInterval int `koanf:"stats_interval"`
	// Maintenance sweep interval in seconds.
	MaintenanceInterval int `koanf:"maintenance_interval"`
	// Tickets to close per maintenance batch.
	CloseBatchSize int `koanf:"close_batch_size"`
}

// LoadConfig loads the configuration from the config files.
// Returns the config, the directory it was found in, and any error.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	configPaths := []string{
		".supportd",
		homeDir + "/.supportd/config",
		"/etc/supportd/config",
		"/app/config",
		"config",
		".",
	}

	// Load all config files
	var usedConfigPath string

	configFiles := []string{"common", "api", "worker"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("api", config.API.Version, CurrentAPIVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("worker", config.Worker.Version, CurrentWorkerVersion); err != nil {
		return nil, "", err
	}

	applyDefaults(&config)

	return &config, usedConfigPath, nil
}

// applyDefaults fills policy knobs that were omitted from the config file.
func applyDefaults(config *Config) {
	support := &config.Common.Support
	if support.AppealWindowDays == 0 {
		support.AppealWindowDays = 30
	}

	if support.ReopenGraceDays == 0 {
		support.ReopenGraceDays = 7
	}

	if support.PollIntervalSeconds == 0 {
		support.PollIntervalSeconds = 10
	}

	worker := &config.Worker
	if worker.StatsInterval == 0 {
		worker.StatsInterval = 60
	}

	if worker.MaintenanceInterval == 0 {
		worker.MaintenanceInterval = 3600
	}

	if worker.CloseBatchSize == 0 {
		worker.CloseBatchSize = 200
	}
}

// checkConfigVersion validates the version of a config file.
func checkConfigVersion(name string, version, expected int) error {
	if version == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if version != expected {
		return fmt.Errorf("%w: %s.toml has version %d, expected %d",
			ErrConfigVersionMismatch, name, version, expected)
	}

	return nil
}
