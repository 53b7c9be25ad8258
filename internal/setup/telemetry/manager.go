package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/marketloop/supportd/internal/setup/config"
	"github.com/marketloop/supportd/internal/setup/telemetry/logger"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceType represents the type of service being initialized.
type ServiceType int

const (
	ServiceAPI ServiceType = iota
	ServiceWorker
	ServiceTool
)

// componentName returns the log label for a service type.
func (s ServiceType) componentName(workerType string) string {
	switch s {
	case ServiceAPI:
		return "api"
	case ServiceWorker:
		if workerType != "" {
			return workerType + "_worker"
		}
		return "worker"
	case ServiceTool:
		return "tool"
	default:
		return "unknown"
	}
}

// Manager handles the creation and management of log files and directories.
// It maintains timestamped session logs and optionally exports telemetry
// through OpenTelemetry.
type Manager struct {
	instanceID        string // Unique identifier for this program instance
	componentName     string // Component identifier for this instance
	currentSessionDir string // Path to the current session's log directory
	logDir            string // Base directory for all logs
	level             string // Logging level (debug, info, warn, error)
	maxLogsToKeep     int    // Maximum number of log sessions to retain
	maxLogLines       int    // Maximum number of lines to keep in each log file
	otelEnabled       bool   // Whether OTLP export was configured
}

// NewManager creates a new Manager instance. When telemetry export is
// enabled it configures the global OpenTelemetry providers via uptrace.
func NewManager(
	_ context.Context, serviceType ServiceType, logDir string,
	debugCfg *config.Debug, telemetryCfg *config.Telemetry, workerType string,
) *Manager {
	instanceID := uuid.New().String()
	componentName := serviceType.componentName(workerType)

	manager := &Manager{
		instanceID:    instanceID,
		componentName: componentName,
		logDir:        logDir,
		level:         debugCfg.LogLevel,
		maxLogsToKeep: debugCfg.MaxLogsToKeep,
		maxLogLines:   debugCfg.MaxLogLines,
	}

	if telemetryCfg.Enabled && telemetryCfg.DSN != "" {
		uptrace.ConfigureOpentelemetry(
			uptrace.WithDSN(telemetryCfg.DSN),
			uptrace.WithServiceName("supportd-"+componentName),
			uptrace.WithServiceVersion("1.0.0"),
			uptrace.WithResourceAttributes(),
		)
		manager.otelEnabled = true
	}

	return manager
}

// Stop gracefully shuts down the telemetry manager.
// This should be called on application shutdown to ensure data is flushed.
func (lm *Manager) Stop(ctx context.Context) {
	if lm.otelEnabled {
		_ = uptrace.Shutdown(ctx)
	}
}

// GetLoggers initializes the main and database loggers.
// Returns separate loggers for main application and database logging.
func (lm *Manager) GetLoggers() (*zap.Logger, *zap.Logger, error) {
	if err := lm.setupLogDirectories(); err != nil {
		return nil, nil, err
	}

	mainLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "main.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize main logger: %w", err)
	}

	dbLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "database.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database logger: %w", err)
	}

	return mainLogger, dbLogger, nil
}

// GetWorkerLogger creates a logger for background workers.
// Each worker gets its own log file in the session directory.
func (lm *Manager) GetWorkerLogger(name string) *zap.Logger {
	sessionDir := lm.getOrCreateSessionDir()

	workerLogger, err := lm.initLogger(filepath.Join(sessionDir, name+".log"))
	if err != nil {
		return zap.NewNop()
	}

	return workerLogger
}

// GetInstanceID returns the unique instance identifier for this program run.
// This ID is used for both logging and worker status correlation.
func (lm *Manager) GetInstanceID() string {
	return lm.instanceID
}

// setupLogDirectories prepares a fresh timestamped session directory under
// the base log directory, pruning old sessions first.
func (lm *Manager) setupLogDirectories() error {
	if err := os.MkdirAll(lm.logDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	if err := lm.rotateLogSessions(); err != nil {
		return fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	lm.currentSessionDir = lm.newSessionPath()
	if err := os.MkdirAll(lm.currentSessionDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	return nil
}

func (lm *Manager) newSessionPath() string {
	return filepath.Join(lm.logDir, time.Now().Format("2006-01-02_15-04-05"))
}

// getOrCreateSessionDir returns the current session directory, creating one
// on demand for loggers requested before GetLoggers ran. Falls back to the
// base directory if creation fails.
func (lm *Manager) getOrCreateSessionDir() string {
	if lm.currentSessionDir != "" {
		return lm.currentSessionDir
	}

	sessionDir := lm.newSessionPath()
	if err := os.MkdirAll(sessionDir, os.ModePerm); err != nil {
		return lm.logDir
	}

	return sessionDir
}

// initLogger creates a new zap logger writing to the given file through a
// line-capped rotator.
func (lm *Manager) initLogger(logPath string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(lm.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", logPath, err)
	}

	rotator := logger.NewLogRotator(file, lm.maxLogLines, logPath)

	return zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(rotator),
			zapLevel,
		),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Development(),
	), nil
}

// rotateLogSessions deletes the oldest session directories so at most
// maxLogsToKeep remain, judged by modification time.
func (lm *Manager) rotateLogSessions() error {
	sessions, err := filepath.Glob(filepath.Join(lm.logDir, "*"))
	if err != nil {
		return err
	}

	excess := len(sessions) - lm.maxLogsToKeep
	if excess <= 0 {
		return nil
	}

	sort.Slice(sessions, func(i, j int) bool {
		iInfo, _ := os.Stat(sessions[i])
		jInfo, _ := os.Stat(sessions[j])

		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	for _, session := range sessions[:excess] {
		if err := os.RemoveAll(session); err != nil {
			return err
		}
	}

	return nil
}
