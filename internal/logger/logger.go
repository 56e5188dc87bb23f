// Package logger configures the application's logging,
// monitoring, and observability.
//
// It uses *zerolog* for logging and integrates with
// *New Relic* to forward logs and attach trace context.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/deppfellow/jsongate/internal/config"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// LoggerService owns the New Relic application instance.
//
// When no license key is configured the application is nil and every
// consumer treats New Relic as disabled.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService creates a LoggerService and starts the New Relic agent if configured.
func NewLoggerService(cfg *config.ObservabilityConfig) *LoggerService {
	service := &LoggerService{}

	if cfg.NewRelic.LicenseKey == "" {
		fmt.Println("New Relic license key not provided, skipping initialization")
		return service
	}

	configOptions := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
	}

	// Agent debug output goes to stdout and mixes with app logs, so it is opt-in.
	if cfg.NewRelic.DebugLogging {
		configOptions = append(configOptions, newrelic.ConfigDebugLogger(os.Stdout))
	}

	app, err := newrelic.NewApplication(configOptions...)
	if err != nil {
		fmt.Printf("Failed to initialize New Relic: %v\n", err)
		return service
	}

	service.nrApp = app
	fmt.Printf("New Relic initialized for app: %s\n", cfg.ServiceName)

	return service
}

// Shutdown flushes pending New Relic data.
func (ls *LoggerService) Shutdown() {
	if ls.nrApp != nil {
		ls.nrApp.Shutdown(10 * time.Second)
	}
}

// GetApplication returns the New Relic application, or nil when disabled.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	if ls == nil {
		return nil
	}
	return ls.nrApp
}

// NewLogger creates a logger without New Relic integration.
func NewLogger(level string, isProd bool) zerolog.Logger {
	format := "console"
	if isProd {
		format = "json"
	}

	return NewLoggerWithConfig(&config.ObservabilityConfig{
		ServiceName: config.ServiceName,
		Environment: environmentFor(isProd),
		Logging:     config.LoggingConfig{Level: level, Format: format},
	}, nil, os.Stdout)
}

// NewLoggerWithService creates the root logger writing to stdout, forwarding
// logs to New Relic when loggerService carries an application.
func NewLoggerWithService(cfg *config.ObservabilityConfig, loggerService *LoggerService) zerolog.Logger {
	return NewLoggerWithConfig(cfg, loggerService, os.Stdout)
}

// NewLoggerWithConfig builds the root logger on top of out.
//
//   - json format: raw JSON lines, wrapped by the New Relic zerolog writer if enabled
//   - console format: human-friendly zerolog.ConsoleWriter
func NewLoggerWithConfig(cfg *config.ObservabilityConfig, loggerService *LoggerService, out io.Writer) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}

	// Errors wrapped with github.com/pkg/errors carry stacks; render them with .Stack().
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var writer io.Writer
	if cfg.Logging.Format == "console" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	} else {
		writer = out
		if app := loggerService.GetApplication(); app != nil {
			writer = zerologWriter.New(out, app)
		}
	}

	logger := zerolog.New(writer).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()

	// Outside production every event carries a stack when the error has one.
	if !cfg.IsProduction() {
		logger = logger.With().Stack().Logger()
	}

	return logger
}

// WithTraceContext adds New Relic trace.id and span.id to the logger.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}

	metadata := txn.GetTraceMetadata()

	return logger.With().
		Str("trace.id", metadata.TraceID).
		Str("span.id", metadata.SpanID).
		Logger()
}

func environmentFor(isProd bool) string {
	if isProd {
		return "production"
	}
	return "development"
}
