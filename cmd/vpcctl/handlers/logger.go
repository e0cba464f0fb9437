package handlers

import (
	"fmt"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/imamik/vpcctl/internal/provisioning"
)

// Log formats accepted by --log-format.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// setupLogger builds the zap logger behind every observer.
func setupLogger(logLevel, logFormat string) (*zap.Logger, error) {
	if logLevel == "" {
		logLevel = "info"
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	var zapConfig zap.Config
	switch logFormat {
	case LogFormatJSON:
		zapConfig = zap.NewProductionConfig()
	case "", LogFormatConsole:
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("invalid log format %q (want %s or %s)", logFormat, LogFormatConsole, LogFormatJSON)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// session holds the per-invocation logging and metrics.
type session struct {
	logger      *zap.Logger
	observer    provisioning.Observer
	metrics     *provisioning.MetricsObserver
	metricsPath string
}

func newSession(opts *GlobalOptions, network string) (*session, error) {
	logger, err := setupLogger(opts.LogLevel, opts.LogFormat)
	if err != nil {
		return nil, err
	}

	s := &session{logger: logger, metricsPath: opts.MetricsTextfile}
	var observer provisioning.Observer = provisioning.NewLogObserver(zapr.NewLogger(logger))
	if s.metricsPath != "" {
		s.metrics = provisioning.NewMetricsObserver(observer, network)
		observer = s.metrics
	}
	s.observer = observer.WithFields(map[string]string{"network": network})
	return s, nil
}

// close writes the metrics textfile, if requested, and flushes the logger.
func (s *session) close() {
	if s.metrics != nil {
		if err := s.metrics.WriteTextfile(s.metricsPath); err != nil {
			s.logger.Warn("failed to write metrics textfile", zap.String("path", s.metricsPath), zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}
