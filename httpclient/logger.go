package httpclient

import (
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

var _ resty.Logger = (*restyLogger)(nil)

// restyLogger routes the transport's own diagnostics into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func newRestyLogger(logger zerolog.Logger) *restyLogger {
	return &restyLogger{
		logger: logger.With().Str("component", "resty").Logger(),
	}
}

func (l *restyLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msgf(format, v...)
}

func (l *restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn().Msgf(format, v...)
}

func (l *restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}
