package notify

import (
	"context"

	"github.com/rxtech-lab/swing-trader/internal/logger"
)

// LogSink writes alert messages to the logger instead of an external
// service. Used when no Telegram credentials are configured.
type LogSink struct {
	logger *logger.Logger
}

var _ Sink = (*LogSink)(nil)

// NewLogSink creates a LogSink.
func NewLogSink(logger *logger.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send implements Sink.
func (l *LogSink) Send(ctx context.Context, text string) error {
	l.logger.Info("TRADE ALERT\n" + text)

	return nil
}
