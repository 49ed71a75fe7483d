package woocommerce

import (
	"time"

	"go.uber.org/zap"
)

// Exchange is one recorded API round-trip.
type Exchange struct {
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Recorder observes every API round-trip the client performs. Implementations
// must be fast; the client calls them on the request path.
type Recorder interface {
	Record(exchange Exchange)
}

// NopRecorder discards all exchanges.
type NopRecorder struct{}

// Record does nothing.
func (NopRecorder) Record(Exchange) {}

// LogRecorder writes each exchange to a structured logger at debug level,
// raising failures to warn.
type LogRecorder struct {
	logger *zap.Logger
}

// NewLogRecorder creates a recorder writing to the given logger.
func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record logs the exchange.
func (r *LogRecorder) Record(exchange Exchange) {
	fields := []zap.Field{
		zap.String("method", exchange.Method),
		zap.String("url", exchange.URL),
		zap.Int("status", exchange.StatusCode),
		zap.Duration("duration", exchange.Duration),
	}
	if exchange.Err != nil {
		r.logger.Warn("api request failed", append(fields, zap.Error(exchange.Err))...)
		return
	}
	r.logger.Debug("api request", fields...)
}
