package rendez

import "go.uber.org/zap"

// Logger is the narrow logging seam the queue writes its (rare,
// debug-level) lifecycle events through: a sender or receiver
// blocking, and the channel closing. Pairings and cancellations are
// not logged. The default Queue uses noopLogger,
// so logging costs nothing unless a caller opts in with WithLogger.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}

// zapLogger adapts *zap.SugaredLogger to Logger, the same seam
// go-language-server-jsonrpc2 wires zap through.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (z zapLogger) Debugw(msg string, keysAndValues ...interface{}) {
	z.s.Debugw(msg, keysAndValues...)
}

// NewZapLogger wraps a *zap.Logger as a Logger suitable for WithLogger.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{s: l.Sugar()}
}
