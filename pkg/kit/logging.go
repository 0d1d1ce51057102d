package kit

import "go.uber.org/zap"

// NewLogger builds the process-wide production logger. Every entry carries
// the service name so a shared log stream stays attributable.
func NewLogger(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
