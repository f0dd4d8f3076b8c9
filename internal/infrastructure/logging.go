package infrastructure

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the diagnostics logger. Entries go to stderr only so they
// never mix with response bodies.
func NewLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.Development = true
		config.Sampling = nil
	}
	return config.Build()
}

// LogRegistry dumps the loaded pools at debug level.
func LogRegistry(logger *zap.Logger, registry *BackendRegistry) {
	for _, resourceType := range registry.ResourceTypes() {
		lb, _ := registry.Lookup(resourceType)
		addresses := make([]string, 0, len(lb.Backends()))
		for _, b := range lb.Backends() {
			addresses = append(addresses, b.Address())
		}
		logger.Debug("Backend pool",
			zap.String("resource_type", resourceType),
			zap.Int("port", lb.Port()),
			zap.Int("total", len(addresses)),
			zap.Strings("backends", addresses))
	}
}
