// Package logger provides the structured logger used across the LambdaDB Go client.
//
// It wraps Uber's zap with a small, map-based field API so that packages such
// as lambdadb can depend on a narrow Logger interface instead of zap itself.
// It integrates with fx for applications that use dependency injection.
//
// # Architecture
//
// The package follows the "accept interfaces, return structs" pattern:
//   - Logger interface: the contract consumed by other packages
//   - LoggerClient struct: the zap-backed implementation
//   - NewLoggerClient constructor: returns *LoggerClient
//   - FXModule: provides both *LoggerClient and the Logger interface
//
// # Direct Usage (Without FX)
//
//	import "github.com/lambdadb/lambdadb-go/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "search-api",
//		EnableTracing: true,
//	})
//
//	log.Info("collection created", nil, map[string]interface{}{
//		"collection": "articles",
//	})
//
//	// trace_id and span_id are added when ctx carries an active span
//	log.InfoWithContext(ctx, "query finished", nil, map[string]interface{}{
//		"took_ms": 12,
//	})
//
// The lambdadb client accepts any Logger:
//
//	client = client.WithLogger(log)
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Info, ServiceName: "search-api"}
//		}),
//	)
//
// # Configuration
//
//	LOGGER_LEVEL=debug              # debug, info, warning, error
//	LOGGER_SERVICE_NAME=search-api  # added to every entry as "service"
//	LOGGER_ENABLE_TRACING=true      # add trace_id/span_id from context
//
// # Thread Safety
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
