// Package logger builds log/slog loggers with a consistent setup: a
// JSON handler for production log aggregation or a text handler for
// development, level and format resolvable from the environment, and
// static attributes stamped on every record.
//
// # Usage
//
//	log := logger.New(logger.WithTextFormatter(), logger.WithLevel(slog.LevelDebug))
//
// or, twelve-factor style:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg)
package logger
