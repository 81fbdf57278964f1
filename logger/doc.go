// Package logger provides structured logging for authkit components
// using zerolog.
//
// It supports JSON and console output formats, log level configuration,
// and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("auth")
//	log.Info("callback processed", logger.Fields("provider", "google"))
package logger
