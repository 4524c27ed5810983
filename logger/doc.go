// Package logger provides structured logging for xhrkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("xhr").WithFields(logger.Fields("request_id", id))
//	log.Debug("open", logger.Fields("method", "GET"))
package logger
