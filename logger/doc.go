// Package logger provides structured logging for batchkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("batch")
//	log.Info("run finished", logger.Fields(logger.FieldSetKey, key, logger.FieldBatches, n))
package logger
