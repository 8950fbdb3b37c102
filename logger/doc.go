// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers. Solve runs are correlated through the run ID
// and the active OpenTelemetry span carried on the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get(logger.ComponentMDP)
//	log.Info("solve finished", logger.Fields("policy_iterations", 3))
package logger
