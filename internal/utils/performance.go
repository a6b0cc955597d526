package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// OperationTimer provides a defer-friendly way to measure operation duration.
// Operations slower than slowThreshold are logged at warn level.
//
// Usage:
//
//	stop := utils.OperationTimer("roster_rebuild", time.Minute, log)
//	defer stop()
func OperationTimer(operation string, slowThreshold time.Duration, log zerolog.Logger) func() time.Duration {
	start := time.Now()

	return func() time.Duration {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		if slowThreshold > 0 && duration > slowThreshold {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Dur("threshold", slowThreshold).
				Msg("Slow operation detected")
		}

		return duration
	}
}
