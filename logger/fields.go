package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"

	// Iteration fields.
	FieldSetKey      = "set_key"
	FieldBatchIndex  = "batch_index"
	FieldBatchSize   = "batch_size"
	FieldBatches     = "batches"
	FieldItems       = "items"
	FieldWindowStart = "window_start"
	FieldWindowStop  = "window_stop"
	FieldPath        = "path"
	FieldTotal       = "total"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "save", "id", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// WindowFields creates fields describing one iteration window.
func WindowFields(index int, start, stop int64) map[string]interface{} {
	return map[string]interface{}{
		FieldBatchIndex:  index,
		FieldWindowStart: start,
		FieldWindowStop:  stop,
	}
}

// MergeFields combines field maps; later maps win on key collisions.
func MergeFields(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
