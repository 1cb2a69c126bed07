package generation

import "errors"

var (
	ErrBackendFailure     = errors.New("generation backend failed")
	ErrSchemaViolation    = errors.New("generation output violates the question schema")
	ErrBackendUnavailable = errors.New("no generation backend configured")
)
