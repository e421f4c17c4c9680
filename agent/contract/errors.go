package contract

import "errors"

var (
	ErrDataLoad        = errors.New("dataset load failed")
	ErrBackend         = errors.New("backend call failed")
	ErrSchemaViolation = errors.New("model response violates contract")
	ErrUnknownTracking = errors.New("unknown tracking id")
	ErrValidation      = errors.New("validation failed")
)
