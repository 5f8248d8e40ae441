package telemetry

import "codeberg.org/mutker/hostctl/internal/errors"

const (
	ErrInvalidConfig = errors.ErrorCode("telemetry_invalid_config")
	ErrPollFailed    = errors.ErrorCode("telemetry_poll_failed")
	ErrPollPanic     = errors.ErrorCode("telemetry_poll_panic")
)
