package platform

import "codeberg.org/mutker/hostctl/internal/errors"

const (
	ErrNoBattery        = errors.ErrorCode("platform_no_battery")
	ErrQueryFailed      = errors.ErrorCode("platform_query_failed")
	ErrUnsupported      = errors.ErrorCode("platform_unsupported")
	ErrCommandFailed    = errors.ErrorCode("platform_command_failed")
	ErrCommandNotFound  = errors.ErrorCode("platform_command_not_found")
	ErrProcessNotFound  = errors.ErrorCode("platform_process_not_found")
	ErrAccessDenied     = errors.ErrorCode("platform_access_denied")
	ErrInvalidPowerPlan = errors.ErrorCode("platform_invalid_power_plan")
)
