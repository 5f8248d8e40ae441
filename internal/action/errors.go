package action

import (
	"os"

	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/platform"
)

const ErrHandlerPanic = errors.ErrorCode("action_handler_panic")

// classify turns an error from the platform layer into a failed Result.
func classify(err error) Result {
	switch {
	case errors.HasCode(err, platform.ErrCommandFailed),
		errors.HasCode(err, platform.ErrCommandNotFound):
		return Fail(KindServerError, err.Error())
	case errors.HasCode(err, platform.ErrProcessNotFound),
		errors.Is(err, os.ErrNotExist):
		return Fail(KindNotFound, err.Error())
	case errors.HasCode(err, platform.ErrAccessDenied),
		errors.HasCode(err, errors.ErrPermission),
		errors.Is(err, os.ErrPermission):
		return Fail(KindForbidden, err.Error())
	case errors.HasCode(err, platform.ErrUnsupported):
		return Fail(KindNotImplemented, err.Error())
	default:
		return Fail(KindServerError, err.Error())
	}
}

func unavailable(what string) Result {
	return Fail(KindNotImplemented, what+" not available on this system.")
}
