package gpu

import (
	"fmt"

	"codeberg.org/mutker/hostctl/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const (
	// Initialization and Lifecycle Errors
	ErrNotInitialized   = errors.ErrorCode("gpu_not_initialized")
	ErrInitFailed       = errors.ErrorCode("gpu_init_failed")
	ErrDeviceNotFound   = errors.ErrorCode("gpu_device_not_found")
	ErrShutdownFailed   = errors.ErrorCode("gpu_shutdown_failed")
	ErrDeviceInfoFailed = errors.ErrorCode("gpu_device_info_failed")

	ErrTemperatureReadFailed = errors.ErrorCode("gpu_temperature_read_failed")
	ErrDeviceCountFailed     = errors.ErrorCode("gpu_device_count_failed")
)

// nvmlError represents an NVML-specific error
type nvmlError struct {
	ret nvml.Return
}

var nvmlMessages = map[nvml.Return]string{
	nvml.ERROR_UNINITIALIZED:     "NVML not initialized",
	nvml.ERROR_NOT_SUPPORTED:     "not supported by device",
	nvml.ERROR_NO_PERMISSION:     "insufficient permissions",
	nvml.ERROR_NOT_FOUND:         "not found",
	nvml.ERROR_LIBRARY_NOT_FOUND: "NVML shared library not found",
	nvml.ERROR_DRIVER_NOT_LOADED: "NVIDIA driver not loaded",
	nvml.ERROR_GPU_IS_LOST:       "GPU is lost",
	nvml.ERROR_UNKNOWN:           "unknown NVML error",
}

// Error avoids nvml.ErrorString, which needs the shared library loaded.
func (e nvmlError) Error() string {
	if msg, ok := nvmlMessages[e.ret]; ok {
		return msg
	}

	return fmt.Sprintf("NVML return code %d", int32(e.ret))
}

// newNVMLError creates an error from an NVML return code
func newNVMLError(ret nvml.Return) error {
	if ret == nvml.SUCCESS {
		return nil
	}
	return &nvmlError{ret: ret}
}

// IsNVMLSuccess checks if a Return value indicates success
func IsNVMLSuccess(ret nvml.Return) bool {
	return ret == nvml.SUCCESS
}
