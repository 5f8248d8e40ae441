package httpserver

import "codeberg.org/mutker/hostctl/internal/errors"

const (
	ErrInvalidSubnet = errors.ErrorCode("http_invalid_subnet")
	ErrListenFailed  = errors.ErrorCode("http_listen_failed")
	ErrServeFailed   = errors.ErrorCode("http_serve_failed")
	ErrShutdown      = errors.ErrShutdownFailed
)
