package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrCapacityExceeded = fmt.Errorf("session capacity exceeded")
	ErrRoleNotFound     = fmt.Errorf("role not registered")
	ErrBlankLine        = fmt.Errorf("blank line")
	ErrUnknownFrame     = fmt.Errorf("unknown frame")
)
