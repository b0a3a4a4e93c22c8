package util

import (
	"fmt"

	"github.com/pkg/errors"
)

var FdOutOfRange = errors.New("fd out of range")
var MultiplexerDestroyed = errors.New("multiplexer destroyed")
var BackendUnsupported = errors.New("backend unsupported on this platform")
var UnknownBackend = errors.New("unknown backend")
var LoopClosed = errors.New("event loop already running or closed")

//BackendError 底层的epoll/kqueue/poll调用出错
type BackendError struct {
	Op  string // add、del、wait、close
	Fd  int    // 出错的fd，wait、close时为-1
	Err error
}

//NewBackendError err为nil时返回nil
func NewBackendError(op string, fd int, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Fd: fd, Err: err}
}

func (e *BackendError) Error() string {
	if e.Fd < 0 {
		return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("backend %s fd=%d: %v", e.Op, e.Fd, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

//Cause 兼容 github.com/pkg/errors
func (e *BackendError) Cause() error {
	return e.Err
}

//IsBackendError .
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
