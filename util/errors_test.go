package util

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestNewBackendErrorNil(t *testing.T) {
	assert.NoError(t, NewBackendError("add", 3, nil))
}

func TestBackendError(t *testing.T) {
	err := NewBackendError("add", 3, errors.Wrap(unix.EBADF, "epoll_ctl"))
	assert.True(t, IsBackendError(err))
	assert.True(t, errors.Is(err, unix.EBADF))
	assert.Equal(t, "backend add fd=3: epoll_ctl: bad file descriptor", err.Error())
	assert.Equal(t, unix.EBADF, errors.Cause(err))

	err = NewBackendError("wait", -1, unix.EINVAL)
	assert.Equal(t, "backend wait: invalid argument", err.Error())
}

func TestWrappedBackendError(t *testing.T) {
	err := errors.Wrap(NewBackendError("del", 7, unix.ENOENT), "remove interest")
	assert.True(t, IsBackendError(err))
	assert.False(t, IsBackendError(FdOutOfRange))
	assert.True(t, errors.Is(errors.Wrapf(FdOutOfRange, "fd %d", 2000), FdOutOfRange))
}
