//go:build darwin || freebsd || dragonfly

package eventloop

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

//newWakeup bsd系使用pipe
func newWakeup() (*wakeup, error) {
	fds := make([]int, 2)
	if err := unix.Pipe(fds); err != nil {
		return nil, errors.Wrap(err, "pipe")
	}

	for _, fd := range fds {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(fds[0])
			_ = unix.Close(fds[1])
			return nil, errors.Wrap(err, "pipe nonblock")
		}
	}

	return &wakeup{
		rfd:   fds[0],
		wfd:   fds[1],
		token: []byte{1},
		buff:  make([]byte, 64),
	}, nil
}
