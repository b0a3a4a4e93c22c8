//go:build linux

package eventloop

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

//newWakeup linux使用eventfd
func newWakeup() (*wakeup, error) {
	efd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, errors.Wrap(err, "eventfd")
	}

	token := make([]byte, 8)
	binary.NativeEndian.PutUint64(token, 1)

	return &wakeup{
		rfd:   efd,
		wfd:   efd,
		token: token,
		buff:  make([]byte, 8),
	}, nil
}
