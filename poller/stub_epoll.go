//go:build !linux

package poller

import (
	"github.com/ikilobyte/cevent/iface"
	"github.com/ikilobyte/cevent/util"
	"github.com/pkg/errors"
)

func newEpoll() (iface.IBackend, error) {
	return nil, errors.Wrap(util.BackendUnsupported, string(Epoll))
}
