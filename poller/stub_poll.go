//go:build !linux && !darwin && !freebsd && !dragonfly

package poller

import (
	"github.com/ikilobyte/cevent/iface"
	"github.com/ikilobyte/cevent/util"
	"github.com/pkg/errors"
)

func newPoll() (iface.IBackend, error) {
	return nil, errors.Wrap(util.BackendUnsupported, string(Poll))
}
