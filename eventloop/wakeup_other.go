//go:build !linux && !darwin && !freebsd && !dragonfly

package eventloop

import (
	"github.com/ikilobyte/cevent/common"
	"github.com/ikilobyte/cevent/util"
	"github.com/pkg/errors"
)

type wakeup struct{}

func newWakeup() (*wakeup, error) {
	return nil, errors.Wrap(util.BackendUnsupported, "wakeup")
}

func (w *wakeup) fd() int                           { return -1 }
func (w *wakeup) wake() bool                        { return false }
func (w *wakeup) isClosed() bool                    { return true }
func (w *wakeup) Handle(fd int, fired common.Mask) {}
func (w *wakeup) close()                            {}
