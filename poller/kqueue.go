//go:build darwin || freebsd || dragonfly

package poller

import (
	"time"

	"github.com/ikilobyte/cevent/common"
	"github.com/ikilobyte/cevent/iface"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type kqueue struct {
	kqfd   int
	events []unix.Kevent_t
	index  map[int]int // 同一个fd的读写是两条kevent，wait时按fd合并
}

//newKqueue 创建kqueue
func newKqueue() (iface.IBackend, error) {
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, errors.Wrap(err, "kqueue")
	}

	return &kqueue{
		kqfd:   fd,
		events: make([]unix.Kevent_t, 128),
		index:  map[int]int{},
	}, nil
}

func (p *kqueue) Name() string {
	return string(Kqueue)
}

func (p *kqueue) Add(fd int, mask common.Mask) error {
	return p.change(fd, mask, unix.EV_ADD)
}

func (p *kqueue) Del(fd int, mask common.Mask) error {
	return p.change(fd, mask, unix.EV_DELETE)
}

func (p *kqueue) change(fd int, mask common.Mask, flags int) error {
	changes := make([]unix.Kevent_t, 0, 2)
	if mask&common.Readable != 0 {
		var ev unix.Kevent_t
		unix.SetKevent(&ev, fd, unix.EVFILT_READ, flags)
		changes = append(changes, ev)
	}
	if mask&common.Writable != 0 {
		var ev unix.Kevent_t
		unix.SetKevent(&ev, fd, unix.EVFILT_WRITE, flags)
		changes = append(changes, ev)
	}
	if len(changes) == 0 {
		return nil
	}

	if _, err := unix.Kevent(p.kqfd, changes, nil, nil); err != nil {
		return errors.Wrapf(err, "kevent flags=%#x fd=%d", flags, fd)
	}
	return nil
}

//Wait 等待就绪，EINTR当作一次空的唤醒
func (p *kqueue) Wait(events []common.Fired, timeout time.Duration) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if len(p.events) < len(events) {
		p.events = make([]unix.Kevent_t, len(events))
	}

	var ts *unix.Timespec
	if timeout >= 0 {
		spec := unix.NsecToTimespec(int64(timeout))
		ts = &spec
	}

	n, err := unix.Kevent(p.kqfd, nil, p.events[:len(events)], ts)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, errors.Wrap(err, "kevent wait")
	}

	clear(p.index)
	count := 0
	for i := 0; i < n; i++ {
		var (
			ev   = p.events[i]
			fd   = int(ev.Ident)
			mask common.Mask
		)

		switch ev.Filter {
		case unix.EVFILT_READ:
			mask = common.Readable
		case unix.EVFILT_WRITE:
			mask = common.Writable
		default:
			continue
		}

		if j, ok := p.index[fd]; ok {
			events[j].Mask |= mask
			continue
		}
		p.index[fd] = count
		events[count] = common.Fired{Fd: fd, Mask: mask}
		count++
	}
	return count, nil
}

func (p *kqueue) Close() error {
	return unix.Close(p.kqfd)
}
