//go:build linux || darwin || freebsd || dragonfly

package poller

import (
	"time"

	"github.com/ikilobyte/cevent/common"
	"github.com/ikilobyte/cevent/iface"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

//pollBackend poll(2)，没有内核侧的注册，fd集合保存在用户态
type pollBackend struct {
	fds   []unix.PollFd
	index map[int]int // fd => fds下标
}

func newPoll() (iface.IBackend, error) {
	return &pollBackend{
		fds:   make([]unix.PollFd, 0, 64),
		index: map[int]int{},
	}, nil
}

func (p *pollBackend) Name() string {
	return string(Poll)
}

//Add poll本身不校验fd，这里用fcntl提前发现无效的fd
func (p *pollBackend) Add(fd int, mask common.Mask) error {
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err != nil {
		return errors.Wrapf(err, "poll register fd=%d", fd)
	}

	if i, ok := p.index[fd]; ok {
		p.fds[i].Events |= toPoll(mask)
		return nil
	}

	p.index[fd] = len(p.fds)
	p.fds = append(p.fds, unix.PollFd{Fd: int32(fd), Events: toPoll(mask)})
	return nil
}

func (p *pollBackend) Del(fd int, mask common.Mask) error {
	i, ok := p.index[fd]
	if !ok {
		return nil
	}

	p.fds[i].Events &^= toPoll(mask)
	if p.fds[i].Events != 0 {
		return nil
	}

	// 和最后一个交换后删除
	last := len(p.fds) - 1
	if i != last {
		p.fds[i] = p.fds[last]
		p.index[int(p.fds[i].Fd)] = i
	}
	p.fds = p.fds[:last]
	delete(p.index, fd)
	return nil
}

func (p *pollBackend) Wait(events []common.Fired, timeout time.Duration) (int, error) {
	n, err := unix.Poll(p.fds, msec(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, errors.Wrap(err, "poll")
	}
	if n <= 0 {
		return 0, nil
	}

	count := 0
	for i := range p.fds {
		if count >= len(events) {
			break
		}

		pfd := p.fds[i]
		if pfd.Revents == 0 {
			continue
		}

		var mask common.Mask
		if pfd.Revents&(unix.POLLIN|unix.POLLPRI) != 0 {
			mask |= common.Readable
		}
		if pfd.Revents&unix.POLLOUT != 0 {
			mask |= common.Writable
		}
		if pfd.Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			mask |= fromPoll(pfd.Events)
		}

		events[count] = common.Fired{Fd: int(pfd.Fd), Mask: mask}
		count++
	}
	return count, nil
}

func (p *pollBackend) Close() error {
	p.fds = nil
	p.index = map[int]int{}
	return nil
}

func toPoll(mask common.Mask) int16 {
	var events int16
	if mask&common.Readable != 0 {
		events |= unix.POLLIN | unix.POLLPRI
	}
	if mask&common.Writable != 0 {
		events |= unix.POLLOUT
	}
	return events
}

func fromPoll(events int16) common.Mask {
	var mask common.Mask
	if events&unix.POLLIN != 0 {
		mask |= common.Readable
	}
	if events&unix.POLLOUT != 0 {
		mask |= common.Writable
	}
	return mask
}
