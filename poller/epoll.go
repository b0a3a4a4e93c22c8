//go:build linux

package poller

import (
	"time"

	"github.com/ikilobyte/cevent/common"
	"github.com/ikilobyte/cevent/iface"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type epoll struct {
	epfd   int                 // eventpoll fd
	events []unix.EpollEvent   //
	masks  map[int]common.Mask // 每个fd已经注册到epoll的事件，决定用ADD还是MOD
}

//newEpoll 创建epoll
func newEpoll() (iface.IBackend, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "epoll_create1")
	}

	return &epoll{
		epfd:   fd,
		events: make([]unix.EpollEvent, 128),
		masks:  map[int]common.Mask{},
	}, nil
}

func (p *epoll) Name() string {
	return string(Epoll)
}

//Add 添加事件，已经存在的fd使用MOD合并
func (p *epoll) Add(fd int, mask common.Mask) error {
	old := p.masks[fd]
	merged := old | mask.Valid()

	op := unix.EPOLL_CTL_MOD
	if old == common.None {
		op = unix.EPOLL_CTL_ADD
	}

	err := p.ctl(op, fd, merged)
	if op == unix.EPOLL_CTL_MOD && errors.Is(err, unix.ENOENT) {
		// fd关闭时内核已经移除，这是复用同一个数字的新fd
		err = p.ctl(unix.EPOLL_CTL_ADD, fd, merged)
	}
	if err != nil {
		return err
	}
	p.masks[fd] = merged
	return nil
}

//Del 删除事件，全部删完之后从epoll中移除这个fd
func (p *epoll) Del(fd int, mask common.Mask) error {
	old, ok := p.masks[fd]
	if !ok {
		return nil
	}

	remain := old &^ mask
	if remain == old {
		return nil
	}

	if remain == common.None {
		delete(p.masks, fd)
		return p.ctl(unix.EPOLL_CTL_DEL, fd, common.None)
	}

	p.masks[fd] = remain
	return p.ctl(unix.EPOLL_CTL_MOD, fd, remain)
}

func (p *epoll) ctl(op, fd int, mask common.Mask) error {
	var event *unix.EpollEvent
	if op != unix.EPOLL_CTL_DEL {
		event = &unix.EpollEvent{
			Events: toEpoll(mask),
			Fd:     int32(fd),
		}
	}

	if err := unix.EpollCtl(p.epfd, op, fd, event); err != nil {
		return errors.Wrapf(err, "epoll_ctl op=%d fd=%d", op, fd)
	}
	return nil
}

//Wait 等待就绪，EINTR当作一次空的唤醒
func (p *epoll) Wait(events []common.Fired, timeout time.Duration) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if len(p.events) < len(events) {
		p.events = make([]unix.EpollEvent, len(events))
	}

	n, err := unix.EpollWait(p.epfd, p.events[:len(events)], msec(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, errors.Wrap(err, "epoll_wait")
	}

	for i := 0; i < n; i++ {
		var (
			ev   = p.events[i]
			fd   = int(ev.Fd)
			mask common.Mask
		)

		if ev.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
			mask |= common.Readable
		}
		if ev.Events&unix.EPOLLOUT != 0 {
			mask |= common.Writable
		}

		// 出错或者对端关闭，交给已注册的回调去发现
		if ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			mask |= p.masks[fd]
		}

		events[i] = common.Fired{Fd: fd, Mask: mask}
	}
	return n, nil
}

//Close 关闭epoll
func (p *epoll) Close() error {
	return unix.Close(p.epfd)
}

func toEpoll(mask common.Mask) uint32 {
	var events uint32
	if mask&common.Readable != 0 {
		events |= unix.EPOLLIN | unix.EPOLLPRI
	}
	if mask&common.Writable != 0 {
		events |= unix.EPOLLOUT
	}
	return events
}
