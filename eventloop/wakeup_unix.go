//go:build linux || darwin || freebsd || dragonfly

package eventloop

import (
	"sync"

	"github.com/ikilobyte/cevent/common"
	"golang.org/x/sys/unix"
)

//wakeup 用来唤醒阻塞在wait里的事件循环
type wakeup struct {
	rfd    int
	wfd    int
	token  []byte
	buff   []byte
	locker sync.Mutex
	closed bool // close之后fd可能已经被系统分配给别的文件，不能再写
}

func (w *wakeup) fd() int {
	return w.rfd
}

//wake 写满了说明事件循环还没处理上一次唤醒，忽略；已经关闭时返回false
func (w *wakeup) wake() bool {
	w.locker.Lock()
	defer w.locker.Unlock()
	if w.closed {
		return false
	}
	_, _ = unix.Write(w.wfd, w.token)
	return true
}

func (w *wakeup) isClosed() bool {
	w.locker.Lock()
	defer w.locker.Unlock()
	return w.closed
}

//Handle 读空
func (w *wakeup) Handle(fd int, fired common.Mask) {
	for {
		n, err := unix.Read(w.rfd, w.buff)
		if n <= 0 || err != nil {
			return
		}
	}
}

func (w *wakeup) close() {
	w.locker.Lock()
	defer w.locker.Unlock()
	if w.closed {
		return
	}
	w.closed = true

	_ = unix.Close(w.rfd)
	if w.wfd != w.rfd {
		_ = unix.Close(w.wfd)
	}
}
