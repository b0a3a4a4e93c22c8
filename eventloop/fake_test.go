package eventloop

import (
	"time"

	"github.com/ikilobyte/cevent/common"
)

type call struct {
	fd   int
	mask common.Mask
}

//fakeBackend 按顺序返回预设的wait结果，记录所有调用
type fakeBackend struct {
	adds        []call
	dels        []call
	waits       int
	fired       [][]common.Fired
	lastTimeout time.Duration
	addErr      error
	delErr      error
	waitErr     error
	closeErr    error
	closed      int
}

func (f *fakeBackend) Name() string {
	return "fake"
}

func (f *fakeBackend) Add(fd int, mask common.Mask) error {
	f.adds = append(f.adds, call{fd: fd, mask: mask})
	return f.addErr
}

func (f *fakeBackend) Del(fd int, mask common.Mask) error {
	f.dels = append(f.dels, call{fd: fd, mask: mask})
	return f.delErr
}

func (f *fakeBackend) Wait(events []common.Fired, timeout time.Duration) (int, error) {
	f.waits++
	f.lastTimeout = timeout
	if f.waitErr != nil {
		return 0, f.waitErr
	}
	if len(f.fired) == 0 {
		return 0, nil
	}

	batch := f.fired[0]
	f.fired = f.fired[1:]
	return copy(events, batch), nil
}

func (f *fakeBackend) Close() error {
	f.closed++
	return f.closeErr
}

//recorder 记录被调用的情况，用指针比较是否是同一个回调
type recorder struct {
	name  string
	calls []common.Fired
}

func newRecorder(name string) *recorder {
	return &recorder{name: name}
}

func (r *recorder) Handle(fd int, fired common.Mask) {
	r.calls = append(r.calls, common.Fired{Fd: fd, Mask: fired})
}
