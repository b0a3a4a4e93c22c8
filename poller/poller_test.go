//go:build linux || darwin || freebsd || dragonfly

package poller

import (
	"testing"
	"time"

	"github.com/ikilobyte/cevent/common"
	"github.com/ikilobyte/cevent/iface"
	"github.com/ikilobyte/cevent/util"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

//availableKinds 当前系统可以使用的后端
func availableKinds() []Kind {
	kinds := []Kind{Poll}
	if DefaultKind() != Poll {
		kinds = append(kinds, DefaultKind())
	}
	return kinds
}

func socketPair(t *testing.T) (int, int) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func waitFor(t *testing.T, backend iface.IBackend, timeout time.Duration) []common.Fired {
	events := make([]common.Fired, 16)
	n, err := backend.Wait(events, timeout)
	require.NoError(t, err)
	return events[:n]
}

func eachBackend(t *testing.T, fn func(t *testing.T, backend iface.IBackend)) {
	for _, kind := range availableKinds() {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			backend, err := New(kind)
			require.NoError(t, err)
			defer backend.Close()
			assert.Equal(t, string(kind), backend.Name())
			fn(t, backend)
		})
	}
}

func TestReadable(t *testing.T) {
	eachBackend(t, func(t *testing.T, backend iface.IBackend) {
		a, b := socketPair(t)
		require.NoError(t, backend.Add(a, common.Readable))

		// 没有数据
		assert.Empty(t, waitFor(t, backend, 0))

		_, err := unix.Write(b, []byte("ping"))
		require.NoError(t, err)

		fired := waitFor(t, backend, time.Second)
		require.Len(t, fired, 1)
		assert.Equal(t, common.Fired{Fd: a, Mask: common.Readable}, fired[0])
	})
}

func TestReadWriteMerged(t *testing.T) {
	eachBackend(t, func(t *testing.T, backend iface.IBackend) {
		a, b := socketPair(t)
		require.NoError(t, backend.Add(a, common.Readable))
		require.NoError(t, backend.Add(a, common.Writable))

		fired := waitFor(t, backend, time.Second)
		require.Len(t, fired, 1)
		assert.Equal(t, common.Fired{Fd: a, Mask: common.Writable}, fired[0])

		_, err := unix.Write(b, []byte("ping"))
		require.NoError(t, err)

		fired = waitFor(t, backend, time.Second)
		require.Len(t, fired, 1)
		assert.Equal(t, common.Fired{Fd: a, Mask: common.All}, fired[0])

		// 去掉可写之后只剩可读
		require.NoError(t, backend.Del(a, common.Writable))
		fired = waitFor(t, backend, time.Second)
		require.Len(t, fired, 1)
		assert.Equal(t, common.Fired{Fd: a, Mask: common.Readable}, fired[0])

		require.NoError(t, backend.Del(a, common.Readable))
		assert.Empty(t, waitFor(t, backend, 0))
	})
}

func TestDelUnknownFd(t *testing.T) {
	eachBackend(t, func(t *testing.T, backend iface.IBackend) {
		a, _ := socketPair(t)
		if backend.Name() == string(Kqueue) {
			// kqueue没有用户态记录，删除未注册的filter会报错
			assert.Error(t, backend.Del(a, common.Readable))
			return
		}
		assert.NoError(t, backend.Del(a, common.Readable))
	})
}

func TestAddBadFd(t *testing.T) {
	eachBackend(t, func(t *testing.T, backend iface.IBackend) {
		a, _ := socketPair(t)
		fd, err := unix.Dup(a)
		require.NoError(t, err)
		require.NoError(t, unix.Close(fd))

		err = backend.Add(fd, common.Readable)
		require.Error(t, err)
		assert.True(t, errors.Is(err, unix.EBADF))
	})
}

func TestWaitTimeout(t *testing.T) {
	eachBackend(t, func(t *testing.T, backend iface.IBackend) {
		start := time.Now()
		assert.Empty(t, waitFor(t, backend, 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	})
}

func TestHangupReportsRegistered(t *testing.T) {
	eachBackend(t, func(t *testing.T, backend iface.IBackend) {
		a, b := socketPair(t)
		require.NoError(t, backend.Add(a, common.Readable))
		require.NoError(t, unix.Shutdown(b, unix.SHUT_RDWR))

		fired := waitFor(t, backend, time.Second)
		require.Len(t, fired, 1)
		assert.Equal(t, a, fired[0].Fd)
		assert.True(t, fired[0].Mask.Has(common.Readable))
	})
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":        Default,
		"default": Default,
		"EPOLL":   Epoll,
		" kqueue": Kqueue,
		"poll":    Poll,
	}
	for name, want := range cases {
		kind, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, kind)
	}

	_, err := ParseKind("select")
	assert.True(t, errors.Is(err, util.UnknownBackend))
}

func TestNewUnknown(t *testing.T) {
	_, err := New(Kind("iocp"))
	assert.True(t, errors.Is(err, util.UnknownBackend))
}

func TestNewUnsupported(t *testing.T) {
	unsupported := Kqueue
	if DefaultKind() == Kqueue {
		unsupported = Epoll
	}
	_, err := New(unsupported)
	assert.True(t, errors.Is(err, util.BackendUnsupported))
}

func TestMsec(t *testing.T) {
	assert.Equal(t, -1, msec(-1))
	assert.Equal(t, 0, msec(0))
	assert.Equal(t, 1, msec(time.Microsecond))
	assert.Equal(t, 20, msec(20*time.Millisecond))
	assert.Equal(t, 21, msec(20*time.Millisecond+1))
}
