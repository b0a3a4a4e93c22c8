//go:build linux

package poller

import (
	"testing"
	"time"

	"github.com/ikilobyte/cevent/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestEpollAddReusedFd(t *testing.T) {
	backend, err := newEpoll()
	require.NoError(t, err)
	defer backend.Close()

	old, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	fd := old[0]
	require.NoError(t, backend.Add(fd, common.Readable))

	// 没有调用Del就关闭，内核自动从epoll中移除
	require.NoError(t, unix.Close(old[0]))
	require.NoError(t, unix.Close(old[1]))

	pair, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	defer unix.Close(pair[1])
	if pair[0] != fd {
		require.NoError(t, unix.Dup3(pair[0], fd, 0))
		require.NoError(t, unix.Close(pair[0]))
	}
	defer unix.Close(fd)

	require.NoError(t, backend.Add(fd, common.Writable))

	fired := waitFor(t, backend, time.Second)
	require.Len(t, fired, 1)
	assert.Equal(t, common.Fired{Fd: fd, Mask: common.Writable}, fired[0])
}
