package poller

import (
	"runtime"
	"strings"
	"time"

	"github.com/ikilobyte/cevent/iface"
	"github.com/ikilobyte/cevent/util"
	"github.com/pkg/errors"
)

//Kind 后端类型，启动时选择
type Kind string

const (
	Default Kind = "default" // 根据系统选择，linux是epoll，bsd系是kqueue，其他用poll
	Epoll   Kind = "epoll"
	Kqueue  Kind = "kqueue"
	Poll    Kind = "poll"
)

//ParseKind 解析后端名称，空字符串视为Default
func ParseKind(name string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(name))); kind {
	case "", Default:
		return Default, nil
	case Epoll, Kqueue, Poll:
		return kind, nil
	default:
		return "", errors.Wrapf(util.UnknownBackend, "%q", name)
	}
}

//DefaultKind 当前系统默认的后端
func DefaultKind() Kind {
	switch runtime.GOOS {
	case "linux":
		return Epoll
	case "darwin", "freebsd", "dragonfly":
		return Kqueue
	default:
		return Poll
	}
}

//New 创建后端
func New(kind Kind) (iface.IBackend, error) {
	if kind == "" || kind == Default {
		kind = DefaultKind()
	}

	switch kind {
	case Epoll:
		return newEpoll()
	case Kqueue:
		return newKqueue()
	case Poll:
		return newPoll()
	default:
		return nil, errors.Wrapf(util.UnknownBackend, "%q", string(kind))
	}
}

//msec 转成毫秒，负数表示一直阻塞，不足1毫秒的向上取整
func msec(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}

	ms := timeout / time.Millisecond
	if timeout%time.Millisecond != 0 {
		ms++
	}
	return int(ms)
}
