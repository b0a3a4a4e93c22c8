package iface

import (
	"time"

	"github.com/ikilobyte/cevent/common"
)

//IBackend 系统事件通知机制的抽象层，epoll、kqueue、poll各自实现一次
type IBackend interface {
	Name() string                                                   // 后端名称
	Add(fd int, mask common.Mask) error                             // 注册事件
	Del(fd int, mask common.Mask) error                             // 取消事件
	Wait(events []common.Fired, timeout time.Duration) (int, error) // 等待就绪，timeout < 0 表示一直阻塞
	Close() error
}
