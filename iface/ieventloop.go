package iface

import "github.com/ikilobyte/cevent/common"

//IEventLoop 事件循环抽象层，wait之后根据结果调用绑定的回调
type IEventLoop interface {
	Run() error       // 开启事件循环，直到Stop或者后端出错
	Stop()            // 停止，任意goroutine都可以调用
	Post(task func()) // 投递一个任务到事件循环里执行
	AddInterest(fd int, mask common.Mask, handler IHandler) error
	RemoveInterest(fd int, mask common.Mask) error
}
