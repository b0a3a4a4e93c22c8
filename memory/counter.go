package memory

import "sync/atomic"

//Counter 已分配内存的计数器，所有更新都是原子操作
type Counter struct {
	used atomic.Int64
}

//DefaultCounter 进程级别的计数器，进程启动时为0
var DefaultCounter = NewCounter()

func NewCounter() *Counter {
	return new(Counter)
}

//Add 增加delta字节，可以是负数，返回更新后的值
func (c *Counter) Add(delta int64) int64 {
	return c.used.Add(delta)
}

//Load 当前已使用的字节数
func (c *Counter) Load() int64 {
	return c.used.Load()
}

//Reset 归零，测试用
func (c *Counter) Reset() {
	c.used.Store(0)
}
