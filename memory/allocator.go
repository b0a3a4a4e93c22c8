package memory

import (
	"unsafe"

	"github.com/ikilobyte/cevent/util"
	"github.com/sirupsen/logrus"
)

//PrefixSize 每次分配额外记账的头部大小
const PrefixSize = int64(unsafe.Sizeof(uint64(0)))

//Allocator 内存分配的统一入口，负责记账，分配失败直接panic，不返回错误
type Allocator struct {
	counter *Counter
	limit   int64 // <=0 不限制
	logger  *logrus.Logger
}

type Option = func(a *Allocator)

//Default 使用DefaultCounter的全局分配器
var Default = NewAllocator()

func NewAllocator(opts ...Option) *Allocator {
	a := &Allocator{
		counter: DefaultCounter,
		logger:  util.Logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

//WithCounter 使用指定的计数器
func WithCounter(counter *Counter) Option {
	return func(a *Allocator) {
		a.counter = counter
	}
}

//WithLimit 已使用字节数的上限，超过时视为内存不足
func WithLimit(limit int64) Option {
	return func(a *Allocator) {
		a.limit = limit
	}
}

//WithLogger .
func WithLogger(logger *logrus.Logger) Option {
	return func(a *Allocator) {
		a.logger = logger
	}
}

//Counter .
func (a *Allocator) Counter() *Counter {
	return a.counter
}

//Used 当前已使用的字节数
func (a *Allocator) Used() int64 {
	return a.counter.Load()
}

//Alloc 分配size字节
func (a *Allocator) Alloc(size int) []byte {
	a.charge(int64(size))
	return make([]byte, size)
}

//Realloc 调整大小，保留原有数据
func (a *Allocator) Realloc(buf []byte, size int) []byte {
	if buf == nil {
		return a.Alloc(size)
	}
	if size < 0 {
		a.oom(int64(size))
	}

	old := int64(cap(buf))
	if delta := int64(size) - old; delta > 0 {
		a.reserve(int64(size), delta)
	} else {
		a.counter.Add(delta)
	}

	if size <= cap(buf) {
		return buf[:size:size]
	}
	newBuf := make([]byte, size)
	copy(newBuf, buf)
	return newBuf
}

//Free 释放，nil直接忽略
func (a *Allocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	a.counter.Add(-(int64(cap(buf)) + PrefixSize))
}

//charge 分配前记账，包含头部
func (a *Allocator) charge(size int64) {
	if size < 0 {
		a.oom(size)
	}
	a.reserve(size, size+PrefixSize)
}

func (a *Allocator) reserve(size, delta int64) {
	used := a.counter.Add(delta)
	if a.limit > 0 && used > a.limit {
		a.counter.Add(-delta)
		a.oom(size)
	}
}

func (a *Allocator) oom(size int64) {
	a.logger.WithField("used", a.counter.Load()).Panicf("out of memory trying to allocate %d", size)
}

//MakeSlice 通过allocator分配n个T
func MakeSlice[T any](a *Allocator, n int) []T {
	var zero T
	a.charge(int64(n) * int64(unsafe.Sizeof(zero)))
	return make([]T, n)
}

//FreeSlice 释放MakeSlice分配的slice，nil直接忽略
func FreeSlice[T any](a *Allocator, s []T) {
	if s == nil {
		return
	}
	var zero T
	a.counter.Add(-(int64(cap(s))*int64(unsafe.Sizeof(zero)) + PrefixSize))
}
