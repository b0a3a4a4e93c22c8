package eventloop

import (
	"time"

	"github.com/ikilobyte/cevent/common"
	"github.com/ikilobyte/cevent/iface"
	"github.com/ikilobyte/cevent/memory"
	"github.com/ikilobyte/cevent/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//Binding 一个fd上的事件和回调，Mask中没有的事件，回调即使还在也不应该被调用
type Binding struct {
	Mask       common.Mask
	OnReadable iface.IHandler
	OnWritable iface.IHandler
}

//Multiplexer 管理fd和回调的绑定关系，通过后端等待就绪事件，自己不会调用回调
//不是线程安全的，所有方法都应该在同一个goroutine里调用
type Multiplexer struct {
	backend  iface.IBackend
	bindings []Binding      // 直接用fd做下标
	reports  []common.Fired // wait的结果，下一次wait会覆盖
	highest  int            // 有事件的最大fd，没有时为0
	capacity int
	timeout  time.Duration
	alloc    *memory.Allocator
	logger   *logrus.Logger
}

//New 创建multiplexer，分配失败直接panic
func New(backend iface.IBackend, opts ...Option) *Multiplexer {
	return newMultiplexer(backend, parseOption(opts...))
}

func newMultiplexer(backend iface.IBackend, options *Options) *Multiplexer {
	if backend == nil {
		options.Logger.Panicln("multiplexer: nil backend")
	}

	m := &Multiplexer{
		backend:  backend,
		bindings: memory.MakeSlice[Binding](options.Allocator, options.Capacity),
		reports:  memory.MakeSlice[common.Fired](options.Allocator, options.Capacity),
		highest:  0,
		capacity: options.Capacity,
		timeout:  options.Timeout,
		alloc:    options.Allocator,
		logger:   options.Logger,
	}

	m.logger.WithField("backend", backend.Name()).WithField("capacity", m.capacity).Debug("multiplexer created")
	return m
}

//Destroy 释放绑定表和结果缓冲，关闭后端，重复调用是安全的
func (m *Multiplexer) Destroy() error {
	if m == nil {
		return nil
	}

	if m.bindings != nil {
		memory.FreeSlice(m.alloc, m.bindings)
	}
	if m.reports != nil {
		memory.FreeSlice(m.alloc, m.reports)
	}
	m.bindings = nil
	m.reports = nil
	m.highest = 0

	if m.backend == nil {
		return nil
	}

	backend := m.backend
	m.backend = nil
	m.logger.WithField("backend", backend.Name()).Debug("multiplexer destroyed")
	return util.NewBackendError("close", -1, backend.Close())
}

//AddInterest 给fd添加事件并绑定回调，后端注册失败时绑定表不变
func (m *Multiplexer) AddInterest(fd int, mask common.Mask, handler iface.IHandler) error {
	m.mustAlive()
	if err := m.checkFd(fd); err != nil {
		return err
	}

	if mask = mask.Valid(); mask == common.None {
		return nil
	}

	// 先注册到后端，成功之后再修改本地状态
	if err := m.backend.Add(fd, mask); err != nil {
		return util.NewBackendError("add", fd, err)
	}

	binding := &m.bindings[fd]
	if mask&common.Readable != 0 {
		binding.OnReadable = handler
	}
	if mask&common.Writable != 0 {
		binding.OnWritable = handler
	}
	binding.Mask |= mask

	if fd > m.highest {
		m.highest = fd
	}
	return nil
}

//RemoveInterest 取消fd上的事件，回调保留，之后可以重新添加
//后端出错时本地状态已经修改，错误照常返回
func (m *Multiplexer) RemoveInterest(fd int, mask common.Mask) error {
	m.mustAlive()
	if err := m.checkFd(fd); err != nil {
		return err
	}

	binding := &m.bindings[fd]
	removed := binding.Mask & mask.Valid()
	if removed == common.None {
		return nil
	}
	binding.Mask &^= removed

	if fd == m.highest && binding.Mask == common.None {
		m.highest = m.prevActive(fd)
	}

	return util.NewBackendError("del", fd, m.backend.Del(fd, removed))
}

//Wait 阻塞直到有fd就绪或者后端超时，返回的slice在下一次Wait之前有效
//没有注册的事件会被过滤掉，返回空结果不是错误
func (m *Multiplexer) Wait() ([]common.Fired, error) {
	m.mustAlive()

	n, err := m.backend.Wait(m.reports, m.timeout)
	if err != nil {
		return nil, util.NewBackendError("wait", -1, err)
	}

	count := 0
	for i := 0; i < n && i < len(m.reports); i++ {
		fired := m.reports[i]
		if fired.Fd < 0 || fired.Fd >= len(m.bindings) {
			continue
		}

		mask := fired.Mask & m.bindings[fired.Fd].Mask
		if mask == common.None {
			continue
		}

		m.reports[count] = common.Fired{Fd: fired.Fd, Mask: mask}
		count++
	}
	return m.reports[:count], nil
}

//Binding 获取fd的绑定信息
func (m *Multiplexer) Binding(fd int) (Binding, error) {
	m.mustAlive()
	if err := m.checkFd(fd); err != nil {
		return Binding{}, err
	}
	return m.bindings[fd], nil
}

//Mask 获取fd当前的事件，超出范围时为None
func (m *Multiplexer) Mask(fd int) common.Mask {
	m.mustAlive()
	if m.checkFd(fd) != nil {
		return common.None
	}
	return m.bindings[fd].Mask
}

//Highest 有事件的最大fd
func (m *Multiplexer) Highest() int {
	m.mustAlive()
	return m.highest
}

//Capacity fd上限
func (m *Multiplexer) Capacity() int {
	return m.capacity
}

//BackendName 后端名称
func (m *Multiplexer) BackendName() string {
	m.mustAlive()
	return m.backend.Name()
}

//binding 回调里可能已经Destroy，每次读取都要检查
func (m *Multiplexer) binding(fd int) Binding {
	m.mustAlive()
	return m.bindings[fd]
}

func (m *Multiplexer) checkFd(fd int) error {
	if fd < 0 || fd >= len(m.bindings) {
		return errors.Wrapf(util.FdOutOfRange, "fd %d, capacity %d", fd, len(m.bindings))
	}
	return nil
}

//prevActive 从fd-1往下找第一个有事件的fd
func (m *Multiplexer) prevActive(fd int) int {
	for i := fd - 1; i >= 0; i-- {
		if m.bindings[i].Mask != common.None {
			return i
		}
	}
	return 0
}

//mustAlive 已经Destroy或者为nil说明调用方有bug，不能恢复
func (m *Multiplexer) mustAlive() {
	if m == nil {
		util.Logger.Panicln("can't be happened: nil multiplexer")
	}
	if m.bindings == nil {
		m.logger.Panicln("can't be happened:", util.MultiplexerDestroyed)
	}
}
