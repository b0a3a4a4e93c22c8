package eventloop

import (
	"sync/atomic"

	"github.com/ikilobyte/cevent/common"
	"github.com/ikilobyte/cevent/iface"
	"github.com/ikilobyte/cevent/poller"
	"github.com/ikilobyte/cevent/util"
	"github.com/sirupsen/logrus"
)

var _ iface.IEventLoop = (*Loop)(nil)

//Loop 事件循环，wait之后按结果调用Binding里的回调
//除了Post和Stop，其他方法都只能在Run所在的goroutine（或者回调里）调用
type Loop struct {
	mux     *Multiplexer
	wakeup  *wakeup
	tasks   *util.Queue // 其他goroutine投递的任务
	metrics *Metrics
	logger  *logrus.Logger
	running atomic.Bool
	stopped atomic.Bool
}

//NewLoop 创建事件循环，未指定后端时按BackendKind创建
func NewLoop(opts ...Option) (*Loop, error) {
	options := parseOption(opts...)

	backend := options.Backend
	if backend == nil {
		b, err := poller.New(options.BackendKind)
		if err != nil {
			return nil, err
		}
		backend = b
	}

	w, err := newWakeup()
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	loop := &Loop{
		mux:     newMultiplexer(backend, options),
		wakeup:  w,
		tasks:   util.NewQueue(),
		metrics: options.Metrics,
		logger:  options.Logger,
	}

	// 唤醒用的fd也当成普通的可读事件
	if err := loop.mux.AddInterest(w.fd(), common.Readable, w); err != nil {
		_ = loop.mux.Destroy()
		w.close()
		return nil, err
	}

	return loop, nil
}

//Multiplexer 底层的multiplexer
func (l *Loop) Multiplexer() *Multiplexer {
	return l.mux
}

//AddInterest 添加事件
func (l *Loop) AddInterest(fd int, mask common.Mask, handler iface.IHandler) error {
	return l.mux.AddInterest(fd, mask, handler)
}

//RemoveInterest 删除事件
func (l *Loop) RemoveInterest(fd int, mask common.Mask) error {
	return l.mux.RemoveInterest(fd, mask)
}

//Run 执行事件循环，直到Stop或者后端出错，返回之后资源已经释放
func (l *Loop) Run() error {
	if !l.running.CompareAndSwap(false, true) {
		return util.LoopClosed
	}
	defer l.release()

	l.logger.WithField("backend", l.mux.BackendName()).Debug("event loop started")
	for !l.stopped.Load() {
		reports, err := l.mux.Wait()
		if err != nil {
			if l.metrics != nil {
				l.metrics.WaitErrors.Inc()
			}
			l.logger.WithField("backend", l.mux.BackendName()).WithField("error", err).Error("event loop wait error")
			return err
		}

		if l.metrics != nil {
			l.metrics.Waits.Inc()
			l.metrics.Fired.Add(float64(len(reports)))
		}

		l.dispatch(reports)
		l.runTasks()
	}
	return nil
}

//Stop 停止事件循环，任意goroutine都可以调用
func (l *Loop) Stop() {
	l.stopped.Store(true)
	l.wakeup.wake()
}

//Post 投递一个任务，在事件循环的goroutine里执行，事件循环已经释放时直接丢弃
func (l *Loop) Post(task func()) {
	if task == nil || l.wakeup.isClosed() {
		return
	}
	l.tasks.Push(task)
	l.wakeup.wake()
}

//Close 没有Run过的loop直接释放资源，正在运行的等同于Stop
func (l *Loop) Close() error {
	if l.running.CompareAndSwap(false, true) {
		return l.release()
	}
	l.Stop()
	return nil
}

//dispatch 调用就绪fd的回调，每次调用前重新读取Binding，前面的回调可能已经修改了事件
func (l *Loop) dispatch(reports []common.Fired) {
	for _, fired := range reports {
		if fired.Mask&common.Readable != 0 {
			if binding := l.mux.binding(fired.Fd); binding.Mask&common.Readable != 0 && binding.OnReadable != nil {
				binding.OnReadable.Handle(fired.Fd, common.Readable)
			}
		}

		if fired.Mask&common.Writable != 0 {
			if binding := l.mux.binding(fired.Fd); binding.Mask&common.Writable != 0 && binding.OnWritable != nil {
				binding.OnWritable.Handle(fired.Fd, common.Writable)
			}
		}
	}
}

func (l *Loop) runTasks() {
	for _, item := range l.tasks.Drain() {
		item.(func())()
		if l.metrics != nil {
			l.metrics.Tasks.Inc()
		}
	}
}

func (l *Loop) release() error {
	err := l.mux.Destroy()
	if err != nil {
		l.logger.WithField("error", err).Warn("event loop release error")
	}
	l.wakeup.close()
	l.tasks.Drain()
	l.logger.Debug("event loop stopped")
	return err
}
