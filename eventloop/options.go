package eventloop

import (
	"time"

	"github.com/ikilobyte/cevent/iface"
	"github.com/ikilobyte/cevent/memory"
	"github.com/ikilobyte/cevent/poller"
	"github.com/ikilobyte/cevent/util"
	"github.com/sirupsen/logrus"
)

//DefaultCapacity 默认最多管理的fd数量
const DefaultCapacity = 1024

//Options 可选项配置，未配置时使用默认值
type Options struct {
	Capacity    int               // fd上限，fd必须小于这个值，默认：1024
	Timeout     time.Duration     // 每次wait最长阻塞时间，默认：-1，一直阻塞
	Allocator   *memory.Allocator // 绑定表和结果缓冲通过它分配，默认：memory.Default
	Logger      *logrus.Logger    // 默认：util.Logger
	Metrics     *Metrics          // 事件循环的统计，默认不统计
	Backend     iface.IBackend    // 只对Loop生效，优先于BackendKind
	BackendKind poller.Kind       // 只对Loop生效，默认：poller.Default
}

type Option = func(opts *Options)

//parseOption 解析可选项
func parseOption(opts ...Option) *Options {
	options := &Options{
		Capacity:    DefaultCapacity,
		Timeout:     -1,
		Allocator:   memory.Default,
		Logger:      util.Logger,
		BackendKind: poller.Default,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Capacity <= 0 {
		options.Capacity = DefaultCapacity
	}
	if options.Allocator == nil {
		options.Allocator = memory.Default
	}
	if options.Logger == nil {
		options.Logger = util.Logger
	}
	return options
}

//WithCapacity fd上限
func WithCapacity(capacity int) Option {
	return func(opts *Options) {
		opts.Capacity = capacity
	}
}

//WithTimeout wait最长阻塞时间，负数表示一直阻塞，0表示立即返回
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

//WithAllocator 使用指定的allocator记账
func WithAllocator(allocator *memory.Allocator) Option {
	return func(opts *Options) {
		opts.Allocator = allocator
	}
}

//WithLogger 日志
func WithLogger(logger *logrus.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

//WithMetrics 事件循环统计
func WithMetrics(metrics *Metrics) Option {
	return func(opts *Options) {
		opts.Metrics = metrics
	}
}

//WithBackend Loop使用已经创建好的后端
func WithBackend(backend iface.IBackend) Option {
	return func(opts *Options) {
		opts.Backend = backend
	}
}

//WithBackendKind Loop启动时按类型创建后端
func WithBackendKind(kind poller.Kind) Option {
	return func(opts *Options) {
		opts.BackendKind = kind
	}
}
