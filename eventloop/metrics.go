package eventloop

import "github.com/prometheus/client_golang/prometheus"

//Metrics 事件循环的统计
type Metrics struct {
	Waits      prometheus.Counter // wait次数
	WaitErrors prometheus.Counter // 后端wait出错次数
	Fired      prometheus.Counter // 分发出去的就绪fd数量
	Tasks      prometheus.Counter // 执行的投递任务数量
}

//NewMetrics registerer为nil时只创建不注册
func NewMetrics(namespace string, registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		Waits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventloop_waits_total",
			Help:      "Number of completed waits.",
		}),
		WaitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventloop_wait_errors_total",
			Help:      "Number of waits the backend failed.",
		}),
		Fired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventloop_fired_total",
			Help:      "Number of ready descriptors dispatched.",
		}),
		Tasks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventloop_tasks_total",
			Help:      "Number of posted tasks run on the loop.",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(metrics.Waits, metrics.WaitErrors, metrics.Fired, metrics.Tasks)
	}
	return metrics
}
