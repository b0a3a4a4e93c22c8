package memory

import "github.com/prometheus/client_golang/prometheus"

//NewCollector 将计数器暴露为prometheus的gauge
func NewCollector(namespace string, counter *Counter) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "memory_used_bytes",
		Help:      "Bytes currently allocated through the allocator, including the per-allocation prefix.",
	}, func() float64 {
		return float64(counter.Load())
	})
}
