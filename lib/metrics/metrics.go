package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UniformWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadermgr_uniform_writes_total",
		Help: "Total number of default-block uniform and attribute writes forwarded to the driver",
	}, []string{"shader"})
	BlockWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadermgr_block_writes_total",
		Help: "Total number of named-block uniform writes into client-side buffer storage",
	}, []string{"shader"})
	Failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadermgr_failures_total",
		Help: "Total number of failed shader manager operations",
	}, []string{"reason"})
	BufferUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadermgr_buffer_upload_floats_total",
		Help: "Total number of floats flushed from client storage to uniform buffers",
	}, []string{"binding"})
	DriverMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadermgr_driver_messages_total",
		Help: "Total number of GL debug messages, by severity",
	}, []string{"severity"})
	RegisteredShaders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shadermgr_registered_shaders",
		Help: "Number of shader programs currently registered",
	})
)

type ShaderMetrics struct {
	UniformWrites prometheus.Counter
	BlockWrites   prometheus.Counter
}

func NewShaderMetrics(name string) ShaderMetrics {
	s := ShaderMetrics{
		UniformWrites: UniformWrites.WithLabelValues(name),
		BlockWrites:   BlockWrites.WithLabelValues(name),
	}
	s.UniformWrites.Add(0)
	s.BlockWrites.Add(0)
	return s
}

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
