package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfoOnce sync.Once

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Syncly API build information.",
		},
		[]string{"version", "commit"},
	)

	readyOnce sync.Once

	ready = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "service_ready",
		Help: "1 when the service has passed its readiness checks.",
	})
)

// InitBuildInfo registers build_info once and sets its labeled value.
func InitBuildInfo(version, commit string) {
	buildInfoOnce.Do(func() {
		prometheus.MustRegister(buildInfo)
	})
	buildInfo.WithLabelValues(version, commit).Set(1)
}

// SetReady flips the readiness gauge. Called once the store is reachable
// and again if a readiness probe later fails.
func SetReady(ok bool) {
	readyOnce.Do(func() {
		prometheus.MustRegister(ready)
	})
	if ok {
		ready.Set(1)
		return
	}
	ready.Set(0)
}
