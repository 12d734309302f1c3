package rest

import (
	"net/http"

	"bitbucket.org/kleinnic74/dotto/loop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the process-wide collectors plus gauges read from
// the frame loop's stats at scrape time
type MetricsHandler struct {
	handler http.Handler
}

func NewMetricsHandler(frames StatsSource) *MetricsHandler {
	reg := prometheus.NewRegistry()
	if frames != nil {
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "dotto_loop_last_delta_seconds",
				Help: "Duration of the last frame including the pacing sleep",
			}, func() float64 { return frames.Stats().LastDelta.Seconds() }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "dotto_loop_last_work_seconds",
				Help: "Render work of the last frame",
			}, func() float64 { return frames.Stats().LastWork.Seconds() }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "dotto_loop_running",
				Help: "1 while the frame loop is running",
			}, func() float64 {
				if frames.Stats().State == loop.Running.String() {
					return 1
				}
				return 0
			}),
		)
	}
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer, reg}
	return &MetricsHandler{
		handler: promhttp.InstrumentMetricHandler(reg, promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})),
	}
}

func (m *MetricsHandler) InitRoutes(r *mux.Router) {
	r.Handle("/metrics", m.handler).Methods("GET")
}
