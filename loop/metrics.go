package loop

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dotto_frames_total",
		Help: "Number of frames rendered",
	})
	frameOverruns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dotto_frame_overruns_total",
		Help: "Number of frames whose render work exceeded the timestep",
	})
	frameRenderSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dotto_frame_render_seconds",
		Help:    "Render work per frame, without the pacing sleep",
		Buckets: []float64{.001, .002, .004, .008, .012, .016, .020, .033, .050, .100},
	})
	fpsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dotto_fps",
		Help: "Frames per second measured over the last interval",
	})
	liveDrawables = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dotto_live_drawables",
		Help: "Number of drawables rendered in the last frame",
	})
)
