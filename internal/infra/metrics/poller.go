package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		pollCyclesTotal,
		pollFailuresTotal,
		pollCursor,
		pollState,
	)
}

var (
	pollCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_poll_cycles_total",
			Help: "Poll cycles by result (ok, failed, skipped).",
		},
		[]string{"result"},
	)

	pollFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_poll_failures_total",
			Help: "Poll failures by error kind.",
		},
		[]string{"kind"},
	)

	pollCursor = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "homework_poll_cursor_seconds",
			Help: "Current from_date cursor (unix seconds).",
		},
	)

	pollState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "homework_poll_state",
			Help: "1 for the state the poll loop is currently in.",
		},
		[]string{"state"},
	)
)

func IncPollCycle(result string) {
	pollCyclesTotal.WithLabelValues(norm(result)).Inc()
}

func IncPollFailure(kind string) {
	pollFailuresTotal.WithLabelValues(norm(kind)).Inc()
}

func SetCursor(unix int64) {
	pollCursor.Set(float64(unix))
}

// SetState flips the state gauge so exactly one label is 1.
func SetState(state string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == state {
			v = 1
		}
		pollState.WithLabelValues(norm(s)).Set(v)
	}
}
