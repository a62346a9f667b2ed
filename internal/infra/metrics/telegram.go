package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(notificationsTotal) }

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "telegram_notifications_total",
		Help: "Chat notifications by kind (status, error) and result (sent, failed, deduplicated).",
	},
	[]string{"kind", "result"},
)

func IncNotification(kind, result string) {
	notificationsTotal.WithLabelValues(norm(kind), norm(result)).Inc()
}
