package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(pollFailuresTotal.WithLabelValues("network"))
	IncPollFailure(" Network ")
	assert.Equal(t, before+1, testutil.ToFloat64(pollFailuresTotal.WithLabelValues("network")))

	SetCursor(1700000000)
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(pollCursor))
}

func TestSetStateIsExclusive(t *testing.T) {
	all := []string{"polling", "sleeping"}
	SetState("polling", all)
	SetState("sleeping", all)
	assert.Equal(t, 0.0, testutil.ToFloat64(pollState.WithLabelValues("polling")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pollState.WithLabelValues("sleeping")))
}

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)
	MustRegister(reg) // idempotent

	IncNotification("status", "sent")
	n, err := testutil.GatherAndCount(reg, "telegram_notifications_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
