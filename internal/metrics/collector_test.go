package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return float64(m.GetHistogram().GetSampleCount())
		}
	}
	return 0
}

func TestCollector(t *testing.T) {
	c := NewCollector("gw")

	c.Turn("message", "answered")
	c.Turn("message", "answered")
	c.RaceWon(WinnerDeadline)
	c.LateDelivery(DeliveryPending)
	c.DuplicateDropped()
	c.LockContended()
	c.ActionCall("success")
	c.TokenRefresh("success")
	c.Decision("execute")
	c.AutoResolution("resolved")
	c.PipelineFinished(1500 * time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, c, "gw_turns_total", map[string]string{"handler": "message", "outcome": "answered"}))
	assert.Equal(t, 1.0, counterValue(t, c, "gw_race_wins_total", map[string]string{"winner": "deadline"}))
	assert.Equal(t, 1.0, counterValue(t, c, "gw_late_deliveries_total", map[string]string{"path": "pending"}))
	assert.Equal(t, 1.0, counterValue(t, c, "gw_duplicate_events_total", nil))
	assert.Equal(t, 1.0, counterValue(t, c, "gw_pipeline_duration_seconds", nil))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("gw")
	c.LockContended()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "gw_lock_contention_total 1"))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Turn("message", "answered")
		c.RaceWon(WinnerPipeline)
		c.LateDelivery(DeliveryPush)
		c.PipelineFinished(time.Second)
		c.ActionCall("transport")
	})
	assert.NotNil(t, c.Handler())
}
