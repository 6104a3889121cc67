package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("Collectors use independent registries", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewMetricsCollector()
			NewMetricsCollector()
		})
	})

	t.Run("Prize distribution counts participation points", func(t *testing.T) {
		m := NewMetricsCollector()
		m.RecordPrizeDistribution(3, 100)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.prizesDistributed))
		assert.Equal(t, float64(300), testutil.ToFloat64(m.participationPoints))
	})

	t.Run("Push results are split by outcome", func(t *testing.T) {
		m := NewMetricsCollector()
		m.RecordPush("campaign", 4, 1)

		assert.Equal(t, float64(4), testutil.ToFloat64(m.pushDeliveries.WithLabelValues("campaign", "sent")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.pushDeliveries.WithLabelValues("campaign", "failed")))
	})
}
