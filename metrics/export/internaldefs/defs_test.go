package internaldefs

import (
	"strings"
	"testing"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/stretchr/testify/assert"
)

func TestEveryCounterHasADefinition(t *testing.T) {
	seen := map[goGuard.MetricID]bool{}
	names := map[string]bool{}
	for _, def := range CounterDefs {
		assert.False(t, seen[def.ID], "duplicate id %d", def.ID)
		assert.False(t, names[def.Name], "duplicate name %s", def.Name)
		assert.True(t, strings.HasPrefix(def.Name, "goguard_"), def.Name)
		assert.True(t, strings.HasSuffix(def.Name, "_total"), def.Name)
		seen[def.ID] = true
		names[def.Name] = true
	}

	m := goGuard.NewMetrics(goGuard.MetricsConfig{Enabled: true})
	for id := range m.Snapshot().Counters {
		assert.True(t, seen[id], "metric %d has no exporter definition", id)
	}
}

func TestBuckets(t *testing.T) {
	assert.Len(t, HistogramBounds, 8)
	assert.Len(t, HistogramBoundSuffix, 8)

	raw := NormalizeBuckets([]uint64{1, 2, 3})
	assert.Equal(t, [8]uint64{1, 2, 3}, raw)
	assert.Equal(t, [8]uint64{1, 3, 6, 6, 6, 6, 6, 6}, CumulativeBuckets(raw))
	assert.Equal(t, [8]uint64{1, 1, 1, 1, 1, 1, 1, 1}, NormalizeBuckets([]uint64{1, 1, 1, 1, 1, 1, 1, 1, 9}))
}
