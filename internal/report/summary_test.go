package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanEnergyFormatsCoarsestComfortableUnit(t *testing.T) {
	assert.Equal(t, "1000 kWs", HumanEnergy(1000.0))
	assert.Equal(t, "1500 kWs", HumanEnergy(1500.0))
	assert.Equal(t, "2 kWh", HumanEnergy(7200.0))
	assert.Equal(t, "1000 kWh", HumanEnergy(3_600_000.0))
	assert.Equal(t, "2 MWh", HumanEnergy(5_400_000.0))
}

func TestPercentileStatsInterpolatesBetweenOrderStats(t *testing.T) {
	stats := ComputeStats([]float64{4, 1, 3, 2}, []float64{0.5, -0.5})

	assert.InDelta(t, 2.5, stats.ChargeP50, 1e-9)
	assert.InDelta(t, 3.85, stats.ChargeP95, 1e-9)
	assert.InDelta(t, 0.0, stats.LeakP50, 1e-9)
}

func TestSummaryAppliesScaleToLeakAndRendersActivitySection(t *testing.T) {
	s := NewSummary(2.0)
	s.AddLeak(10)
	s.Finalise()

	out := s.String()
	assert.Contains(t, out, "Total Energy Leak: 20 kWs")
	assert.Contains(t, out, "[Charging by activity]")
}
