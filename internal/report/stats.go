package report

import (
	"math"
	"sort"
)

// PercentileStats holds the population-level p50/p95 over each agent's
// finalised total charge and leak, both in kWh.
type PercentileStats struct {
	ChargeP50 float64
	ChargeP95 float64
	LeakP50   float64
	LeakP95   float64
}

// ComputeStats sorts copies of charge and leak and reports their p50/p95.
// The leak percentiles cover only the values passed in leakKWh; a
// battery-less agent's empty record carries a leak of zero.
func ComputeStats(totalChargeKWh []float64, leakKWh []float64) PercentileStats {
	charge := append([]float64(nil), totalChargeKWh...)
	leak := append([]float64(nil), leakKWh...)
	sort.Float64s(charge)
	sort.Float64s(leak)

	return PercentileStats{
		ChargeP50: percentileSorted(charge, 0.5),
		ChargeP95: percentileSorted(charge, 0.95),
		LeakP50:   percentileSorted(leak, 0.5),
		LeakP95:   percentileSorted(leak, 0.95),
	}
}

// percentileSorted linearly interpolates the qth percentile of an
// already-sorted slice.
func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
