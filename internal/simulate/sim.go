package simulate

import (
	"evchargesim/internal/config"
	"evchargesim/internal/population"
)

// Simulate runs the day-by-day charging simulation for one agent's trace
// until the battery state closes a loop (or patience runs out, at which
// point the best-fit loop is force-closed).
//
// chargeActivities is the set of trace indices (activities) enabled for
// charging, as resolved by the caller from attempt/optimiser logic.
func Simulate(
	pid string,
	trace population.Trace,
	chargeActivities map[int]struct{},
	agentConfig config.AgentConfig,
	planner *config.ActivityChargingPlanner,
	cfg *config.Config,
) *AgentSimulationRecord {
	battery := NewBatteryState(*agentConfig.Battery, *agentConfig.Trigger)
	record := NewAgentSimulationRecord(pid, cfg.Precision)

	for day := 0; day < cfg.Patience; day++ {
		record.NewDay(battery.State)

		for i, component := range trace.Plan {
			switch {
			case component.IsActivity():
				if _, ok := chargeActivities[i]; !ok {
					continue
				}
				activity := component.Activity
				spec, ok := planner.Get(activity.Act)
				if !ok {
					continue
				}
				charge, duration := battery.ChargeForDuration(activity.Duration(), spec.ChargeRate)
				if charge > 0 {
					name := ""
					if spec.Name != nil {
						name = *spec.Name
					}
					record.AddEvent(NewActivityEvent(
						pid, name, charge, day+1,
						activity.StartTime, activity.StartTime+duration,
						activity.Act, activity.Node,
					))
				}
			case component.IsLink():
				link := component.Link
				battery.ApplyDistance(link.Distance)
				if !battery.MustCharge() {
					continue
				}
				var charge float64
				var duration int
				if len(chargeActivities) == 0 {
					charge, duration = battery.ChargeToFull(agentConfig.EnRoute.ChargeRate)
				} else {
					required := planAhead(trace, chargeActivities, i, battery.ConsumptionRate)
					charge, duration = battery.ChargeToDesired(required, agentConfig.EnRoute.ChargeRate)
				}
				name := ""
				if agentConfig.EnRoute.Name != nil {
					name = *agentConfig.EnRoute.Name
				}
				record.AddEvent(NewEnRouteEvent(
					pid, name, charge, day+1,
					link.StartTime, link.StartTime+duration,
					link.LinkID, link.Node,
				))
			}
		}

		if record.TryToClose(battery.State) {
			return record
		}
	}

	record.NewDay(battery.State)
	record.ForceClose()
	return record
}

// planAhead walks forward from start (wrapping around to the beginning of
// the trace) looking for the next charge-enabled activity, accumulating the
// consumption that must be covered to reach it. The link at start itself is
// included.
func planAhead(trace population.Trace, chargeActivities map[int]struct{}, start int, efficiency float64) float64 {
	var required float64
	for i := start; i < len(trace.Plan); i++ {
		c := trace.Plan[i]
		if c.IsActivity() {
			if _, ok := chargeActivities[i]; ok {
				return required
			}
			continue
		}
		required += c.Link.Distance * efficiency
	}
	for i := 0; i < start; i++ {
		c := trace.Plan[i]
		if c.IsActivity() {
			if _, ok := chargeActivities[i]; ok {
				return required
			}
			continue
		}
		required += c.Link.Distance * efficiency
	}
	return required
}
