package simulate

import (
	"evchargesim/internal/config"
	"evchargesim/internal/population"
)

// Score is the lexicographic optimisation objective for one candidate
// charging subset: fewer en-route events per day first, then less en-route
// energy per day, then fewer activity events per day.
type Score struct {
	EnRouteEventsPerDay  float64
	EnRouteEnergyPerDay  float64
	ActivityEventsPerDay float64
}

// Less reports whether s is lexicographically smaller (strictly better)
// than other.
func (s Score) Less(other Score) bool {
	if s.EnRouteEventsPerDay != other.EnRouteEventsPerDay {
		return s.EnRouteEventsPerDay < other.EnRouteEventsPerDay
	}
	if s.EnRouteEnergyPerDay != other.EnRouteEnergyPerDay {
		return s.EnRouteEnergyPerDay < other.EnRouteEnergyPerDay
	}
	return s.ActivityEventsPerDay < other.ActivityEventsPerDay
}

// Score computes r's objective over its closed-loop slice. A zero-length
// slice (shouldn't occur post-close) is treated as a single day to avoid
// dividing by zero.
func (r *AgentSimulationRecord) Score() Score {
	slice := r.Slice()
	days := float64(len(slice))
	if days == 0 {
		days = 1
	}

	var enRouteEvents, activityEvents, enRouteEnergy float64
	for _, d := range slice {
		for _, ev := range d.Events {
			switch ev.ChargeType {
			case ChargeTypeEnRoute:
				enRouteEvents++
				enRouteEnergy += ev.Charge
			case ChargeTypeActivity:
				activityEvents++
			}
		}
	}

	return Score{
		EnRouteEventsPerDay:  enRouteEvents / days,
		EnRouteEnergyPerDay:  enRouteEnergy / days,
		ActivityEventsPerDay: activityEvents / days,
	}
}

// ViableActivityIndices returns the trace indices of every Activity whose
// act name the planner charges at, in trace order.
func ViableActivityIndices(trace population.Trace, planner *config.ActivityChargingPlanner) []int {
	var out []int
	for i, c := range trace.Plan {
		if !c.IsActivity() {
			continue
		}
		if _, ok := planner.Get(c.Activity.Act); ok {
			out = append(out, i)
		}
	}
	return out
}

// Optimise enumerates subsets of the agent's viable charging-activity
// indices and keeps the best-scoring simulated record, per §4.10. Subsets
// of size k are tried before size k+1, each in lexicographic order over the
// reversed viable-index list (so later trace indices, conventionally home,
// are preferred within a size). If the best score seen after a size group
// already has zero en-route events per day, no larger subset can improve it
// further and the search stops early.
func Optimise(pid string, trace population.Trace, agentConfig config.AgentConfig, cfg *config.Config) *AgentSimulationRecord {
	planner := config.NewActivityChargingPlanner(agentConfig.Activities)
	viable := ViableActivityIndices(trace, planner)

	if len(viable) == 0 {
		return Simulate(pid, trace, map[int]struct{}{}, agentConfig, planner, cfg)
	}

	reversed := make([]int, len(viable))
	for i, v := range viable {
		reversed[len(viable)-1-i] = v
	}

	var best *AgentSimulationRecord
	var bestScore Score

	for k := 1; k <= len(reversed); k++ {
		for _, combo := range combinations(reversed, k) {
			set := make(map[int]struct{}, len(combo))
			for _, idx := range combo {
				set[idx] = struct{}{}
			}
			record := Simulate(pid, trace, set, agentConfig, planner, cfg)
			score := record.Score()
			if best == nil || score.Less(bestScore) {
				best = record
				bestScore = score
			}
		}
		if bestScore.EnRouteEventsPerDay == 0 {
			break
		}
	}
	return best
}

// combinations returns every k-sized subset of items, in lexicographic
// order over their positions in items: the subset formed by the earliest
// positions comes first.
func combinations(items []int, k int) [][]int {
	n := len(items)
	if k <= 0 || k > n {
		return nil
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	var out [][]int
	for {
		combo := make([]int, k)
		for i, x := range idx {
			combo[i] = items[x]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
