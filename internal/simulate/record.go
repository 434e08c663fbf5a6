package simulate

import "math"

// PlanRecord is the serialisable per-agent summary written to report.csv.
type PlanRecord struct {
	PID              string   `json:"pid" csv:"pid"`
	Days             int      `json:"days" csv:"days"`
	NumberEnRoute    int      `json:"number_enroute" csv:"number_enroute"`
	NumberActivity   int      `json:"number_activity" csv:"number_activity"`
	NumberCharges    int      `json:"number_charges" csv:"number_charges"`
	TotalChargeKWh   float64  `json:"total_charge_kwh" csv:"total_charge_(kWh)"`
	TotalEnRouteKWh  float64  `json:"total_enroute_kwh" csv:"total_enroute_(kWh)"`
	TotalActivityKWh float64  `json:"total_activity_kwh" csv:"total_activity_(kWh)"`
	LeakKWh          *float64 `json:"leak_kwh,omitempty" csv:"leak_(kWh)"`
}

// AgentSimulationRecord accumulates one agent's simulated days and charge
// events, then closes the loop (exactly, or by best-fit) to find the
// repeating slice used for reporting.
type AgentSimulationRecord struct {
	PID            string
	Days           []Day
	history        []float64
	sliceStart     int
	sliceEnd       *int
	closePrecision float64
	Error          *float64
}

// NewAgentSimulationRecord starts an empty record for pid.
func NewAgentSimulationRecord(pid string, closePrecision float64) *AgentSimulationRecord {
	return &AgentSimulationRecord{PID: pid, closePrecision: closePrecision}
}

// NewEmptyRecord returns a zero-totals record for an agent with no battery:
// it never simulates or charges, so its slice is empty and its error is
// defined to be exactly zero.
func NewEmptyRecord(pid string) *AgentSimulationRecord {
	zero := 0.0
	return &AgentSimulationRecord{PID: pid, Error: &zero}
}

// NewDay records batteryState as the charge at the start of a new day and
// appends an empty Day to hold its events.
func (r *AgentSimulationRecord) NewDay(batteryState float64) {
	r.history = append(r.history, batteryState)
	r.Days = append(r.Days, NewDay())
}

// AddEvent appends ev to the current (most recently started) day.
func (r *AgentSimulationRecord) AddEvent(ev Event) {
	last := len(r.Days) - 1
	r.Days[last].Events = append(r.Days[last].Events, ev)
}

// TryToClose looks for a prior day whose starting state is within
// closePrecision of state. If found, sliceStart is set to that day and the
// closed-loop error is recorded.
func (r *AgentSimulationRecord) TryToClose(state float64) bool {
	for k, v := range r.history {
		if math.Abs(state-v) < r.closePrecision {
			r.sliceStart = k
			e := r.errorAt(state)
			r.Error = &e
			return true
		}
	}
	return false
}

// ForceClose picks the best-fitting closed loop over the full history,
// minimising (|leak|, cycle length) lexicographically, and sets
// sliceStart/sliceEnd to it.
func (r *AgentSimulationRecord) ForceClose() {
	bestLeak := math.MaxFloat64
	bestLen := int(^uint(0) >> 1)
	for i := 0; i < len(r.history)-1; i++ {
		for j := i + 1; j < len(r.history); j++ {
			leak := math.Abs(r.history[i] - r.history[j])
			length := j - i
			if leak < bestLeak || (leak == bestLeak && length < bestLen) {
				bestLeak = leak
				bestLen = length
				r.sliceStart = i
				end := j
				r.sliceEnd = &end
			}
		}
	}
	e := r.history[*r.sliceEnd] - r.history[r.sliceStart]
	r.Error = &e
}

func (r *AgentSimulationRecord) errorAt(state float64) float64 {
	return state - r.history[r.sliceStart]
}

// Slice returns the closed-loop window of days: [sliceStart, sliceEnd) or
// [sliceStart, len) if sliceEnd is unset.
func (r *AgentSimulationRecord) Slice() []Day {
	if r.sliceEnd == nil {
		return r.Days[r.sliceStart:]
	}
	return r.Days[r.sliceStart:*r.sliceEnd]
}

// Len is the total number of simulated days before slicing.
func (r *AgentSimulationRecord) Len() int {
	return len(r.Days)
}

// Finalise rescales Error and every event's Charge by config.Scale, and
// (when the closed slice is longer than one day) normalises each event's
// Charge by the slice length and shifts its Day to be relative to the
// slice's start.
func (r *AgentSimulationRecord) Finalise(scale float64) {
	if r.Error != nil {
		e := *r.Error * scale
		r.Error = &e
	}
	sliceLength := len(r.Slice())
	startDay := r.sliceStart
	endDay := r.Len()
	if r.sliceEnd != nil {
		endDay = *r.sliceEnd
	}
	for i := startDay; i < endDay; i++ {
		for idx := range r.Days[i].Events {
			ev := &r.Days[i].Events[idx]
			if sliceLength > 1 {
				ev.Normalise(sliceLength, startDay)
			}
			ev.Charge *= scale
		}
	}
}

func (r *AgentSimulationRecord) allEvents() []Event {
	var out []Event
	for _, d := range r.Slice() {
		out = append(out, d.Events...)
	}
	return out
}

const kWsToKWh = 3600.0

// ToRecord produces the serialisable summary for this agent's closed-loop
// slice, converting every total from kWs to kWh.
func (r *AgentSimulationRecord) ToRecord() PlanRecord {
	events := r.allEvents()

	var totalCharge, totalEnRoute, totalActivity float64
	var numEnRoute, numActivity int
	for _, ev := range events {
		switch ev.ChargeType {
		case ChargeTypeEnRoute:
			totalEnRoute += ev.Charge
			numEnRoute++
		case ChargeTypeActivity:
			totalActivity += ev.Charge
			numActivity++
		}
		totalCharge += ev.Charge
	}

	var leak *float64
	if r.Error != nil {
		l := *r.Error / kWsToKWh
		leak = &l
	}

	return PlanRecord{
		PID:              r.PID,
		Days:             r.Len(),
		NumberEnRoute:    numEnRoute,
		NumberActivity:   numActivity,
		NumberCharges:    len(events),
		TotalChargeKWh:   totalCharge / kWsToKWh,
		TotalEnRouteKWh:  totalEnRoute / kWsToKWh,
		TotalActivityKWh: totalActivity / kWsToKWh,
		LeakKWh:          leak,
	}
}
