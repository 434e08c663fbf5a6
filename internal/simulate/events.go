package simulate

import "evchargesim/internal/network"

// ChargeType discriminates an Event as arising from en-route charging
// (triggered mid-link, while MustCharge) or activity charging (triggered
// while parked at a charge-enabled activity).
type ChargeType int

const (
	ChargeTypeActivity ChargeType = iota
	ChargeTypeEnRoute
)

func (c ChargeType) String() string {
	if c == ChargeTypeEnRoute {
		return "en_route"
	}
	return "activity"
}

// Event is one charge event: a contiguous span of charging at a single
// spec, rate, and location. Charge is in kWs; StartTime/EndTime in seconds.
type Event struct {
	ChargeType ChargeType
	PID        string
	Spec       string
	Charge     float64
	Day        int
	StartTime  int
	EndTime    int
	Activity   string
	LinkID     string
	Node       network.Node
}

// NewEnRouteEvent builds an en-route Event.
func NewEnRouteEvent(pid, spec string, charge float64, day int, startTime, endTime int, linkID string, node network.Node) Event {
	return Event{
		ChargeType: ChargeTypeEnRoute,
		PID:        pid,
		Spec:       spec,
		Charge:     charge,
		Day:        day,
		StartTime:  startTime,
		EndTime:    endTime,
		LinkID:     linkID,
		Node:       node,
	}
}

// NewActivityEvent builds an activity Event.
func NewActivityEvent(pid, spec string, charge float64, day int, startTime, endTime int, activity string, node network.Node) Event {
	return Event{
		ChargeType: ChargeTypeActivity,
		PID:        pid,
		Spec:       spec,
		Charge:     charge,
		Day:        day,
		StartTime:  startTime,
		EndTime:    endTime,
		Activity:   activity,
		Node:       node,
	}
}

// Normalise rescales Charge by the closed-loop slice length and shifts Day
// to be relative to the slice's start day.
func (e *Event) Normalise(days int, startDay int) {
	e.Charge /= float64(days)
	e.Day -= startDay
}

// Day is one simulated day's worth of charge events.
type Day struct {
	Events []Event
}

// NewDay returns an empty Day.
func NewDay() Day {
	return Day{}
}
