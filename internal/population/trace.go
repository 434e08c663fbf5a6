// Package population models the MATSim population: per-person attributes
// and the ordered trace of activities and links built from the event
// stream, plus the parsers that build both from XML.
package population

import "evchargesim/internal/network"

// Activity is a stationary engagement at a location.
type Activity struct {
	StartTime int
	EndTime   int
	Act       string
	Node      network.Node
}

// Duration returns the activity's end-start span in seconds.
func (a Activity) Duration() int {
	return a.EndTime - a.StartTime
}

// Link is a traversed road segment with known length and end-coordinate.
type Link struct {
	StartTime int
	EndTime   int
	LinkID    string
	Distance  float64
	Node      network.Node
}

// Duration returns the link's end-start span in seconds.
func (l Link) Duration() int {
	return l.EndTime - l.StartTime
}

// Component is a tagged union of Activity or Link. Exactly one of Activity
// or Link is non-nil. The JSON field names double as the external
// discriminator the trace persistence format documents.
type Component struct {
	Activity *Activity `json:"ActivityType,omitempty"`
	Link     *Link     `json:"LinkType,omitempty"`
}

// IsActivity reports whether this component is an Activity.
func (c Component) IsActivity() bool { return c.Activity != nil }

// IsLink reports whether this component is a Link.
func (c Component) IsLink() bool { return c.Link != nil }

// NewActivityComponent wraps an Activity as a Component.
func NewActivityComponent(a Activity) Component { return Component{Activity: &a} }

// NewLinkComponent wraps a Link as a Component.
func NewLinkComponent(l Link) Component { return Component{Link: &l} }

func activityComponent(a Activity) Component { return NewActivityComponent(a) }

// Trace is an ordered sequence of Components for one person.
type Trace struct {
	Plan []Component
}

// ContainsLink reports whether the trace has at least one Link component.
func (t Trace) ContainsLink() bool {
	for _, c := range t.Plan {
		if c.IsLink() {
			return true
		}
	}
	return false
}

func (t *Trace) add(c Component) {
	t.Plan = append(t.Plan, c)
}

// AddActivity appends an Activity component to the trace.
func (t *Trace) AddActivity(a Activity) { t.add(NewActivityComponent(a)) }

// AddLink appends a Link component to the trace.
func (t *Trace) AddLink(l Link) { t.add(NewLinkComponent(l)) }

// Len returns the number of components in the trace.
func (t Trace) Len() int { return len(t.Plan) }

func (t Trace) first() (Component, bool) {
	if len(t.Plan) == 0 {
		return Component{}, false
	}
	return t.Plan[0], true
}

func (t Trace) last() (Component, bool) {
	if len(t.Plan) == 0 {
		return Component{}, false
	}
	return t.Plan[len(t.Plan)-1], true
}

// IsWrappable reports whether the trace starts and ends with an Activity of
// the same act name and has more than one component.
func (t Trace) IsWrappable() bool {
	if len(t.Plan) <= 1 {
		return false
	}
	first, ok := t.first()
	if !ok || !first.IsActivity() {
		return false
	}
	last, ok := t.last()
	if !ok || !last.IsActivity() {
		return false
	}
	return first.Activity.Act == last.Activity.Act
}

// Wrap merges the first activity's duration onto the last activity's
// end_time and drops the first component, producing a trace that starts and
// ends with a Link. It is a no-op (returns an error) if the trace is not
// wrappable — callers should treat this as a non-fatal WrapError and keep
// the trace unwrapped.
func (t *Trace) Wrap() error {
	if !t.IsWrappable() {
		return errWrap
	}
	first := t.Plan[0]
	lastIdx := len(t.Plan) - 1
	lastAct := *t.Plan[lastIdx].Activity
	lastAct.EndTime += first.Activity.Duration()

	wrapped := make([]Component, 0, lastIdx)
	wrapped = append(wrapped, t.Plan[1:lastIdx]...)
	wrapped = append(wrapped, activityComponent(lastAct))
	t.Plan = wrapped
	return nil
}
