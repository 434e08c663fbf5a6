package tracer

import (
	"fmt"
	"io"
	"log"

	"evchargesim/internal/network"
	"evchargesim/internal/population"
)

// EndOfDay is the finalisation end-time (24h in seconds) used for activities
// still open when the event stream runs out.
const EndOfDay = 86400

type activityStart struct {
	time int
	act  string
	link string
}

// Handler folds a Network and an event Reader into per-person Traces held
// by a Population.
type Handler struct {
	network       *network.Network
	activityStart map[string]activityStart
	linkEntry     map[string]int
}

// NewHandler returns an empty Handler; call AddNetwork before AddTraces.
func NewHandler() *Handler {
	return &Handler{
		activityStart: map[string]activityStart{},
		linkEntry:     map[string]int{},
	}
}

// AddNetwork attaches the Network used to resolve link length/coordinates.
func (h *Handler) AddNetwork(net *network.Network) {
	h.network = net
}

// AddTraces consumes every event from r, folding it into pop's traces, then
// finalises, cleans (drops non-travellers), and day-wraps every trace.
func (h *Handler) AddTraces(pop *population.Population, r *Reader) error {
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := h.process(ev, pop); err != nil {
			return err
		}
	}
	h.finalise(pop)
	h.clean(pop)
	h.wrap(pop)
	return nil
}

func (h *Handler) process(ev Event, pop *population.Population) error {
	switch ev.Kind {
	case EventActStart:
		if _, ok := pop.Get(ev.Person); ok {
			h.activityStart[ev.Person] = activityStart{time: ev.Time, act: ev.Act, link: ev.Link}
		}
	case EventActEnd:
		person, ok := pop.Get(ev.Person)
		if !ok {
			return nil
		}
		start, hadStart := h.activityStart[ev.Person]
		delete(h.activityStart, ev.Person)
		if !hadStart {
			start = activityStart{time: 0, act: ev.Act, link: ev.Link}
		}
		link, ok := h.network.Links[ev.Link]
		if !ok {
			return fmt.Errorf("tracer: failed to find link %q in network", ev.Link)
		}
		person.Trace.AddActivity(population.Activity{
			StartTime: start.time,
			EndTime:   ev.Time,
			Act:       start.act,
			Node:      link.Node,
		})
	case EventEnteredLink:
		if _, ok := pop.Get(ev.Vehicle); ok {
			h.linkEntry[ev.Vehicle] = ev.Time
		}
	case EventLeftLink:
		return h.appendLink(pop, ev, 1.0)
	case EventVehicleLeavesTraffic:
		return h.appendLink(pop, ev, 0.5)
	}
	return nil
}

func (h *Handler) appendLink(pop *population.Population, ev Event, distanceFraction float64) error {
	entry, ok := h.linkEntry[ev.Vehicle]
	if !ok {
		return nil
	}
	delete(h.linkEntry, ev.Vehicle)

	person, ok := pop.Get(ev.Vehicle)
	if !ok {
		return nil
	}
	link, ok := h.network.Links[ev.Link]
	if !ok {
		return fmt.Errorf("tracer: failed to find link %q in network", ev.Link)
	}
	person.Trace.AddLink(population.Link{
		StartTime: entry,
		EndTime:   ev.Time,
		LinkID:    ev.Link,
		Distance:  link.Length * distanceFraction,
		Node:      link.Node,
	})
	return nil
}

// finalise appends a final Activity (ending at EndOfDay) for every person
// whose last actstart never saw a matching actend.
func (h *Handler) finalise(pop *population.Population) {
	for pid, start := range h.activityStart {
		person, ok := pop.Get(pid)
		if !ok {
			continue
		}
		act := start.act
		if act == "" {
			act = "home"
		}
		link, ok := h.network.Links[start.link]
		if !ok {
			panic(fmt.Sprintf("tracer: failed to find activity link when finalising activity for person %q", pid))
		}
		person.Trace.AddActivity(population.Activity{
			StartTime: start.time,
			EndTime:   EndOfDay,
			Act:       act,
			Node:      link.Node,
		})
	}
	h.activityStart = map[string]activityStart{}
}

// clean drops every person whose trace has no Link component.
func (h *Handler) clean(pop *population.Population) {
	for _, pid := range pop.Keys() {
		person, _ := pop.Get(pid)
		if !person.Trace.ContainsLink() {
			pop.Delete(pid)
		}
	}
}

// wrap day-wraps every wrappable trace, logging (non-fatally) on failure.
func (h *Handler) wrap(pop *population.Population) {
	pop.Each(func(pid string, person *population.Person) {
		if !person.Trace.IsWrappable() {
			return
		}
		if err := person.Trace.Wrap(); err != nil {
			log.Printf("tracer: wrap error at person %q: %v", pid, err)
		}
	})
}
