// Package tracer folds a MATSim event stream and a Network into the traces
// held by a Population.
package tracer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"evchargesim/internal/xmlio"
)

// EventKind discriminates the recognised MATSim event types. Unrecognised
// event "type" values decode to EventOther, which the Handler ignores.
type EventKind int

const (
	EventActStart EventKind = iota
	EventActEnd
	EventEnteredLink
	EventLeftLink
	EventVehicleLeavesTraffic
	EventOther
)

// Event is one decoded MATSim <event .../> element.
type Event struct {
	Kind    EventKind
	Time    int
	Person  string
	Vehicle string
	Link    string
	Act     string
}

// Reader decodes a sequence of Events from an XML token stream, one per
// <event> element, skipping everything else.
type Reader struct {
	dec *xml.Decoder
}

// NewReader wraps dec for event decoding.
func NewReader(dec *xml.Decoder) *Reader {
	return &Reader{dec: dec}
}

// Next returns the next event, io.EOF when the stream is exhausted.
func (r *Reader) Next() (Event, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return Event{}, io.EOF
		}
		if err != nil {
			return Event{}, fmt.Errorf("tracer: decode at offset %d: %w", r.dec.InputOffset(), err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "event" {
			continue
		}
		return eventFromElement(start)
	}
}

func eventFromElement(start xml.StartElement) (Event, error) {
	typ, _ := xmlio.Attr(start, "type")

	t, err := parseMatsimTime(start)
	if err != nil {
		return Event{}, err
	}

	person, _ := xmlio.Attr(start, "person")
	vehicle, _ := xmlio.Attr(start, "vehicle")
	link, _ := xmlio.Attr(start, "link")
	act, _ := xmlio.Attr(start, "actType")

	kind := EventOther
	switch typ {
	case "actstart":
		kind = EventActStart
	case "actend":
		kind = EventActEnd
	case "entered link":
		kind = EventEnteredLink
	case "left link":
		kind = EventLeftLink
	case "vehicle leaves traffic":
		kind = EventVehicleLeavesTraffic
	}

	return Event{
		Kind:    kind,
		Time:    t,
		Person:  person,
		Vehicle: vehicle,
		Link:    link,
		Act:     act,
	}, nil
}

// parseMatsimTime truncates a decimal-seconds "time" attribute (e.g.
// "12.5") to an integer number of seconds by splitting at the '.'.
func parseMatsimTime(start xml.StartElement) (int, error) {
	raw, ok := xmlio.Attr(start, "time")
	if !ok {
		return 0, nil
	}
	whole := raw
	if idx := strings.IndexByte(raw, '.'); idx >= 0 {
		whole = raw[:idx]
	}
	if whole == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("tracer: malformed event time %q: %w", raw, err)
	}
	return v, nil
}
