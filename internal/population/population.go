package population

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"evchargesim/internal/xmlio"
)

// Attributes is a person's attribute-name -> attribute-value map.
type Attributes map[string]string

// Person is one agent's attributes and trace.
type Person struct {
	Attributes Attributes
	Trace      Trace
}

// Population is an ordered map person-id -> Person. Iteration (via Each or
// Keys) always proceeds in strictly ascending lexicographic person-id
// order, matching the upstream BTreeMap semantics.
type Population struct {
	people map[string]*Person
}

// New returns an empty Population.
func New() *Population {
	return &Population{people: map[string]*Person{}}
}

// Len returns the number of people in the population.
func (p *Population) Len() int { return len(p.people) }

// Get returns the person for pid, or nil if absent.
func (p *Population) Get(pid string) (*Person, bool) {
	person, ok := p.people[pid]
	return person, ok
}

// Insert adds or replaces a person.
func (p *Population) Insert(pid string, person *Person) {
	p.people[pid] = person
}

// Delete removes a person.
func (p *Population) Delete(pid string) {
	delete(p.people, pid)
}

// Keys returns person-ids in strictly ascending lexicographic order.
func (p *Population) Keys() []string {
	keys := make([]string, 0, len(p.people))
	for k := range p.people {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn for every person in ascending person-id order.
func (p *Population) Each(fn func(pid string, person *Person)) {
	for _, pid := range p.Keys() {
		fn(pid, p.people[pid])
	}
}

// FromXML parses a MATSim plans document into a Population, extracting only
// person attributes (not plan/trip content) per the population attribute
// state machine.
func FromXML(dec *xml.Decoder) (*Population, error) {
	pop := New()
	parser := newAttributesParser()

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("population: decode at offset %d: %w", dec.InputOffset(), err)
		}
		parser.process(tok, pop)
	}
	return pop, nil
}

// attributesParserState is the four-state machine of §4.2.
type attributesParserState int

const (
	statePopulation attributesParserState = iota
	statePerson
	stateAttributes
	stateAttribute
)

// attributesParser builds per-person Attributes from the token stream.
// It deliberately has no Plan-state guard. Only the first <attributes>
// block inside a <person> is read: closing it returns the parser to
// Population scope, so later blocks (including any inside <plan>) are
// skipped. A person with no person-level block whose <plan> carries one
// gets that plan block's attributes (upstream's documented behaviour). See
// SPEC_FULL.md §9's Open Question.
type attributesParser struct {
	state attributesParserState
	pid   string
	key   string
}

func newAttributesParser() *attributesParser {
	return &attributesParser{state: statePopulation}
}

func (a *attributesParser) process(tok xml.Token, pop *Population) {
	switch a.state {
	case statePopulation:
		a.fromPopulation(tok, pop)
	case statePerson:
		a.fromPerson(tok)
	case stateAttributes:
		a.fromAttributes(tok)
	case stateAttribute:
		a.fromAttribute(tok, pop)
	}
}

func (a *attributesParser) fromPopulation(tok xml.Token, pop *Population) {
	start, ok := tok.(xml.StartElement)
	if !ok || start.Name.Local != "person" {
		return
	}
	id, ok := xmlio.Attr(start, "id")
	if !ok {
		return
	}
	a.pid = id
	pop.Insert(id, &Person{Attributes: Attributes{}})
	a.state = statePerson
}

func (a *attributesParser) fromPerson(tok xml.Token) {
	switch t := tok.(type) {
	case xml.EndElement:
		if t.Name.Local == "person" {
			a.state = statePopulation
		}
	case xml.StartElement:
		if t.Name.Local == "attributes" {
			a.state = stateAttributes
		}
	}
}

func (a *attributesParser) fromAttributes(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		if t.Name.Local == "attribute" {
			if name, ok := xmlio.Attr(t, "name"); ok {
				a.key = name
				a.state = stateAttribute
			}
		}
	case xml.EndElement:
		if t.Name.Local == "attributes" {
			a.state = statePopulation
		}
	}
}

func (a *attributesParser) fromAttribute(tok xml.Token, pop *Population) {
	// Any token seen while in the Attribute state returns us to Attributes;
	// only CharData also assigns the value (an empty <attribute/> leaves it
	// unset).
	if text, ok := tok.(xml.CharData); ok {
		if person, ok := pop.Get(a.pid); ok {
			person.Attributes[a.key] = string(text)
		}
	}
	a.state = stateAttributes
}
