package population

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"evchargesim/internal/xmlio"
)

// PeekAttributes maps attribute key -> bounded multiset of distinct values
// seen for that key across the whole plans file.
type PeekAttributes map[string]*PeekSet

// PeekAttributeValues peeks at most max distinct values per attribute key
// found directly under a person's <attributes> block, explicitly ignoring
// anything nested inside <plan> (unlike the production attribute parser —
// see SPEC_FULL.md §9).
func PeekAttributeValues(dec *xml.Decoder, max int) (PeekAttributes, error) {
	attrs := PeekAttributes{}
	parser := newPeekParser(max)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("population: peek decode at offset %d: %w", dec.InputOffset(), err)
		}
		parser.process(tok, attrs)
	}
	return attrs, nil
}

// SortedKeys returns the attribute keys in ascending order.
func (p PeekAttributes) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type peekParserState int

const (
	peekStatePerson peekParserState = iota
	peekStatePlan
	peekStateAttributes
	peekStateAttribute
)

type peekParser struct {
	state peekParserState
	max   int
	key   string
}

func newPeekParser(max int) *peekParser {
	return &peekParser{state: peekStatePerson, max: max}
}

func (p *peekParser) process(tok xml.Token, attrs PeekAttributes) {
	switch p.state {
	case peekStatePerson:
		p.fromPerson(tok)
	case peekStatePlan:
		p.fromPlan(tok)
	case peekStateAttributes:
		p.fromAttributes(tok)
	case peekStateAttribute:
		p.fromAttribute(tok, attrs)
	}
}

func (p *peekParser) fromPerson(tok xml.Token) {
	start, ok := tok.(xml.StartElement)
	if !ok {
		return
	}
	switch start.Name.Local {
	case "attributes":
		p.state = peekStateAttributes
	case "plan":
		p.state = peekStatePlan
	}
}

func (p *peekParser) fromPlan(tok xml.Token) {
	if end, ok := tok.(xml.EndElement); ok && end.Name.Local == "plan" {
		p.state = peekStatePerson
	}
}

func (p *peekParser) fromAttributes(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		if t.Name.Local == "attribute" {
			if name, ok := xmlio.Attr(t, "name"); ok {
				p.key = name
				p.state = peekStateAttribute
			}
		}
	case xml.EndElement:
		if t.Name.Local == "attributes" {
			p.state = peekStatePerson
		}
	}
}

func (p *peekParser) fromAttribute(tok xml.Token, attrs PeekAttributes) {
	if text, ok := tok.(xml.CharData); ok {
		set, exists := attrs[p.key]
		if !exists {
			set = NewPeekSet(p.max)
			attrs[p.key] = set
		}
		set.Insert(string(text))
	}
	p.state = peekStateAttributes
}
