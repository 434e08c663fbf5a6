// Package network builds the immutable link-id -> (length, end-node)
// mapping consumed by the trace builder, from a MATSim network XML stream.
package network

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"evchargesim/internal/xmlio"
)

// ErrMalformedNetwork is wrapped with context whenever a link references an
// unknown node or a numeric field fails to parse.
var ErrMalformedNetwork = errors.New("network: malformed")

// Node is an end-point coordinate in the network's native coordinate system.
type Node struct {
	X, Y float64
}

// Link is the length and terminating node of a network link.
type Link struct {
	Length float64
	Node   Node
}

// Network is the read-only link-id -> Link mapping.
type Network struct {
	Links map[string]Link
}

// Build parses a MATSim network XML document, recognising <node> and <link>
// start elements and ignoring everything else.
func Build(dec *xml.Decoder) (*Network, error) {
	nodes := map[string]Node{}
	links := map[string]Link{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("network: decode at offset %d: %w", dec.InputOffset(), err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "node":
			id, err := xmlio.MustAttr(start, "id")
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedNetwork, err)
			}
			x, err := parseFloatAttr(start, "x")
			if err != nil {
				return nil, err
			}
			y, err := parseFloatAttr(start, "y")
			if err != nil {
				return nil, err
			}
			nodes[id] = Node{X: x, Y: y}
		case "link":
			id, err := xmlio.MustAttr(start, "id")
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedNetwork, err)
			}
			length, err := parseFloatAttr(start, "length")
			if err != nil {
				return nil, err
			}
			to, err := xmlio.MustAttr(start, "to")
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedNetwork, err)
			}
			node, ok := nodes[to]
			if !ok {
				return nil, fmt.Errorf("%w: link %q references unknown node %q", ErrMalformedNetwork, id, to)
			}
			links[id] = Link{Length: length, Node: node}
		}
	}

	return &Network{Links: links}, nil
}

func parseFloatAttr(tok xml.StartElement, key string) (float64, error) {
	raw, err := xmlio.MustAttr(tok, key)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedNetwork, err)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: element %q attribute %q: %v", ErrMalformedNetwork, tok.Name.Local, key, err)
	}
	return v, nil
}
