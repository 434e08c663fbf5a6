package population

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
)

// wireRecord is the serialised shape for one person; used by both codecs so
// ordering (and thus reproducibility of round-trips) is explicit.
type wireRecord struct {
	PID        string
	Attributes Attributes
	Trace      Trace
}

func (p *Population) toWire() []wireRecord {
	records := make([]wireRecord, 0, p.Len())
	p.Each(func(pid string, person *Person) {
		records = append(records, wireRecord{PID: pid, Attributes: person.Attributes, Trace: person.Trace})
	})
	return records
}

func fromWire(records []wireRecord) *Population {
	pop := New()
	for _, r := range records {
		pop.Insert(r.PID, &Person{Attributes: r.Attributes, Trace: r.Trace})
	}
	return pop
}

// Serialise writes the population to w, either as indented JSON (json=true)
// or as a compact gob-encoded binary stream (json=false).
func (p *Population) Serialise(w io.Writer, json_ bool) error {
	records := p.toWire()
	if json_ {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("population: serialise json: %w", err)
		}
		return nil
	}
	if err := gob.NewEncoder(w).Encode(records); err != nil {
		return fmt.Errorf("population: serialise gob: %w", err)
	}
	return nil
}

// Deserialise reads a population previously written by Serialise.
func Deserialise(r io.Reader, json_ bool) (*Population, error) {
	var records []wireRecord
	if json_ {
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("population: deserialise json: %w", err)
		}
		return fromWire(records), nil
	}
	if err := gob.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("population: deserialise gob: %w", err)
	}
	return fromWire(records), nil
}
