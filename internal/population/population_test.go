package population

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"evchargesim/internal/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlansXML = `<?xml version="1.0"?>
<population>
  <person id="b">
    <attributes>
      <attribute name="age" class="java.lang.String">40</attribute>
      <attribute name="home" class="java.lang.String">zoneB</attribute>
    </attributes>
    <plan>
      <attributes>
        <attribute name="leg-mode" class="java.lang.String">car</attribute>
      </attributes>
    </plan>
  </person>
  <person id="a">
    <attributes>
      <attribute name="age" class="java.lang.String">30</attribute>
    </attributes>
  </person>
</population>`

func TestFromXMLExtractsAttributesOnly(t *testing.T) {
	dec := xml.NewDecoder(strings.NewReader(samplePlansXML))
	pop, err := FromXML(dec)
	require.NoError(t, err)
	require.Equal(t, 2, pop.Len())

	assert.Equal(t, []string{"a", "b"}, pop.Keys())

	b, ok := pop.Get("b")
	require.True(t, ok)
	assert.Equal(t, "40", b.Attributes["age"])
	assert.Equal(t, "zoneB", b.Attributes["home"])
	// Trip-level attribute nested under <plan> must not leak into the
	// person's attributes under the preserved upstream behaviour.
	_, hasLegMode := b.Attributes["leg-mode"]
	assert.False(t, hasLegMode)
}

func TestPopulationIterationOrder(t *testing.T) {
	pop := New()
	pop.Insert("p3", &Person{Attributes: Attributes{}})
	pop.Insert("p1", &Person{Attributes: Attributes{}})
	pop.Insert("p2", &Person{Attributes: Attributes{}})

	var seen []string
	pop.Each(func(pid string, _ *Person) { seen = append(seen, pid) })
	assert.Equal(t, []string{"p1", "p2", "p3"}, seen)
}

func TestTraceWrapMergesRepeatedHomeActivity(t *testing.T) {
	trace := Trace{}
	trace.AddActivity(Activity{StartTime: 0, EndTime: 1, Act: "home"})
	trace.AddLink(Link{StartTime: 1, EndTime: 2, LinkID: "a", Distance: 1})
	trace.AddLink(Link{StartTime: 2, EndTime: 3, LinkID: "b", Distance: 1})
	trace.AddActivity(Activity{StartTime: 3, EndTime: 86401, Act: "home"})

	require.True(t, trace.IsWrappable())
	require.NoError(t, trace.Wrap())

	require.Equal(t, 3, trace.Len())
	assert.True(t, trace.Plan[0].IsLink())
	assert.True(t, trace.Plan[2].IsActivity())
	assert.Equal(t, 86402, trace.Plan[2].Activity.EndTime)

	// Idempotent: already-wrapped trace starts with a Link, so it is no
	// longer wrappable.
	assert.False(t, trace.IsWrappable())
}

func TestPeekAttributeValuesExcludesPlanAttributes(t *testing.T) {
	dec := xml.NewDecoder(strings.NewReader(samplePlansXML))
	attrs, err := PeekAttributeValues(dec, 10)
	require.NoError(t, err)

	_, hasLegMode := attrs["leg-mode"]
	assert.False(t, hasLegMode)

	require.Contains(t, attrs, "age")
	assert.Equal(t, "30, 40", attrs["age"].String())
}

func TestSerialiseRoundTripJSON(t *testing.T) {
	pop := New()
	pop.Insert("p1", &Person{
		Attributes: Attributes{"age": "30"},
		Trace: Trace{Plan: []Component{
			NewActivityComponent(Activity{StartTime: 0, EndTime: 10, Act: "home", Node: network.Node{X: 1, Y: 2}}),
			NewLinkComponent(Link{StartTime: 10, EndTime: 20, LinkID: "a", Distance: 5, Node: network.Node{X: 3, Y: 4}}),
		}},
	})

	var buf bytes.Buffer
	require.NoError(t, pop.Serialise(&buf, true))

	roundTripped, err := Deserialise(&buf, true)
	require.NoError(t, err)
	require.Equal(t, pop.Keys(), roundTripped.Keys())

	orig, _ := pop.Get("p1")
	got, ok := roundTripped.Get("p1")
	require.True(t, ok)
	assert.Equal(t, orig.Attributes, got.Attributes)
	assert.Equal(t, orig.Trace, got.Trace)
}

func TestSerialiseRoundTripBinary(t *testing.T) {
	pop := New()
	pop.Insert("p1", &Person{
		Attributes: Attributes{"age": "30"},
		Trace: Trace{Plan: []Component{
			NewLinkComponent(Link{StartTime: 0, EndTime: 1, LinkID: "a", Distance: 1}),
		}},
	})

	var buf bytes.Buffer
	require.NoError(t, pop.Serialise(&buf, false))

	roundTripped, err := Deserialise(&buf, false)
	require.NoError(t, err)
	got, ok := roundTripped.Get("p1")
	require.True(t, ok)
	orig, _ := pop.Get("p1")
	assert.Equal(t, orig.Trace, got.Trace)
}
