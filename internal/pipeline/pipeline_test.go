package pipeline

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"evchargesim/internal/config"
	"evchargesim/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNetworkXML = `<?xml version="1.0"?>
<network>
  <nodes>
    <node id="n1" x="0" y="0"/>
    <node id="n2" x="1" y="1"/>
  </nodes>
  <links>
    <link id="a" length="3600" to="n2"/>
  </links>
</network>`

const testPopulationXML = `<?xml version="1.0"?>
<population>
  <person id="p1">
    <attributes>
      <attribute name="age">30</attribute>
    </attributes>
  </person>
</population>`

const testEventsXML = `<?xml version="1.0"?>
<events>
  <event time="0" type="actstart" person="p1" actType="home" link="a"/>
  <event time="0" type="entered link" vehicle="p1" link="a"/>
  <event time="100" type="left link" vehicle="p1" link="a"/>
  <event time="3600" type="actend" person="p1" actType="home" link="a"/>
</events>`

func TestBuildTracesLoadsNetworkPopulationAndEvents(t *testing.T) {
	netDec := xml.NewDecoder(strings.NewReader(testNetworkXML))
	popDec := xml.NewDecoder(strings.NewReader(testPopulationXML))
	evDec := xml.NewDecoder(strings.NewReader(testEventsXML))

	pop, err := BuildTraces(netDec, popDec, evDec)
	require.NoError(t, err)
	require.Equal(t, 1, pop.Len())

	person, ok := pop.Get("p1")
	require.True(t, ok)
	assert.True(t, person.Trace.Len() > 0)
}

func TestOptimiseAgentReturnsEmptyRecordWithoutBattery(t *testing.T) {
	cfg := config.Default()
	cfg.Scale = 1.0

	netDec := xml.NewDecoder(strings.NewReader(testNetworkXML))
	popDec := xml.NewDecoder(strings.NewReader(testPopulationXML))
	evDec := xml.NewDecoder(strings.NewReader(testEventsXML))
	pop, err := BuildTraces(netDec, popDec, evDec)
	require.NoError(t, err)

	person, _ := pop.Get("p1")
	rng := config.NewSampler(nil)

	agentConfig, record, err := OptimiseAgent(&cfg, "p1", person, rng)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Nil(t, agentConfig.Battery)
	assert.NotNil(t, record.Error)
	assert.InDelta(t, 0, *record.Error, 1e-9)
}

func TestResultsWriteAgentSkipsReportRowWithoutRecord(t *testing.T) {
	var specsBuf, reportBuf, eventsBuf bytes.Buffer
	specsW, err := report.NewSpecsWriter(&specsBuf)
	require.NoError(t, err)
	reportW, err := report.NewReportWriter(&reportBuf)
	require.NoError(t, err)
	eventsW, err := report.NewEventsWriter(&eventsBuf)
	require.NoError(t, err)

	results := &Results{Specs: specsW, Report: reportW, Events: eventsW, Summary: report.NewSummary(1.0)}

	cfg := config.Default()
	rng := config.NewSampler(nil)
	agentConfig := config.BuildAgentConfig(&cfg, "p1", map[string]string{}, rng)

	require.NoError(t, results.WriteAgent(agentConfig, nil))
	require.NoError(t, results.Specs.Flush())
	require.NoError(t, results.Report.Flush())
	assert.Contains(t, specsBuf.String(), "p1")
	assert.NotContains(t, reportBuf.String(), "p1")
}
