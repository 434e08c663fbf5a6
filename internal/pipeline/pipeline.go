// Package pipeline orchestrates the end-to-end run: load network and
// population, build traces, resolve and optimise each agent's charging
// plan, and stream results to the report writers and summary. It is the
// shared engine behind every CLI subcommand that does more than one step
// in isolation.
package pipeline

import (
	"encoding/xml"
	"fmt"
	"math/rand"

	"evchargesim/internal/config"
	"evchargesim/internal/network"
	"evchargesim/internal/population"
	"evchargesim/internal/report"
	"evchargesim/internal/simulate"
	"evchargesim/internal/tracer"
)

// BuildTraces loads a Network from netDec, a Population from popDec, folds
// eventDec's stream into it via a tracer.Handler, and returns the
// wrapped, cleaned population ready for optimisation or serialisation.
func BuildTraces(netDec, popDec, eventDec *xml.Decoder) (*population.Population, error) {
	net, err := network.Build(netDec)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load network: %w", err)
	}

	pop, err := population.FromXML(popDec)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load population: %w", err)
	}

	handler := tracer.NewHandler()
	handler.AddNetwork(net)
	events := tracer.NewReader(eventDec)
	if err := handler.AddTraces(pop, events); err != nil {
		return nil, fmt.Errorf("pipeline: build traces: %w", err)
	}

	return pop, nil
}

// OptimiseAgent resolves pid's AgentConfig against cfg, validates it, and
// runs the optimiser (or returns an empty record, for a battery-less
// agent). It mirrors the upstream rule: an agent with a battery must also
// resolve en-route and trigger coverage, checked in that order.
func OptimiseAgent(cfg *config.Config, pid string, person *population.Person, rng *rand.Rand) (config.AgentConfig, *simulate.AgentSimulationRecord, error) {
	agentConfig := config.BuildAgentConfig(cfg, pid, person.Attributes, rng)
	if err := agentConfig.Validate(); err != nil {
		return agentConfig, nil, err
	}

	if agentConfig.Battery == nil {
		return agentConfig, simulate.NewEmptyRecord(pid), nil
	}

	record := simulate.Optimise(pid, person.Trace, agentConfig, cfg)
	record.Finalise(cfg.Scale)
	return agentConfig, record, nil
}

// Results bundles the streaming writers and running summary a full run
// feeds as it walks the population.
type Results struct {
	Specs   *report.SpecsWriter
	Report  *report.ReportWriter
	Events  *report.EventsWriter
	Summary *report.Summary
}

// WriteAgent writes pid's specs.csv row, then (if a record was produced)
// its report.csv row and every one of its closed-loop slice's events.csv
// rows, folding each event and the agent's leak into the running summary.
func (r *Results) WriteAgent(agentConfig config.AgentConfig, record *simulate.AgentSimulationRecord) error {
	if err := r.Specs.Write(agentConfig.ToRecord()); err != nil {
		return fmt.Errorf("pipeline: write specs row for %q: %w", agentConfig.PID, err)
	}
	if record == nil {
		return nil
	}

	planRecord := record.ToRecord()
	if err := r.Report.Write(planRecord); err != nil {
		return fmt.Errorf("pipeline: write report row for %q: %w", agentConfig.PID, err)
	}
	if planRecord.LeakKWh != nil {
		r.Summary.AddLeak(*planRecord.LeakKWh)
	}

	for _, day := range record.Slice() {
		for _, ev := range day.Events {
			r.Summary.Add(ev)
			if err := r.Events.Write(ev); err != nil {
				return fmt.Errorf("pipeline: write event row for %q: %w", agentConfig.PID, err)
			}
		}
	}
	return nil
}
