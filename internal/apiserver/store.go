// Package apiserver reads a completed run's output CSVs (§4.15) back into
// the JSON shapes served by the results-browser API (§4.16). Every request
// re-reads from disk — there is no cache, since the files are small and the
// service is meant for local post-run inspection rather than high-throughput
// serving.
package apiserver

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"evchargesim/internal/apiserver/models"
	"evchargesim/internal/report"
)

// Store reads report.csv, specs.csv, and events.csv from a single run's
// output directory.
type Store struct {
	outpath string
}

// NewStore returns a Store reading from outpath.
func NewStore(outpath string) *Store {
	return &Store{outpath: outpath}
}

// Agents reads every row of report.csv.
func (s *Store) Agents() ([]models.AgentRow, error) {
	rows, err := s.readCSV("report.csv")
	if err != nil {
		return nil, err
	}
	agents := make([]models.AgentRow, 0, len(rows))
	for _, row := range rows {
		agent, err := parseAgentRow(row)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// Agent returns the report.csv row, specs.csv row, and events.csv rows for
// a single pid. ok is false if no report.csv row matches pid.
func (s *Store) Agent(pid string) (models.AgentDetailResponse, bool, error) {
	var detail models.AgentDetailResponse

	reportRows, err := s.readCSV("report.csv")
	if err != nil {
		return detail, false, err
	}
	found := false
	for _, row := range reportRows {
		if len(row) == 0 || row[0] != pid {
			continue
		}
		agent, err := parseAgentRow(row)
		if err != nil {
			return detail, false, err
		}
		detail.Report = agent
		found = true
		break
	}
	if !found {
		return detail, false, nil
	}

	specRows, err := s.readCSV("specs.csv")
	if err != nil {
		return detail, false, err
	}
	for _, row := range specRows {
		if len(row) >= 5 && row[0] == pid {
			detail.Spec = models.SpecRow{PID: row[0], Battery: row[1], Trigger: row[2], EnRoute: row[3], Activities: row[4]}
			break
		}
	}

	eventRows, err := s.readCSV("events.csv")
	if err != nil {
		return detail, false, err
	}
	for _, row := range eventRows {
		if len(row) < 11 || row[1] != pid {
			continue
		}
		ev, err := parseEventRow(row)
		if err != nil {
			return detail, false, err
		}
		detail.Events = append(detail.Events, ev)
	}

	return detail, true, nil
}

// Summary aggregates every report.csv row into population-wide totals and
// percentile statistics.
func (s *Store) Summary() (models.SummaryResponse, error) {
	agents, err := s.Agents()
	if err != nil {
		return models.SummaryResponse{}, err
	}

	var resp models.SummaryResponse
	resp.Agents = len(agents)

	charge := make([]float64, 0, len(agents))
	leak := make([]float64, 0, len(agents))
	for _, a := range agents {
		resp.TotalChargeKWh += a.TotalChargeKWh
		resp.TotalEnRouteKWh += a.TotalEnRouteKWh
		resp.TotalActivityKWh += a.TotalActivityKWh
		resp.TotalEnRouteEvents += a.NumberEnRoute
		resp.TotalActivityEvents += a.NumberActivity
		charge = append(charge, a.TotalChargeKWh)
		if a.LeakKWh != nil {
			leak = append(leak, *a.LeakKWh)
		}
	}

	stats := report.ComputeStats(charge, leak)
	resp.Stats = models.PercentileStats{
		ChargeP50: stats.ChargeP50,
		ChargeP95: stats.ChargeP95,
		LeakP50:   stats.LeakP50,
		LeakP95:   stats.LeakP95,
	}
	return resp, nil
}

func (s *Store) readCSV(name string) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.outpath, name))
	if err != nil {
		return nil, fmt.Errorf("apiserver: open %q: %w", name, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("apiserver: read %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil // drop header
}

func parseAgentRow(row []string) (models.AgentRow, error) {
	if len(row) < 9 {
		return models.AgentRow{}, fmt.Errorf("apiserver: report.csv row has %d columns, want 9", len(row))
	}
	var agent models.AgentRow
	var err error
	agent.PID = row[0]
	if agent.Days, err = strconv.Atoi(row[1]); err != nil {
		return agent, err
	}
	if agent.NumberEnRoute, err = strconv.Atoi(row[2]); err != nil {
		return agent, err
	}
	if agent.NumberActivity, err = strconv.Atoi(row[3]); err != nil {
		return agent, err
	}
	if agent.NumberCharges, err = strconv.Atoi(row[4]); err != nil {
		return agent, err
	}
	if agent.TotalChargeKWh, err = strconv.ParseFloat(row[5], 64); err != nil {
		return agent, err
	}
	if agent.TotalEnRouteKWh, err = strconv.ParseFloat(row[6], 64); err != nil {
		return agent, err
	}
	if agent.TotalActivityKWh, err = strconv.ParseFloat(row[7], 64); err != nil {
		return agent, err
	}
	if row[8] != "" {
		leak, err := strconv.ParseFloat(row[8], 64)
		if err != nil {
			return agent, err
		}
		agent.LeakKWh = &leak
	}
	return agent, nil
}

func parseEventRow(row []string) (models.EventRow, error) {
	var ev models.EventRow
	var err error
	ev.ChargeType = row[0]
	ev.PID = row[1]
	ev.Spec = row[2]
	if ev.ChargeKWs, err = strconv.ParseFloat(row[3], 64); err != nil {
		return ev, err
	}
	if ev.Day, err = strconv.Atoi(row[4]); err != nil {
		return ev, err
	}
	if ev.StartTime, err = strconv.Atoi(row[5]); err != nil {
		return ev, err
	}
	if ev.EndTime, err = strconv.Atoi(row[6]); err != nil {
		return ev, err
	}
	ev.Activity = row[7]
	ev.LinkID = row[8]
	if ev.X, err = strconv.ParseFloat(row[9], 64); err != nil {
		return ev, err
	}
	if ev.Y, err = strconv.ParseFloat(row[10], 64); err != nil {
		return ev, err
	}
	return ev, nil
}
