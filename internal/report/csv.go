// Package report writes the three output CSVs (specs, per-agent plan
// report, charge events), computes population-level percentile statistics,
// and renders the human-readable energy summary printed at the end of a run.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"evchargesim/internal/config"
	"evchargesim/internal/simulate"
)

// SpecsWriter streams specs.csv rows: one per agent, holding its resolved
// AgentConfig.
type SpecsWriter struct {
	w *csv.Writer
}

// NewSpecsWriter wraps w, writing the specs.csv header immediately.
func NewSpecsWriter(w io.Writer) (*SpecsWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pid", "battery", "trigger", "en_route", "activities"}); err != nil {
		return nil, err
	}
	return &SpecsWriter{w: cw}, nil
}

// Write appends one specs.csv row.
func (s *SpecsWriter) Write(rec config.SpecRecord) error {
	return s.w.Write([]string{rec.PID, rec.Battery, rec.Trigger, rec.EnRoute, rec.Activities})
}

// Flush flushes buffered rows and returns the first write error seen.
func (s *SpecsWriter) Flush() error {
	s.w.Flush()
	return s.w.Error()
}

// ReportWriter streams report.csv rows: one per agent's finalised plan
// record.
type ReportWriter struct {
	w *csv.Writer
}

// NewReportWriter wraps w, writing the report.csv header immediately.
func NewReportWriter(w io.Writer) (*ReportWriter, error) {
	cw := csv.NewWriter(w)
	header := []string{
		"pid", "days", "number_enroute", "number_activity", "number_charges",
		"total_charge_(kWh)", "total_enroute_(kWh)", "total_activity_(kWh)", "leak_(kWh)",
	}
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	return &ReportWriter{w: cw}, nil
}

// Write appends one report.csv row.
func (r *ReportWriter) Write(rec simulate.PlanRecord) error {
	leak := ""
	if rec.LeakKWh != nil {
		leak = fmtFloat(*rec.LeakKWh)
	}
	row := []string{
		rec.PID,
		strconv.Itoa(rec.Days),
		strconv.Itoa(rec.NumberEnRoute),
		strconv.Itoa(rec.NumberActivity),
		strconv.Itoa(rec.NumberCharges),
		fmtFloat(rec.TotalChargeKWh),
		fmtFloat(rec.TotalEnRouteKWh),
		fmtFloat(rec.TotalActivityKWh),
		leak,
	}
	return r.w.Write(row)
}

// Flush flushes buffered rows and returns the first write error seen.
func (r *ReportWriter) Flush() error {
	r.w.Flush()
	return r.w.Error()
}

// EventsWriter streams events.csv rows: one per emitted charge Event.
type EventsWriter struct {
	w *csv.Writer
}

// NewEventsWriter wraps w, writing the events.csv header immediately.
func NewEventsWriter(w io.Writer) (*EventsWriter, error) {
	cw := csv.NewWriter(w)
	header := []string{
		"charge_type", "pid", "spec", "charge_(kWs)", "day",
		"start_time_(s)", "end_time_(s)", "activity", "link_id", "x", "y",
	}
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	return &EventsWriter{w: cw}, nil
}

// Write appends one events.csv row.
func (e *EventsWriter) Write(ev simulate.Event) error {
	row := []string{
		ev.ChargeType.String(),
		ev.PID,
		ev.Spec,
		fmtFloat(ev.Charge),
		strconv.Itoa(ev.Day),
		strconv.Itoa(ev.StartTime),
		strconv.Itoa(ev.EndTime),
		ev.Activity,
		ev.LinkID,
		fmtFloat(ev.Node.X),
		fmtFloat(ev.Node.Y),
	}
	return e.w.Write(row)
}

// Flush flushes buffered rows and returns the first write error seen.
func (e *EventsWriter) Flush() error {
	e.w.Flush()
	return e.w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
