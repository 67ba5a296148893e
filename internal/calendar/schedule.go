package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"relcal/daterange"
	"relcal/internal/config"
	appLog "relcal/internal/log"
	"relcal/internal/model"
)

// Report is a named range computed every time its schedule fires.
type Report struct {
	Name     string
	Kind     daterange.Kind
	Schedule cron.Schedule
}

// maxRuns caps Upcoming so a typo in n cannot allocate without bound.
const maxRuns = 366

// NewReport parses a standard five-field cron spec ("0 1 * * *") or a
// descriptor such as "@daily".
func NewReport(name string, kind daterange.Kind, spec string) (Report, error) {
	if name == "" {
		return Report{}, errors.New("report name is empty")
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return Report{}, fmt.Errorf("report %q: parse cron %q: %w", name, spec, err)
	}
	return Report{Name: name, Kind: kind, Schedule: sched}, nil
}

// ReportsFromConfig builds reports from their configured form.
func ReportsFromConfig(cfgs []config.ReportConfig) ([]Report, error) {
	reports := make([]Report, 0, len(cfgs))
	for _, c := range cfgs {
		kind, err := daterange.ParseKind(c.Range)
		if err != nil {
			return nil, fmt.Errorf("report %q: %w", c.Name, err)
		}
		r, err := NewReport(c.Name, kind, c.Cron)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Planner computes report runs for a fixed offset from UTC. Schedules are
// evaluated on the offset's wall clock, so "0 1 * * *" means 01:00 local.
type Planner struct {
	Calc   *daterange.Calculator
	Offset time.Duration
}

// Next returns the first run of r strictly after after.
func (p Planner) Next(r Report, after time.Time) (model.Run, error) {
	at := r.Schedule.Next(after.In(daterange.Zone(p.Offset)))
	if at.IsZero() {
		return model.Run{}, fmt.Errorf("report %q: schedule never fires", r.Name)
	}
	ref := at.UTC()
	rng, err := p.Calc.Compute(r.Kind, p.Offset, &ref)
	if err != nil {
		return model.Run{}, fmt.Errorf("report %q: %w", r.Name, err)
	}
	appLog.Debug("report run planned", "report", r.Name, "kind", string(r.Kind), "at", ref)
	return model.Run{
		Report: r.Name,
		Kind:   string(r.Kind),
		At:     ref,
		Window: model.FromRange(r.Name, rng),
	}, nil
}

// Upcoming returns the next n runs of r after after, in order.
func (p Planner) Upcoming(r Report, after time.Time, n int) ([]model.Run, error) {
	if n <= 0 {
		return nil, nil
	}
	if n > maxRuns {
		n = maxRuns
	}
	runs := make([]model.Run, 0, n)
	for len(runs) < n {
		run, err := p.Next(r, after)
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)
		after = run.At
	}
	return runs, nil
}

// Plan returns the next n runs of every report, grouped by report in input
// order.
func (p Planner) Plan(reports []Report, after time.Time, n int) ([]model.Run, error) {
	var all []model.Run
	for _, r := range reports {
		runs, err := p.Upcoming(r, after, n)
		if err != nil {
			return nil, err
		}
		all = append(all, runs...)
	}
	return all, nil
}
