// Package engine - phase-ordered SLCSP calculation
// ENFORCES the execution flow:
// 1. Load (normalize raw records into typed rows)
// 2. Index (build the rate-area and silver-rate indexes, then freeze them)
// 3. Resolve (answer every target ZIP in input order)
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"slcsp/core/index"
	"slcsp/core/ingestion"
	"slcsp/core/money"
	"slcsp/core/resolver"
	"slcsp/core/types"
	"slcsp/internal/errors"
	"slcsp/internal/logging"
)

// Phase represents execution phases
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoaded              // Records normalized
	PhaseIndexed             // Indexes built and frozen
	PhaseResolved            // Targets answered
)

// String returns the phase name
func (p Phase) String() string {
	names := []string{"uninitialized", "loaded", "indexed", "resolved"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// PhaseOrderError indicates phases executed out of order
type PhaseOrderError struct {
	Required Phase
	Current  Phase
}

func (e *PhaseOrderError) Error() string {
	return fmt.Sprintf("phase %s required, but current phase is %s", e.Required, e.Current)
}

// Inputs are the decoded records of one run.
type Inputs struct {
	Plans   []types.Record
	Zips    []types.Record
	Targets []types.Record

	// Warnings raised before normalization (e.g. by the decoder)
	Warnings []types.Warning
}

// Summary counts what happened during a run.
type Summary struct {
	Targets           int `json:"targets"`
	Resolved          int `json:"resolved"`
	UnknownZips       int `json:"unknown_zips"`
	AmbiguousZips     int `json:"ambiguous_zips"`
	InsufficientRates int `json:"insufficient_rates"`

	PlansAccepted int `json:"plans_accepted"`
	PlansSkipped  int `json:"plans_skipped"`
	PlansWarned   int `json:"plans_warned"`

	ZipsAccepted int `json:"zips_accepted"`
	ZipsSkipped  int `json:"zips_skipped"`
}

// Report is the result of a complete run.
type Report struct {
	Results  []resolver.Resolution
	Warnings []types.Warning
	Summary  Summary
}

// Explanation shows how a single ZIP resolves.
type Explanation struct {
	Zipcode    string
	Areas      []types.RateAreaKey
	Rates      []money.Rate // distinct silver rates of the single area, if any
	Resolution resolver.Resolution
}

// Orchestrator runs one calculation. It is not safe for concurrent use.
type Orchestrator struct {
	phase      Phase
	normalizer *ingestion.Normalizer
	logger     *zap.Logger

	// Components - each is nil until its phase
	plans   []types.PlanRow
	zips    []types.ZipRow
	targets []types.TargetZip
	areas   *index.RateAreaIndex
	silver  *index.SilverRateIndex

	report *Report
}

// New creates an orchestrator. A nil logger selects the global logger.
func New(normalizer *ingestion.Normalizer, logger *zap.Logger) *Orchestrator {
	if normalizer == nil {
		normalizer = ingestion.NewNormalizer(ingestion.DefaultColumns(), ingestion.DefaultMetalLevel)
	}
	if logger == nil {
		logger = logging.Logger
	}
	return &Orchestrator{
		phase:      PhaseUninitialized,
		normalizer: normalizer,
		logger:     logger,
		report:     &Report{},
	}
}

// Phase returns the current phase
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// PhaseGuard ensures a phase has been completed
func (o *Orchestrator) PhaseGuard(required Phase) error {
	if o.phase < required {
		return &PhaseOrderError{Required: required, Current: o.phase}
	}
	return nil
}

// Load normalizes all records. Invalid plan rates become warnings; every
// other unusable row is skipped silently.
func (o *Orchestrator) Load(ctx context.Context, in Inputs) error {
	if o.phase >= PhaseLoaded {
		return errors.Internal("inputs already loaded", nil)
	}

	for _, w := range in.Warnings {
		o.warn(w)
	}

	summary := &o.report.Summary
	for _, rec := range in.Plans {
		row, outcome := o.normalizer.Plan(rec)
		switch outcome.Kind {
		case types.Accepted:
			summary.PlansAccepted++
			o.plans = append(o.plans, row)
		case types.Warned:
			summary.PlansWarned++
			o.warn(types.Warning{Source: ingestion.SourcePlans, Line: rec.Line, Message: outcome.Reason})
		default:
			summary.PlansSkipped++
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, rec := range in.Zips {
		row, outcome := o.normalizer.Zip(rec)
		if !outcome.OK() {
			summary.ZipsSkipped++
			continue
		}
		summary.ZipsAccepted++
		o.zips = append(o.zips, row)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	o.targets = make([]types.TargetZip, 0, len(in.Targets))
	for _, rec := range in.Targets {
		o.targets = append(o.targets, o.normalizer.Target(rec))
	}

	o.logger.Debug("inputs loaded",
		zap.Int("plans_accepted", summary.PlansAccepted),
		zap.Int("plans_skipped", summary.PlansSkipped),
		zap.Int("plans_warned", summary.PlansWarned),
		zap.Int("zips_accepted", summary.ZipsAccepted),
		zap.Int("zips_skipped", summary.ZipsSkipped),
		zap.Int("targets", len(o.targets)),
	)

	o.phase = PhaseLoaded
	return nil
}

// BuildIndexes builds both indexes. They are read-only afterwards.
func (o *Orchestrator) BuildIndexes() error {
	if err := o.PhaseGuard(PhaseLoaded); err != nil {
		return err
	}
	if o.phase >= PhaseIndexed {
		return errors.Internal("indexes already built", nil)
	}

	o.areas = index.BuildRateAreaIndex(o.zips)
	o.silver = index.BuildSilverRateIndex(o.plans)

	o.logger.Debug("indexes built",
		zap.Int("zips", o.areas.Len()),
		zap.Int("rate_areas", o.silver.Len()),
		zap.String("metal_level", o.normalizer.MetalLevel()),
	)

	o.phase = PhaseIndexed
	return nil
}

// Resolve answers every target ZIP in input order.
func (o *Orchestrator) Resolve() ([]resolver.Resolution, error) {
	if err := o.PhaseGuard(PhaseIndexed); err != nil {
		return nil, err
	}
	if o.phase >= PhaseResolved {
		return nil, errors.Internal("targets already resolved", nil)
	}

	results := resolver.New(o.areas, o.silver).ResolveAll(o.targets)

	summary := &o.report.Summary
	summary.Targets = len(results)
	for _, r := range results {
		switch r.Status {
		case resolver.StatusResolved:
			summary.Resolved++
		case resolver.StatusUnknownZip:
			summary.UnknownZips++
		case resolver.StatusAmbiguousZip:
			summary.AmbiguousZips++
		case resolver.StatusInsufficientRates:
			summary.InsufficientRates++
		}

		fields := []zap.Field{
			zap.String("zipcode", r.Zipcode),
			zap.Stringer("status", r.Status),
			zap.String("rate", r.FormattedRate()),
		}
		if r.Area != nil {
			fields = append(fields, zap.Stringer("rate_area", *r.Area))
		}
		o.logger.Debug("zip resolved", fields...)
	}

	o.report.Results = results
	o.phase = PhaseResolved
	return results, nil
}

// Run executes every phase and returns the report.
func (o *Orchestrator) Run(ctx context.Context, in Inputs) (*Report, error) {
	if err := o.Load(ctx, in); err != nil {
		return nil, err
	}
	if err := o.BuildIndexes(); err != nil {
		return nil, err
	}
	if _, err := o.Resolve(); err != nil {
		return nil, err
	}

	s := o.report.Summary
	o.logger.Info("calculation complete",
		zap.Int("targets", s.Targets),
		zap.Int("resolved", s.Resolved),
		zap.Int("unknown_zips", s.UnknownZips),
		zap.Int("ambiguous_zips", s.AmbiguousZips),
		zap.Int("insufficient_rates", s.InsufficientRates),
		zap.Int("warnings", len(o.report.Warnings)),
	)
	return o.report, nil
}

// Explain reports the indexed data behind a single ZIP.
func (o *Orchestrator) Explain(zip string) (*Explanation, error) {
	if err := o.PhaseGuard(PhaseIndexed); err != nil {
		return nil, err
	}

	e := &Explanation{
		Zipcode:    zip,
		Areas:      o.areas.Areas(zip),
		Resolution: resolver.New(o.areas, o.silver).Resolve(zip),
	}
	if key, ok := o.areas.Single(zip); ok {
		e.Rates = o.silver.Rates(key)
	}
	return e, nil
}

func (o *Orchestrator) warn(w types.Warning) {
	o.report.Warnings = append(o.report.Warnings, w)
	o.logger.Warn(w.Message, zap.String("source", w.Source), zap.Int("line", w.Line))
}
