// Package service puts caching and persistence in front of the calculation engine.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/immorechner/property-calculator/internal/cache"
	"github.com/immorechner/property-calculator/internal/calculation"
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/internal/output"
	"github.com/immorechner/property-calculator/internal/store"
	"go.uber.org/zap"
)

// ErrNoStore is returned by Get when the service runs without a database.
var ErrNoStore = errors.New("no result store configured")

// RunStore persists simulation runs. *store.Repository implements it.
type RunStore interface {
	Save(ctx context.Context, rec store.Record) (uuid.UUID, error)
	Load(ctx context.Context, id uuid.UUID) (store.Record, error)
}

var _ RunStore = (*store.Repository)(nil)

// Run is a finished simulation with the id it was stored under.
type Run struct {
	ID     uuid.UUID      `json:"id"`
	Report *output.Report `json:"report"`
}

// SimulationService runs simulations through the engine. Cache and store are optional;
// failures writing to either are logged and do not fail the request.
type SimulationService struct {
	engine         *calculation.Engine
	cache          cache.Cache
	runs           RunStore
	logger         *zap.SugaredLogger
	defaultHorizon int
}

// NewSimulationService builds a service. c and runs may be nil.
func NewSimulationService(engine *calculation.Engine, c cache.Cache, runs RunStore, logger *zap.Logger, defaultHorizon int) *SimulationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultHorizon <= 0 {
		defaultHorizon = domain.DefaultHorizonYears
	}
	return &SimulationService{
		engine:         engine,
		cache:          c,
		runs:           runs,
		logger:         logger.Sugar(),
		defaultHorizon: defaultHorizon,
	}
}

func (s *SimulationService) horizon(years int) int {
	if years == 0 {
		years = s.defaultHorizon
	}
	return calculation.SanitizeHorizon(years)
}

// SimulateProperty projects one property for the household.
func (s *SimulationService) SimulateProperty(ctx context.Context, in domain.PropertyInputs, hh domain.HouseholdTaxContext, years int) (*Run, error) {
	years = s.horizon(years)
	outcome, err := s.propertyOutcome(ctx, in, hh, years)
	if err != nil {
		return nil, err
	}
	run := &Run{
		ID: uuid.New(),
		Report: &output.Report{
			Household:    hh,
			HorizonYears: years,
			Properties:   []output.PropertyReport{s.propertyReport(in, outcome)},
		},
	}
	run.Report.Properties[0].ID = run.ID.String()
	s.persist(ctx, run, store.KindProperty, in.Name, []domain.PropertyInputs{in}, outcome)
	return run, nil
}

// SimulatePortfolio projects each property on its own and the properties combined.
func (s *SimulationService) SimulatePortfolio(ctx context.Context, ins []domain.PropertyInputs, hh domain.HouseholdTaxContext, years int) (*Run, error) {
	if len(ins) == 0 {
		return nil, fmt.Errorf("portfolio needs at least one property")
	}
	years = s.horizon(years)
	report := &output.Report{Household: hh, HorizonYears: years}
	for _, in := range ins {
		outcome, err := s.propertyOutcome(ctx, in, hh, years)
		if err != nil {
			return nil, err
		}
		report.Properties = append(report.Properties, s.propertyReport(in, outcome))
	}

	portfolio, err := s.cached(ctx, "portfolio", portfolioKey{ins, hh, years}, func() (domain.Outcome, error) {
		return s.engine.SimulatePortfolio(ctx, ins, hh, years)
	})
	if err != nil {
		return nil, err
	}
	report.Portfolio = &portfolio

	run := &Run{ID: uuid.New(), Report: report}
	s.persist(ctx, run, store.KindPortfolio, fmt.Sprintf("%d properties", len(ins)), ins, portfolio)
	return run, nil
}

// Get loads a stored run and rebuilds its report.
func (s *SimulationService) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	if s.runs == nil {
		return nil, ErrNoStore
	}
	rec, err := s.runs.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	report := &output.Report{Household: rec.Household, HorizonYears: rec.HorizonYears}
	if rec.Kind == store.KindPortfolio {
		outcome := rec.Outcome
		report.Portfolio = &outcome
		for _, in := range rec.Inputs {
			report.Properties = append(report.Properties, output.PropertyReport{Name: in.Name})
		}
	} else if len(rec.Inputs) > 0 {
		pr := s.propertyReport(rec.Inputs[0], rec.Outcome)
		pr.ID = rec.ID.String()
		report.Properties = []output.PropertyReport{pr}
	}
	return &Run{ID: rec.ID, Report: report}, nil
}

type propertyKey struct {
	Inputs    domain.PropertyInputs      `json:"inputs"`
	Household domain.HouseholdTaxContext `json:"household"`
	Years     int                        `json:"years"`
}

type portfolioKey struct {
	Inputs    []domain.PropertyInputs    `json:"inputs"`
	Household domain.HouseholdTaxContext `json:"household"`
	Years     int                        `json:"years"`
}

func (s *SimulationService) propertyOutcome(ctx context.Context, in domain.PropertyInputs, hh domain.HouseholdTaxContext, years int) (domain.Outcome, error) {
	return s.cached(ctx, "sim", propertyKey{in, hh, years}, func() (domain.Outcome, error) {
		return s.engine.Simulate(ctx, in, hh, years)
	})
}

// cached serves outcome from the cache when possible. Degraded outcomes are not cached
// so a later request gets another chance at the full projection.
func (s *SimulationService) cached(ctx context.Context, kind string, inputs any, compute func() (domain.Outcome, error)) (domain.Outcome, error) {
	if s.cache == nil {
		return compute()
	}
	key, err := cache.Key(kind, inputs)
	if err != nil {
		s.logger.Warnw("cache key failed", "kind", kind, "error", err)
		return compute()
	}
	if outcome, err := s.cache.Get(ctx, key); err == nil {
		s.logger.Debugw("cache hit", "key", key)
		return outcome, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warnw("cache read failed", "key", key, "error", err)
	}

	outcome, err := compute()
	if err != nil {
		return domain.Outcome{}, err
	}
	if !outcome.IsDegraded() {
		if err := s.cache.Set(ctx, key, outcome); err != nil {
			s.logger.Warnw("cache write failed", "key", key, "error", err)
		}
	}
	return outcome, nil
}

func (s *SimulationService) propertyReport(in domain.PropertyInputs, outcome domain.Outcome) output.PropertyReport {
	pb, ok := s.engine.Breakdown(in)
	if !ok {
		s.logger.Warnw("purchase breakdown unavailable", "property", in.Name)
	}
	return output.PropertyReport{Name: in.Name, Purchase: pb, Outcome: outcome}
}

func (s *SimulationService) persist(ctx context.Context, run *Run, kind store.Kind, name string, ins []domain.PropertyInputs, outcome domain.Outcome) {
	if s.runs == nil {
		return
	}
	_, err := s.runs.Save(ctx, store.Record{
		ID:           run.ID,
		Kind:         kind,
		Name:         name,
		HorizonYears: run.Report.HorizonYears,
		Household:    run.Report.Household,
		Inputs:       ins,
		Outcome:      outcome,
	})
	if err != nil {
		s.logger.Warnw("saving simulation failed", "id", run.ID, "error", err)
	}
}
