package advisor

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/config"
	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/llm"
	"github.com/dlazarev/finadvisor/internal/metrics"
	"github.com/dlazarev/finadvisor/internal/reconcile"
	"github.com/dlazarev/finadvisor/internal/summary"
)

// ErrProviderUnavailable means no text-generation client is configured.
// It is the only error Advise surfaces: a configuration problem, not a
// per-request one.
var ErrProviderUnavailable = errors.New("advisor: no text-generation provider configured")

// Store is the slice of the persistent store the pipeline reads, plus the
// single append used to persist real visualizations. Implementations may
// fail; the pipeline degrades instead of propagating store errors.
type Store interface {
	ListManualEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error)
	ListProviderRecords(ctx context.Context, userID string) (map[string][]domain.ProviderRecord, error)
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	SaveVisualization(ctx context.Context, userID string, v *domain.Visualization) (string, error)
}

// Service is one advisory pipeline instance. Stateless per request; the
// generator and store handles are read-only after construction and safe
// for concurrent use.
type Service struct {
	gen              llm.Generator
	store            Store
	log              zerolog.Logger
	agentTimeout     time.Duration
	synthesisTimeout time.Duration
}

// New wires the advisory service. gen may be nil when no provider is
// configured; Advise then fails fast with ErrProviderUnavailable.
func New(gen llm.Generator, st Store, cfg config.GeminiConfig, log zerolog.Logger) *Service {
	return &Service{
		gen:              gen,
		store:            st,
		log:              log,
		agentTimeout:     cfg.AgentTimeout,
		synthesisTimeout: cfg.SynthesisTimeout,
	}
}

// Advise answers one free-text advisory query. Aside from
// ErrProviderUnavailable it never returns an error: every internal failure
// degrades to a structurally valid best-effort response.
func (s *Service) Advise(ctx context.Context, query domain.AdvisoryQuery) (domain.AdvisoryResponse, error) {
	if s.gen == nil {
		return domain.AdvisoryResponse{}, ErrProviderUnavailable
	}

	start := time.Now()
	defer func() {
		metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	log := s.log.With().Str("user_id", query.UserID).Logger()

	manual, byProvider, goals := s.fetchData(ctx, log, query)
	ledger := reconcile.Reconcile(manual, byProvider)
	sum := summary.Calculate(query.Profile, ledger, goals)

	pctx := pipelineContext{
		Query:   query.Query,
		Profile: query.Profile,
		Summary: sum,
		Ledger:  ledger,
		Goals:   goals,
	}

	selected := s.selectAgents(ctx, log, query.Query, OptionalAgents())
	results := s.runAgents(ctx, log, selected, pctx)

	selection := s.selectChart(ctx, log, query.Query)
	formatted := s.formatChart(ctx, log, sum)
	dataset := s.buildChart(ctx, log, pctx, formatted)

	resp := s.synthesize(ctx, log, pctx, results, dataset, selection)

	s.persistVisualization(ctx, log, query.UserID, resp.Visualization)

	return resp, nil
}

// fetchData loads the user's records from the store, degrading to the
// caller-supplied context and then to empty collections; a store outage
// never fails the request.
func (s *Service) fetchData(ctx context.Context, log zerolog.Logger, query domain.AdvisoryQuery) ([]domain.LedgerEntry, map[string][]domain.ProviderRecord, []domain.Goal) {
	var (
		manual     []domain.LedgerEntry
		byProvider map[string][]domain.ProviderRecord
		goals      []domain.Goal
	)

	if s.store != nil {
		var err error
		if manual, err = s.store.ListManualEntries(ctx, query.UserID); err != nil {
			log.Warn().Err(err).Msg("Failed to load manual entries")
			manual = nil
		}
		if byProvider, err = s.store.ListProviderRecords(ctx, query.UserID); err != nil {
			log.Warn().Err(err).Msg("Failed to load provider records")
			byProvider = nil
		}
		if goals, err = s.store.ListGoals(ctx, query.UserID); err != nil {
			log.Warn().Err(err).Msg("Failed to load goals")
			goals = nil
		}
	}

	if pre := query.Context; pre != nil {
		if len(manual) == 0 {
			manual = pre.ManualEntries
		}
		if len(byProvider) == 0 {
			byProvider = pre.ProviderRecords
		}
		if len(goals) == 0 {
			goals = pre.Goals
		}
	}

	return manual, byProvider, goals
}

// persistVisualization appends real datasets to the store. Failures are
// logged and swallowed: the advisory response is already computed.
func (s *Service) persistVisualization(ctx context.Context, log zerolog.Logger, userID string, v *domain.Visualization) {
	if v == nil || v.DataSource != domain.ChartProvenanceReal || s.store == nil {
		return
	}
	id, err := s.store.SaveVisualization(ctx, userID, v)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to persist visualization")
		return
	}
	log.Info().Str("visualization_id", id).Msg("Visualization saved")
}
