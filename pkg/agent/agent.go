package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coraldb/maintd/pkg/log"
	"github.com/coraldb/maintd/pkg/maintenance"
	"github.com/coraldb/maintd/pkg/metrics"
	"github.com/coraldb/maintd/pkg/storage"
	"github.com/coraldb/maintd/pkg/types"
)

// CoordinationStore is the slice of the coordination store the agent needs.
type CoordinationStore interface {
	Plan(ctx context.Context) (*types.Plan, error)
	Current(ctx context.Context) (*types.Current, error)
	Write(ctx context.Context, ops types.ReportOps) error
	Transact(ctx context.Context, txns []types.Transaction) error
}

// Engine is the node-local storage engine as the agent sees it: the lookup
// interface the reporter needs plus the full local snapshot.
type Engine interface {
	maintenance.StorageEngine
	Snapshot(ctx context.Context) (types.Local, error)
}

// Config holds the agent's identity and pacing.
type Config struct {
	// ServerID is this node's cluster identity.
	ServerID string

	// Interval between reconciliation passes.
	Interval time.Duration
}

// Agent drives periodic reconciliation passes: snapshot Plan/Current/Local,
// run the maintenance core, hand actions to the queue and push report writes
// back to the coordination store.
type Agent struct {
	cfg     Config
	store   CoordinationStore
	engine  Engine
	queue   *Queue
	journal storage.Journal

	// mu serializes passes; overlapping passes on one node could emit
	// conflicting actions from inconsistent intermediate state.
	mu     sync.Mutex
	stopCh chan struct{}
}

// New creates an agent. journal may be nil when pass journaling is disabled.
func New(cfg Config, store CoordinationStore, engine Engine, queue *Queue, journal storage.Journal) *Agent {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	return &Agent{
		cfg:     cfg,
		store:   store,
		engine:  engine,
		queue:   queue,
		journal: journal,
		stopCh:  make(chan struct{}),
	}
}

// Start begins the reconciliation loop
func (a *Agent) Start() {
	go a.run()
}

// Stop stops the agent
func (a *Agent) Stop() {
	close(a.stopCh)
}

// run is the main reconciliation loop
func (a *Agent) run() {
	logger := log.WithComponent("agent")
	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.RunOnce(context.Background()); err != nil {
				// Log error but continue; the next tick retries.
				logger.Error().Err(err).Msg("reconciliation pass failed")
			}
		case <-a.stopCh:
			return
		}
	}
}

// RunOnce performs one reconciliation pass. Failures of the core or of the
// write path are non-fatal: they are logged, counted, and naturally retried
// when the next pass re-snapshots.
func (a *Agent) RunOnce(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.PassDuration)
		metrics.PassesTotal.Inc()
	}()

	logger := log.WithComponent("agent")

	plan, err := a.store.Plan(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot plan: %w", err)
	}
	current, err := a.store.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot current: %w", err)
	}
	local, err := a.engine.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot local state: %w", err)
	}

	result, err := maintenance.HandleChange(plan, current, local, a.cfg.ServerID, a.engine, a.queue)
	if err != nil {
		// A failed phase contributed nothing this pass but the rest of
		// the result is still valid.
		metrics.PhaseFailuresTotal.WithLabelValues("core").Inc()
		logger.Error().Err(err).Msg("reconciliation core reported failures")
	}

	for _, op := range result.Operations {
		metrics.ReportOpsTotal.WithLabelValues(op.Op).Inc()
	}
	if err := a.store.Write(ctx, result.Operations); err != nil {
		metrics.AgencyWriteFailuresTotal.Inc()
		logger.Error().Err(err).Int("ops", len(result.Operations)).Msg("failed to write state report")
	}
	if err := a.store.Transact(ctx, result.Transactions); err != nil {
		metrics.AgencyWriteFailuresTotal.Inc()
		logger.Error().Err(err).Int("txns", len(result.Transactions)).Msg("failed to apply bookkeeping transactions")
	}

	if a.journal != nil {
		rec := &storage.PassRecord{
			Time:           time.Now(),
			PlanVersion:    plan.Version,
			CurrentVersion: current.Version,
			Actions:        result.Actions,
			ReportOps:      len(result.Operations),
			Report:         result.Report,
		}
		if err := a.journal.RecordPass(rec); err != nil {
			logger.Error().Err(err).Msg("failed to journal pass")
		}
	}

	logger.Debug().
		Int64("plan_version", plan.Version).
		Int64("current_version", current.Version).
		Int("report_ops", len(result.Operations)).
		Msg("reconciliation pass complete")
	return nil
}
