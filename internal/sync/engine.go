package sync

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/config"
	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/logging"
)

// Engine is the sync entry point UI event handlers invoke: one pass runs
// reconciliation, then drains the reprice outbox, then prunes aged synced
// rows. Operations inside a pass are strictly sequential; the store and the
// remote service see one in-flight call at a time. Overlapping passes for
// the same owner are the caller's responsibility to avoid.
type Engine struct {
	reconciler *Reconciler
	outbox     *Outbox
	pruneDays  int
	log        zerolog.Logger
}

// Result summarizes one full sync pass.
type Result struct {
	PassID    string
	Reconcile *ReconcileResult
	Drain     *DrainResult
	Pruned    int64
}

// NewEngine creates an Engine over the given store and gateway. A nil cfg
// uses the built-in defaults.
func NewEngine(store Store, gw Gateway, cfg *config.SyncConfig) *Engine {
	pageSize, summaryLimit, pruneDays := 0, 0, DefaultPruneMaxAgeDays
	if cfg != nil {
		pageSize = cfg.CustomerPageSize
		summaryLimit = cfg.SummaryLimit
		pruneDays = cfg.PruneMaxAgeDays
	}
	return &Engine{
		reconciler: NewReconciler(store, gw, pageSize, summaryLimit),
		outbox:     NewOutbox(store, gw),
		pruneDays:  pruneDays,
		log:        logging.WithComponent("sync-engine"),
	}
}

// Reconciler returns the engine's reconciler for direct invocation.
func (e *Engine) Reconciler() *Reconciler { return e.reconciler }

// Outbox returns the engine's outbox for direct invocation.
func (e *Engine) Outbox() *Outbox { return e.outbox }

// Sync runs one best-effort pass. Remote failures are recorded in the result
// and in row state; the returned error is non-nil only for local store
// faults.
func (e *Engine) Sync(ctx context.Context, sess Session) (*Result, error) {
	result := &Result{PassID: uuid.NewString()}
	if !sess.Valid() {
		return result, nil
	}

	log := logging.WithSyncPass(result.PassID)
	log.Info().Int64("owner_id", sess.OwnerID).Msg("sync pass started")

	reconcile, err := e.reconciler.Reconcile(ctx, sess)
	result.Reconcile = reconcile
	if err != nil {
		// Roster paging failed; the cache keeps whatever was refreshed so
		// far. Still attempt the outbox so queued reprices are not starved.
		log.Warn().Err(err).Msg("reconciliation incomplete")
	}

	drain, err := e.outbox.Drain(ctx, sess)
	result.Drain = drain
	if err != nil {
		return result, err
	}

	pruned, err := e.outbox.Prune(ctx, e.pruneDays)
	result.Pruned = pruned
	if err != nil {
		return result, err
	}

	log.Info().
		Int("invoices", reconcile.InvoiceUpserts).
		Int("synced", drain.Synced).
		Int64("pruned", pruned).
		Msg("sync pass finished")
	return result, nil
}
