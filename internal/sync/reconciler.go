package sync

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/logging"
)

// Reconciliation page sizes. Customers are pulled a page at a time; each
// customer's summary is capped at the newest summaryLimit items.
const (
	defaultCustomerPageSize = 100
	defaultSummaryLimit     = 200
)

// Reconciler pulls the full remote customer roster and refreshes the local
// invoice and ledger caches, one customer at a time. Per-customer failures
// are recorded and skipped; a single customer must never abort the pass.
type Reconciler struct {
	store        Store
	gw           Gateway
	pageSize     int
	summaryLimit int
	log          zerolog.Logger
}

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	Pages          int // roster pages fetched
	Customers      int // customers seen
	Skipped        int // blank-name customers skipped
	Failed         int // customers whose refresh failed
	InvoiceUpserts int
	LedgerUpserts  int
}

// NewReconciler creates a Reconciler. Non-positive page sizes fall back to
// the defaults (100 customers per page, 200 summary items).
func NewReconciler(store Store, gw Gateway, pageSize, summaryLimit int) *Reconciler {
	if pageSize <= 0 {
		pageSize = defaultCustomerPageSize
	}
	if summaryLimit <= 0 {
		summaryLimit = defaultSummaryLimit
	}
	return &Reconciler{
		store:        store,
		gw:           gw,
		pageSize:     pageSize,
		summaryLimit: summaryLimit,
		log:          logging.WithComponent("reconciler"),
	}
}

// Reconcile pages through the remote customer roster and upserts each
// customer's invoice summary and ledger into the cache. It is a no-op for an
// invalid session. The returned error is non-nil only when the roster itself
// cannot be paged; everything per-customer is best-effort and reported in
// the result.
func (r *Reconciler) Reconcile(ctx context.Context, sess Session) (*ReconcileResult, error) {
	result := &ReconcileResult{}
	if !sess.Valid() {
		r.log.Debug().Msg("missing owner or token, skipping reconciliation")
		return result, nil
	}

	offset := 0
	for {
		page, err := r.gw.ListCustomers(ctx, sess.Token, offset, r.pageSize)
		if err != nil {
			r.log.Error().Err(err).Int("offset", offset).Msg("customer roster page failed")
			return result, err
		}
		result.Pages++

		for _, customer := range page {
			if strings.TrimSpace(customer.Name) == "" {
				// No stable lookup key, nothing to reconcile against.
				result.Skipped++
				continue
			}
			result.Customers++
			r.refreshCustomer(ctx, sess, customer.Name, result)
		}

		if len(page) < r.pageSize {
			break
		}
		offset += r.pageSize
	}

	r.log.Info().
		Int("customers", result.Customers).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("invoices", result.InvoiceUpserts).
		Int("ledger", result.LedgerUpserts).
		Msg("reconciliation pass finished")
	return result, nil
}

// refreshCustomer pulls one customer's invoice summary and ledger and
// upserts the rows. Failures are logged and counted, never propagated.
// Rows absent from a fresh report are left untouched.
func (r *Reconciler) refreshCustomer(ctx context.Context, sess Session, name string, result *ReconcileResult) {
	report, err := r.gw.CustomerInvoiceSummary(ctx, sess.Token, name, 0, r.summaryLimit)
	if err != nil {
		r.log.Warn().Err(err).Str("customer", name).Msg("invoice summary failed, skipping customer")
		result.Failed++
		return
	}

	for i := range report.Items {
		inv := report.Items[i]
		inv.OwnerID = sess.OwnerID
		if err := r.store.UpsertInvoice(ctx, &inv); err != nil {
			r.log.Warn().Err(err).Int64("invoice_id", inv.ID).Msg("invoice upsert failed")
			continue
		}
		result.InvoiceUpserts++
	}

	ledger, err := r.gw.CustomerLedger(ctx, sess.Token, name, 0, r.summaryLimit)
	if err != nil {
		r.log.Warn().Err(err).Str("customer", name).Msg("ledger fetch failed, keeping cached entries")
		return
	}

	for i := range ledger.Items {
		entry := ledger.Items[i]
		entry.OwnerID = sess.OwnerID
		if err := r.store.UpsertLedger(ctx, &entry); err != nil {
			r.log.Warn().Err(err).Int64("ledger_id", entry.ID).Msg("ledger upsert failed")
			continue
		}
		result.LedgerUpserts++
	}
}
