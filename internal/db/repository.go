package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/models"
)

// Repository provides row operations for the cache tables. All writes commit
// independently; multi-row reconciliation is deliberately not atomic across
// rows so a partial pass leaves every already-written row durable.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new Repository instance.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db.DB}
}

// =====================================================
// Invoice cache operations
// =====================================================

const invoiceUpsertQuery = `
INSERT OR REPLACE INTO oil_sales_cache (
	id, owner_id, customer_name, customer_contact, oil_id, oil_type,
	unit_type, unit_qty, unit_capacity_l, liters_sold,
	subtotal, discount, tax, total,
	subtotal_usd, discount_usd, tax_usd, total_usd, fx_rate,
	payment_status, payment_method, amount_paid, note,
	created_at, updated_at, dirty, deleted
) VALUES (
	:id, :owner_id, :customer_name, :customer_contact, :oil_id, :oil_type,
	:unit_type, :unit_qty, :unit_capacity_l, :liters_sold,
	:subtotal, :discount, :tax, :total,
	:subtotal_usd, :discount_usd, :tax_usd, :total_usd, :fx_rate,
	:payment_status, :payment_method, :amount_paid, :note,
	:created_at, :updated_at, :dirty, :deleted
)`

// UpsertInvoice inserts or replaces an invoice cache row keyed by the
// server-assigned id.
func (r *Repository) UpsertInvoice(ctx context.Context, inv *models.Invoice) error {
	_, err := r.db.NamedExecContext(ctx, invoiceUpsertQuery, inv)
	return err
}

// GetInvoice retrieves an invoice cache row by id.
func (r *Repository) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.GetContext(ctx, &inv,
		`SELECT * FROM oil_sales_cache WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// ListInvoices returns the non-deleted invoice cache rows for an owner,
// newest first. This is the read path the UI screens consume.
func (r *Repository) ListInvoices(ctx context.Context, ownerID int64) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT * FROM oil_sales_cache
		 WHERE owner_id = ? AND deleted = 0
		 ORDER BY created_at DESC, id DESC`, ownerID)
	return invoices, err
}

// =====================================================
// Ledger cache operations
// =====================================================

const ledgerUpsertQuery = `
INSERT OR REPLACE INTO ledger_cache (
	id, owner_id, customer_name, customer_contact, transaction_type,
	amount, note, payment_method, invoice_id, payment_date,
	created_at, dirty, deleted
) VALUES (
	:id, :owner_id, :customer_name, :customer_contact, :transaction_type,
	:amount, :note, :payment_method, :invoice_id, :payment_date,
	:created_at, :dirty, :deleted
)`

// UpsertLedger inserts or replaces a ledger cache row keyed by the
// server-assigned id.
func (r *Repository) UpsertLedger(ctx context.Context, entry *models.Ledger) error {
	_, err := r.db.NamedExecContext(ctx, ledgerUpsertQuery, entry)
	return err
}

// ListLedger returns the non-deleted ledger cache rows for an owner,
// newest first.
func (r *Repository) ListLedger(ctx context.Context, ownerID int64) ([]models.Ledger, error) {
	var entries []models.Ledger
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM ledger_cache
		 WHERE owner_id = ? AND deleted = 0
		 ORDER BY created_at DESC, id DESC`, ownerID)
	return entries, err
}

// =====================================================
// Reprice outbox operations
// =====================================================

// CreateOutbox inserts a new pending outbox row and fills in the assigned
// local id and creation time.
func (r *Repository) CreateOutbox(ctx context.Context, entry *models.RepriceOutbox) error {
	entry.SyncStatus = models.OutboxStatusPending
	entry.CreatedAt = time.Now().Unix()

	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO reprice_outbox (owner_id, oil_id, payload, sync_status, last_error, created_at)
		 VALUES (:owner_id, :oil_id, :payload, :sync_status, :last_error, :created_at)`,
		entry)
	if err != nil {
		return err
	}
	entry.ID, err = res.LastInsertId()
	return err
}

// PendingOutbox returns the pending outbox rows for an owner in ascending
// insertion order. FIFO ordering preserves user intent for repeated reprices
// of the same product.
func (r *Repository) PendingOutbox(ctx context.Context, ownerID int64) ([]models.RepriceOutbox, error) {
	var rows []models.RepriceOutbox
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM reprice_outbox
		 WHERE owner_id = ? AND sync_status = ?
		 ORDER BY id ASC`, ownerID, models.OutboxStatusPending)
	return rows, err
}

// ListOutbox returns all outbox rows for an owner in insertion order.
func (r *Repository) ListOutbox(ctx context.Context, ownerID int64) ([]models.RepriceOutbox, error) {
	var rows []models.RepriceOutbox
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM reprice_outbox WHERE owner_id = ? ORDER BY id ASC`, ownerID)
	return rows, err
}

// MarkOutboxSynced moves a pending row to synced and clears its error.
// The WHERE clause keeps the state machine forward-only: a row already
// synced or failed is never rewritten.
func (r *Repository) MarkOutboxSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reprice_outbox SET sync_status = ?, last_error = ''
		 WHERE id = ? AND sync_status = ?`,
		models.OutboxStatusSynced, id, models.OutboxStatusPending)
	return err
}

// MarkOutboxFailed moves a pending row to failed and records the error
// message for later inspection.
func (r *Repository) MarkOutboxFailed(ctx context.Context, id int64, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reprice_outbox SET sync_status = ?, last_error = ?
		 WHERE id = ? AND sync_status = ?`,
		models.OutboxStatusFailed, message, id, models.OutboxStatusPending)
	return err
}

// PruneSyncedOutbox deletes synced rows created before the cutoff (unix
// seconds) and reports how many were removed.
func (r *Repository) PruneSyncedOutbox(ctx context.Context, cutoff int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reprice_outbox WHERE sync_status = ? AND created_at < ?`,
		models.OutboxStatusSynced, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
