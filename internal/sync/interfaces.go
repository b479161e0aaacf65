// Package sync implements the offline sync core: reconciliation of remote
// collections into the local cache and the reprice outbox queue.
package sync

import (
	"context"
	"strings"

	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/gateway"
	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/models"
)

// Session identifies one owner's authenticated sync context. A session with
// a zero owner id or blank token makes every sync operation a silent no-op:
// callers are expected to gate on auth/selection state, so a missing
// identifier means "nothing to do", not an error.
type Session struct {
	OwnerID int64
	Token   string
}

// Valid reports whether the session carries both required identifiers.
func (s Session) Valid() bool {
	return s.OwnerID != 0 && strings.TrimSpace(s.Token) != ""
}

// Gateway is the remote API surface the sync core consumes. Satisfied by
// *gateway.Client; tests substitute a stub.
type Gateway interface {
	ListCustomers(ctx context.Context, token string, offset, limit int) ([]gateway.Customer, error)
	CustomerInvoiceSummary(ctx context.Context, token, customerName string, offset, limit int) (*gateway.SummaryReport, error)
	CustomerLedger(ctx context.Context, token, customerName string, offset, limit int) (*gateway.LedgerReport, error)
	SubmitReprice(ctx context.Context, token string, oilID int64, payload []byte) error
}

// Store is the persistent store surface the sync core consumes. Satisfied by
// *db.Repository; tests substitute an in-memory fake or a throwaway SQLite
// database.
type Store interface {
	UpsertInvoice(ctx context.Context, inv *models.Invoice) error
	UpsertLedger(ctx context.Context, entry *models.Ledger) error
	CreateOutbox(ctx context.Context, entry *models.RepriceOutbox) error
	PendingOutbox(ctx context.Context, ownerID int64) ([]models.RepriceOutbox, error)
	MarkOutboxSynced(ctx context.Context, id int64) error
	MarkOutboxFailed(ctx context.Context, id int64, message string) error
	PruneSyncedOutbox(ctx context.Context, cutoff int64) (int64, error)
}
