package db

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/models"
)

func testInvoice(id, ownerID int64, customer string) *models.Invoice {
	return &models.Invoice{
		ID:            id,
		OwnerID:       ownerID,
		CustomerName:  customer,
		OilID:         7,
		OilType:       "diesel",
		UnitType:      models.UnitLiters,
		UnitQty:       decimal.NewFromInt(40),
		LitersSold:    decimal.NewFromInt(40),
		Subtotal:      decimal.RequireFromString("52.00"),
		Discount:      decimal.RequireFromString("2.00"),
		Tax:           decimal.Zero,
		Total:         decimal.RequireFromString("50.00"),
		FxRate:        decimal.NewFromInt(1),
		PaymentStatus: models.PaymentUnpaid,
		AmountPaid:    decimal.Zero,
		CreatedAt:     "2026-08-20T10:00:00Z",
		UpdatedAt:     "2026-08-20T10:00:00Z",
	}
}

// TestUpsertInvoice verifies insert-then-replace keyed by the server id.
func TestUpsertInvoice(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	inv := testInvoice(1, 9, "Cali Xasan")
	if err := repo.UpsertInvoice(ctx, inv); err != nil {
		t.Fatalf("UpsertInvoice failed: %v", err)
	}

	// Replace the same identity with new payment state.
	inv.PaymentStatus = models.PaymentPaid
	inv.AmountPaid = decimal.RequireFromString("50.00")
	if err := repo.UpsertInvoice(ctx, inv); err != nil {
		t.Fatalf("UpsertInvoice (replace) failed: %v", err)
	}

	got, err := repo.GetInvoice(ctx, 1)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected invoice row")
	}
	if got.PaymentStatus != models.PaymentPaid {
		t.Errorf("expected payment_status paid, got %s", got.PaymentStatus)
	}
	if !got.AmountPaid.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected amount_paid 50.00, got %s", got.AmountPaid)
	}
	if !got.Total.Equal(inv.Total) {
		t.Errorf("expected total %s, got %s", inv.Total, got.Total)
	}

	rows, err := repo.ListInvoices(ctx, 9)
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected a single row after replace, got %d", len(rows))
	}
}

// TestGetInvoiceMissing verifies a missing row returns nil, not an error.
func TestGetInvoiceMissing(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	got, err := repo.GetInvoice(context.Background(), 404)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing row, got %+v", got)
	}
}

// TestListInvoicesExcludesDeleted verifies soft-deleted rows stay hidden
// from the UI read path.
func TestListInvoicesExcludesDeleted(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	live := testInvoice(1, 9, "Cali Xasan")
	gone := testInvoice(2, 9, "Cali Xasan")
	gone.Deleted = true

	for _, inv := range []*models.Invoice{live, gone} {
		if err := repo.UpsertInvoice(ctx, inv); err != nil {
			t.Fatalf("UpsertInvoice failed: %v", err)
		}
	}

	rows, err := repo.ListInvoices(ctx, 9)
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Errorf("expected only the live row, got %+v", rows)
	}
}

// TestUpsertLedger verifies ledger rows round-trip including the optional
// invoice back-reference.
func TestUpsertLedger(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	invoiceID := int64(1)
	entry := &models.Ledger{
		ID:              11,
		OwnerID:         9,
		CustomerName:    "Faadumo Axmed",
		TransactionType: models.TransactionCredit,
		Amount:          decimal.RequireFromString("25.50"),
		PaymentMethod:   "cash",
		InvoiceID:       &invoiceID,
		PaymentDate:     "2026-08-21",
		CreatedAt:       "2026-08-21T08:00:00Z",
	}
	if err := repo.UpsertLedger(ctx, entry); err != nil {
		t.Fatalf("UpsertLedger failed: %v", err)
	}

	noRef := &models.Ledger{
		ID:              12,
		OwnerID:         9,
		CustomerName:    "Faadumo Axmed",
		TransactionType: models.TransactionDebit,
		Amount:          decimal.RequireFromString("10.00"),
		PaymentDate:     "2026-08-22",
		CreatedAt:       "2026-08-22T08:00:00Z",
	}
	if err := repo.UpsertLedger(ctx, noRef); err != nil {
		t.Fatalf("UpsertLedger (nil invoice_id) failed: %v", err)
	}

	rows, err := repo.ListLedger(ctx, 9)
	if err != nil {
		t.Fatalf("ListLedger failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Newest first.
	if rows[0].ID != 12 || rows[1].ID != 11 {
		t.Errorf("unexpected order: %d, %d", rows[0].ID, rows[1].ID)
	}
	if rows[1].InvoiceID == nil || *rows[1].InvoiceID != 1 {
		t.Errorf("expected invoice_id 1, got %v", rows[1].InvoiceID)
	}
	if rows[0].InvoiceID != nil {
		t.Errorf("expected nil invoice_id, got %v", rows[0].InvoiceID)
	}
}

// TestOutboxLifecycle verifies FIFO ordering and the forward-only status
// machine.
func TestOutboxLifecycle(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	var ids []int64
	for _, payload := range []string{
		`{"price_per_liter":1.10}`,
		`{"price_per_liter":1.15}`,
		`{"price_per_liter":1.20}`,
	} {
		entry := &models.RepriceOutbox{OwnerID: 9, OilID: 7, Payload: payload}
		if err := repo.CreateOutbox(ctx, entry); err != nil {
			t.Fatalf("CreateOutbox failed: %v", err)
		}
		if entry.ID == 0 {
			t.Fatal("expected assigned local id")
		}
		if entry.SyncStatus != models.OutboxStatusPending {
			t.Fatalf("expected pending, got %s", entry.SyncStatus)
		}
		ids = append(ids, entry.ID)
	}

	pending, err := repo.PendingOutbox(ctx, 9)
	if err != nil {
		t.Fatalf("PendingOutbox failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending rows, got %d", len(pending))
	}
	for i, row := range pending {
		if row.ID != ids[i] {
			t.Errorf("row %d out of insertion order: got id %d, want %d", i, row.ID, ids[i])
		}
	}

	if err := repo.MarkOutboxSynced(ctx, ids[0]); err != nil {
		t.Fatalf("MarkOutboxSynced failed: %v", err)
	}
	if err := repo.MarkOutboxFailed(ctx, ids[1], "remote says no"); err != nil {
		t.Fatalf("MarkOutboxFailed failed: %v", err)
	}

	// Terminal states are never rewritten.
	if err := repo.MarkOutboxFailed(ctx, ids[0], "late failure"); err != nil {
		t.Fatalf("MarkOutboxFailed on synced row errored: %v", err)
	}
	if err := repo.MarkOutboxSynced(ctx, ids[1]); err != nil {
		t.Fatalf("MarkOutboxSynced on failed row errored: %v", err)
	}

	all, err := repo.ListOutbox(ctx, 9)
	if err != nil {
		t.Fatalf("ListOutbox failed: %v", err)
	}
	if all[0].SyncStatus != models.OutboxStatusSynced || all[0].LastError != "" {
		t.Errorf("row 1: got %s %q, want synced with no error", all[0].SyncStatus, all[0].LastError)
	}
	if all[1].SyncStatus != models.OutboxStatusFailed || all[1].LastError != "remote says no" {
		t.Errorf("row 2: got %s %q, want failed with message", all[1].SyncStatus, all[1].LastError)
	}
	if all[2].SyncStatus != models.OutboxStatusPending {
		t.Errorf("row 3: got %s, want pending", all[2].SyncStatus)
	}

	pending, err = repo.PendingOutbox(ctx, 9)
	if err != nil {
		t.Fatalf("PendingOutbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != ids[2] {
		t.Errorf("expected only row 3 pending, got %+v", pending)
	}
}

// TestPruneSyncedOutbox verifies only aged synced rows are removed.
func TestPruneSyncedOutbox(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	now := time.Now().Unix()
	day := int64(24 * 60 * 60)
	rows := []struct {
		status string
		age    int64
	}{
		{models.OutboxStatusSynced, 8 * day},  // pruned
		{models.OutboxStatusSynced, 6 * day},  // kept: too young
		{models.OutboxStatusFailed, 30 * day}, // kept: not synced
		{models.OutboxStatusPending, 9 * day}, // kept: not synced
	}
	for _, r := range rows {
		_, err := repo.db.Exec(
			`INSERT INTO reprice_outbox (owner_id, oil_id, payload, sync_status, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			9, 7, `{"price_per_liter":1}`, r.status, now-r.age)
		if err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	cutoff := now - 7*day
	pruned, err := repo.PruneSyncedOutbox(ctx, cutoff)
	if err != nil {
		t.Fatalf("PruneSyncedOutbox failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned row, got %d", pruned)
	}

	remaining, err := repo.ListOutbox(ctx, 9)
	if err != nil {
		t.Fatalf("ListOutbox failed: %v", err)
	}
	if len(remaining) != 3 {
		t.Errorf("expected 3 remaining rows, got %d", len(remaining))
	}

	// Nothing else qualifies; prune again is a no-op.
	pruned, err = repo.PruneSyncedOutbox(ctx, cutoff)
	if err != nil {
		t.Fatalf("second PruneSyncedOutbox failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("expected no-op prune, got %d", pruned)
	}
}
