package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/gateway"
	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/models"
)

// stubGateway is an in-memory Gateway with scriptable failures.
type stubGateway struct {
	customers []gateway.Customer
	listErr   error

	summaries  map[string][]models.Invoice
	summaryErr map[string]error
	ledgers    map[string][]models.Ledger
	ledgerErr  map[string]error

	// submitErrAt fails the nth SubmitReprice call (0-based).
	submitErrAt map[int]error

	listCalls    []int // offsets, in call order
	summaryCalls []string
	ledgerCalls  []string
	submitted    []submission
}

type submission struct {
	oilID   int64
	payload string
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		summaries:   map[string][]models.Invoice{},
		summaryErr:  map[string]error{},
		ledgers:     map[string][]models.Ledger{},
		ledgerErr:   map[string]error{},
		submitErrAt: map[int]error{},
	}
}

func (g *stubGateway) ListCustomers(_ context.Context, _ string, offset, limit int) ([]gateway.Customer, error) {
	g.listCalls = append(g.listCalls, offset)
	if g.listErr != nil {
		return nil, g.listErr
	}
	if offset >= len(g.customers) {
		return nil, nil
	}
	end := offset + limit
	if end > len(g.customers) {
		end = len(g.customers)
	}
	return g.customers[offset:end], nil
}

func (g *stubGateway) CustomerInvoiceSummary(_ context.Context, _ string, name string, _, _ int) (*gateway.SummaryReport, error) {
	g.summaryCalls = append(g.summaryCalls, name)
	if err := g.summaryErr[name]; err != nil {
		return nil, err
	}
	return &gateway.SummaryReport{Items: g.summaries[name]}, nil
}

func (g *stubGateway) CustomerLedger(_ context.Context, _ string, name string, _, _ int) (*gateway.LedgerReport, error) {
	g.ledgerCalls = append(g.ledgerCalls, name)
	if err := g.ledgerErr[name]; err != nil {
		return nil, err
	}
	return &gateway.LedgerReport{Items: g.ledgers[name]}, nil
}

func (g *stubGateway) SubmitReprice(_ context.Context, _ string, oilID int64, payload []byte) error {
	call := len(g.submitted)
	g.submitted = append(g.submitted, submission{oilID: oilID, payload: string(payload)})
	return g.submitErrAt[call]
}

// memStore is an in-memory Store.
type memStore struct {
	mu       stdsync.Mutex
	invoices map[int64]models.Invoice
	ledgers  map[int64]models.Ledger
	outbox   []*models.RepriceOutbox
	nextID   int64

	upsertInvoiceErr error
}

func newMemStore() *memStore {
	return &memStore{
		invoices: map[int64]models.Invoice{},
		ledgers:  map[int64]models.Ledger{},
	}
}

func (s *memStore) UpsertInvoice(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertInvoiceErr != nil {
		return s.upsertInvoiceErr
	}
	s.invoices[inv.ID] = *inv
	return nil
}

func (s *memStore) UpsertLedger(_ context.Context, entry *models.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[entry.ID] = *entry
	return nil
}

func (s *memStore) CreateOutbox(_ context.Context, entry *models.RepriceOutbox) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	entry.ID = s.nextID
	entry.SyncStatus = models.OutboxStatusPending
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
	row := *entry
	s.outbox = append(s.outbox, &row)
	return nil
}

func (s *memStore) PendingOutbox(_ context.Context, ownerID int64) ([]models.RepriceOutbox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.RepriceOutbox
	for _, row := range s.outbox {
		if row.OwnerID == ownerID && row.SyncStatus == models.OutboxStatusPending {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (s *memStore) MarkOutboxSynced(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.outbox {
		if row.ID == id && row.SyncStatus == models.OutboxStatusPending {
			row.SyncStatus = models.OutboxStatusSynced
			row.LastError = ""
		}
	}
	return nil
}

func (s *memStore) MarkOutboxFailed(_ context.Context, id int64, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.outbox {
		if row.ID == id && row.SyncStatus == models.OutboxStatusPending {
			row.SyncStatus = models.OutboxStatusFailed
			row.LastError = message
		}
	}
	return nil
}

func (s *memStore) PruneSyncedOutbox(_ context.Context, cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*models.RepriceOutbox
	var pruned int64
	for _, row := range s.outbox {
		if row.SyncStatus == models.OutboxStatusSynced && row.CreatedAt < cutoff {
			pruned++
			continue
		}
		kept = append(kept, row)
	}
	s.outbox = kept
	return pruned, nil
}

// outboxRow returns a copy of the row with the given id.
func (s *memStore) outboxRow(id int64) (models.RepriceOutbox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.outbox {
		if row.ID == id {
			return *row, nil
		}
	}
	return models.RepriceOutbox{}, fmt.Errorf("outbox row %d not found", id)
}
