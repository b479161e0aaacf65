package models

import "github.com/shopspring/decimal"

// Transaction types for a ledger entry.
const (
	TransactionDebit  = "debit"
	TransactionCredit = "credit"
)

// Ledger is a cached payment/ledger entry for a customer. Same lifecycle as
// Invoice: server-owned identity, upsert-only refresh, soft delete.
type Ledger struct {
	ID              int64           `db:"id" json:"id"`
	OwnerID         int64           `db:"owner_id" json:"owner_id"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerContact string          `db:"customer_contact" json:"customer_contact"`
	TransactionType string          `db:"transaction_type" json:"transaction_type"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Note            string          `db:"note" json:"note"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	InvoiceID       *int64          `db:"invoice_id" json:"invoice_id"` // non-owning back-reference
	PaymentDate     string          `db:"payment_date" json:"payment_date"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	Dirty           bool            `db:"dirty" json:"dirty"`
	Deleted         bool            `db:"deleted" json:"deleted"`
}

// TableName returns the table name for Ledger.
func (Ledger) TableName() string {
	return "ledger_cache"
}
