// Package models provides data model definitions for the Diiwaan sync core.
package models

import "github.com/shopspring/decimal"

// Unit types for an oil sale.
const (
	UnitLiters = "liters"
	UnitFuusto = "fuusto"
	UnitCaag   = "caag"
	UnitLot    = "lot"
)

// Payment states for an invoice.
const (
	PaymentUnpaid  = "unpaid"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Invoice is a cached oil-sale invoice row pulled from the remote API.
//
// The server owns the row identity; the reconciler upserts by id and never
// deletes rows that dropped out of a fresh report. The dirty flag marks
// unsynced local edits, deleted is a soft-delete marker.
type Invoice struct {
	ID              int64               `db:"id" json:"id"`
	OwnerID         int64               `db:"owner_id" json:"owner_id"`
	CustomerName    string              `db:"customer_name" json:"customer_name"`
	CustomerContact string              `db:"customer_contact" json:"customer_contact"`
	OilID           int64               `db:"oil_id" json:"oil_id"`
	OilType         string              `db:"oil_type" json:"oil_type"`
	UnitType        string              `db:"unit_type" json:"unit_type"`
	UnitQty         decimal.Decimal     `db:"unit_qty" json:"unit_qty"`
	UnitCapacityL   decimal.NullDecimal `db:"unit_capacity_l" json:"unit_capacity_l"`
	LitersSold      decimal.Decimal     `db:"liters_sold" json:"liters_sold"`
	Subtotal        decimal.Decimal     `db:"subtotal" json:"subtotal"`
	Discount        decimal.Decimal     `db:"discount" json:"discount"`
	Tax             decimal.Decimal     `db:"tax" json:"tax"`
	Total           decimal.Decimal     `db:"total" json:"total"`
	SubtotalUSD     decimal.Decimal     `db:"subtotal_usd" json:"subtotal_usd"`
	DiscountUSD     decimal.Decimal     `db:"discount_usd" json:"discount_usd"`
	TaxUSD          decimal.Decimal     `db:"tax_usd" json:"tax_usd"`
	TotalUSD        decimal.Decimal     `db:"total_usd" json:"total_usd"`
	FxRate          decimal.Decimal     `db:"fx_rate" json:"fx_rate"`
	PaymentStatus   string              `db:"payment_status" json:"payment_status"`
	PaymentMethod   string              `db:"payment_method" json:"payment_method"`
	AmountPaid      decimal.Decimal     `db:"amount_paid" json:"amount_paid"`
	Note            string              `db:"note" json:"note"`
	CreatedAt       string              `db:"created_at" json:"created_at"`
	UpdatedAt       string              `db:"updated_at" json:"updated_at"`
	Dirty           bool                `db:"dirty" json:"dirty"`
	Deleted         bool                `db:"deleted" json:"deleted"`
}

// TableName returns the table name for Invoice.
func (Invoice) TableName() string {
	return "oil_sales_cache"
}
