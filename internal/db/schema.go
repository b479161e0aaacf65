package db

// Schema DDL for the three cache tables. Every statement is IF NOT EXISTS,
// so EnsureSchema is idempotent and safe to call repeatedly before any
// read or write.

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS oil_sales_cache (
		id INTEGER PRIMARY KEY,
		owner_id INTEGER NOT NULL,
		customer_name TEXT NOT NULL,
		customer_contact TEXT NOT NULL DEFAULT '',
		oil_id INTEGER NOT NULL DEFAULT 0,
		oil_type TEXT NOT NULL DEFAULT '',
		unit_type TEXT NOT NULL DEFAULT 'liters',
		unit_qty TEXT NOT NULL DEFAULT '0',
		unit_capacity_l TEXT,
		liters_sold TEXT NOT NULL DEFAULT '0',
		subtotal TEXT NOT NULL DEFAULT '0',
		discount TEXT NOT NULL DEFAULT '0',
		tax TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL DEFAULT '0',
		subtotal_usd TEXT NOT NULL DEFAULT '0',
		discount_usd TEXT NOT NULL DEFAULT '0',
		tax_usd TEXT NOT NULL DEFAULT '0',
		total_usd TEXT NOT NULL DEFAULT '0',
		fx_rate TEXT NOT NULL DEFAULT '1',
		payment_status TEXT NOT NULL DEFAULT 'unpaid',
		payment_method TEXT NOT NULL DEFAULT '',
		amount_paid TEXT NOT NULL DEFAULT '0',
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT '',
		dirty INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_oil_sales_owner
		ON oil_sales_cache (owner_id, deleted)`,
	`CREATE INDEX IF NOT EXISTS idx_oil_sales_customer
		ON oil_sales_cache (owner_id, customer_name)`,

	`CREATE TABLE IF NOT EXISTS ledger_cache (
		id INTEGER PRIMARY KEY,
		owner_id INTEGER NOT NULL,
		customer_name TEXT NOT NULL,
		customer_contact TEXT NOT NULL DEFAULT '',
		transaction_type TEXT NOT NULL CHECK (transaction_type IN ('debit', 'credit')),
		amount TEXT NOT NULL DEFAULT '0',
		note TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT '',
		invoice_id INTEGER,
		payment_date TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT '',
		dirty INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_owner
		ON ledger_cache (owner_id, deleted)`,

	`CREATE TABLE IF NOT EXISTS reprice_outbox (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER NOT NULL,
		oil_id INTEGER NOT NULL,
		payload TEXT NOT NULL,
		sync_status TEXT NOT NULL DEFAULT 'pending'
			CHECK (sync_status IN ('pending', 'synced', 'failed')),
		last_error TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reprice_outbox_pending
		ON reprice_outbox (owner_id, sync_status, id)`,
}

// EnsureSchema creates the cache tables and indexes if absent. Safe to call
// repeatedly and concurrently; it has no side effect beyond schema presence.
func (db *DB) EnsureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
