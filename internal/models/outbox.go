package models

// Outbox row statuses. The machine moves strictly forward:
// pending -> synced | failed. There is no transition out of synced or failed.
const (
	OutboxStatusPending = "pending"
	OutboxStatusSynced  = "synced"
	OutboxStatusFailed  = "failed"
)

// RepriceOutbox is a queued price-update intent awaiting remote
// acknowledgment. Payload holds the exact JSON body to forward to the
// reprice endpoint. Rows are created by UI actions, mutated only by the
// drain routine, and physically removed only by prune after reaching
// synced and exceeding the age threshold.
type RepriceOutbox struct {
	ID         int64  `db:"id" json:"id"`
	OwnerID    int64  `db:"owner_id" json:"owner_id"`
	OilID      int64  `db:"oil_id" json:"oil_id"`
	Payload    string `db:"payload" json:"payload"`
	SyncStatus string `db:"sync_status" json:"sync_status"`
	LastError  string `db:"last_error" json:"last_error"`
	CreatedAt  int64  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for RepriceOutbox.
func (RepriceOutbox) TableName() string {
	return "reprice_outbox"
}
