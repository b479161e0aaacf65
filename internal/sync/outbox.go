package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/errors"
	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/logging"
	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/models"
)

// DefaultPruneMaxAgeDays is how long synced outbox rows are kept before
// housekeeping removes them.
const DefaultPruneMaxAgeDays = 7

// Message recorded on a row whose stored payload no longer parses.
const invalidPayloadMessage = "Invalid JSON payload"

// Outbox manages the reprice queue: local price-change intents recorded as
// pending rows, later drained to the remote gateway with per-row status
// tracking.
type Outbox struct {
	store Store
	gw    Gateway
	log   zerolog.Logger
}

// DrainResult summarizes one drain pass.
type DrainResult struct {
	Synced int
	Failed int
	// Halted is true when a remote failure stopped the pass; remaining rows
	// stay pending and retry on the next drain.
	Halted bool
}

// NewOutbox creates an Outbox over the given store and gateway.
func NewOutbox(store Store, gw Gateway) *Outbox {
	return &Outbox{
		store: store,
		gw:    gw,
		log:   logging.WithComponent("outbox"),
	}
}

// Enqueue records a price-change intent as a pending outbox row. It is a
// silent no-op when owner or product id is missing. The typed update is
// serialized to its canonical body here, so an ill-formed price update can
// never reach the queue.
func (o *Outbox) Enqueue(ctx context.Context, ownerID, oilID int64, update models.PriceUpdate) (*models.RepriceOutbox, error) {
	if ownerID == 0 || oilID == 0 {
		o.log.Debug().Msg("missing owner or product id, not enqueuing")
		return nil, nil
	}

	body, err := update.MarshalBody()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, err)
	}

	entry := &models.RepriceOutbox{
		OwnerID: ownerID,
		OilID:   oilID,
		Payload: string(body),
	}
	if err := o.store.CreateOutbox(ctx, entry); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	o.log.Info().
		Int64("outbox_id", entry.ID).
		Int64("oil_id", oilID).
		Str("kind", string(update.Kind)).
		Msg("reprice queued")
	return entry, nil
}

// Drain submits the owner's pending rows to the remote gateway in insertion
// order. A row with a corrupt payload is marked failed and the pass
// continues: bad local data must not block its neighbors. A row whose remote
// call fails is marked failed and the pass halts: a transport or server
// failure is assumed systemic, so the remaining rows stay pending and retry
// on the next drain instead of hammering the server.
//
// Remote failures are recorded as row state, not returned; the error is
// non-nil only when the local store itself fails.
func (o *Outbox) Drain(ctx context.Context, sess Session) (*DrainResult, error) {
	result := &DrainResult{}
	if !sess.Valid() {
		o.log.Debug().Msg("missing owner or token, skipping drain")
		return result, nil
	}

	rows, err := o.store.PendingOutbox(ctx, sess.OwnerID)
	if err != nil {
		return result, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	for _, row := range rows {
		if _, derr := models.DecodePriceBody(row.Payload); derr != nil {
			o.log.Warn().Int64("outbox_id", row.ID).Err(derr).Msg("corrupt payload, marking failed")
			if err := o.store.MarkOutboxFailed(ctx, row.ID, invalidPayloadMessage); err != nil {
				return result, apperrors.Wrap(apperrors.ErrDatabase, err)
			}
			result.Failed++
			continue
		}

		if serr := o.gw.SubmitReprice(ctx, sess.Token, row.OilID, []byte(row.Payload)); serr != nil {
			msg := apperrors.Message(serr)
			o.log.Warn().
				Int64("outbox_id", row.ID).
				Str("code", string(apperrors.CodeOf(serr))).
				Str("error", msg).
				Msg("reprice submit failed, halting drain")
			if err := o.store.MarkOutboxFailed(ctx, row.ID, msg); err != nil {
				return result, apperrors.Wrap(apperrors.ErrDatabase, err)
			}
			result.Failed++
			result.Halted = true
			break
		}

		if err := o.store.MarkOutboxSynced(ctx, row.ID); err != nil {
			return result, apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		result.Synced++
	}

	o.log.Info().
		Int("synced", result.Synced).
		Int("failed", result.Failed).
		Bool("halted", result.Halted).
		Msg("drain pass finished")
	return result, nil
}

// Prune deletes synced rows older than maxAgeDays. Non-positive maxAgeDays
// falls back to the 7-day default. Returns how many rows were removed.
func (o *Outbox) Prune(ctx context.Context, maxAgeDays int) (int64, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultPruneMaxAgeDays
	}
	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour).Unix()

	pruned, err := o.store.PruneSyncedOutbox(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if pruned > 0 {
		o.log.Info().Int64("pruned", pruned).Msg("removed aged synced outbox rows")
	}
	return pruned, nil
}
