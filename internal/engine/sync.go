package engine

import (
	"context"

	"gabinete/internal/domain"
	"gabinete/internal/events"
)

// remoteEnabled reports whether the engine should attempt remote calls.
func (e Engine) remoteEnabled() bool {
	return e.Remote != nil && e.Remote.Enabled()
}

// pushActivity sends one record to the shared table and flips its synced
// flag on success. A push failure leaves the record local and unsynced; it
// is retried by the next SyncPending run.
func (e Engine) pushActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	if !e.remoteEnabled() {
		return a, nil
	}
	if err := e.Remote.PushActivity(ctx, a); err != nil {
		return a, err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return a, err
	}
	defer tx.Rollback()
	if err := e.Repo.MarkSyncedTx(ctx, tx, a.ID, true); err != nil {
		return a, err
	}
	if err := tx.Commit(); err != nil {
		return a, err
	}
	a.Synced = true
	return a, nil
}

// SyncPending pushes every unsynced activity and returns how many made it.
// It stops at the first failure so the remaining queue keeps its order.
func (e Engine) SyncPending(ctx context.Context) (int, error) {
	if !e.remoteEnabled() {
		return 0, nil
	}
	pending, err := e.Repo.ListUnsyncedActivities(ctx)
	if err != nil {
		return 0, err
	}
	pushed := 0
	for _, a := range pending {
		if _, err := e.pushActivity(ctx, a); err != nil {
			return pushed, err
		}
		pushed++
	}
	return pushed, nil
}

// restoreActivity puts a deleted record back after a failed remote delete.
func (e Engine) restoreActivity(ctx context.Context, a domain.Activity, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertActivityTx(ctx, tx, a); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "activity.restored", "activity", a.ID, actorID, events.EventPayload{
		"reason": "remote delete failed",
	}); err != nil {
		return err
	}
	return tx.Commit()
}
