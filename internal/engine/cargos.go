package engine

import (
	"context"
	"fmt"

	"gabinete/internal/domain"
	"gabinete/internal/events"
)

// RefreshCargos pulls the remote snapshot into the local mirror. A fetch
// failure is non-fatal: the caller gets the local rows unchanged.
func (e Engine) RefreshCargos(ctx context.Context) ([]domain.CargoAcumulacao, error) {
	if e.remoteEnabled() {
		snap, err := e.Remote.FetchSnapshot(ctx)
		if err == nil {
			tx, txErr := e.DB.BeginTx(ctx, nil)
			if txErr != nil {
				return nil, txErr
			}
			defer tx.Rollback()
			if err := e.Repo.ReplaceCargoSnapshot(ctx, tx, snap.Cargos, snap.Promotores); err != nil {
				return nil, err
			}
			if err := tx.Commit(); err != nil {
				return nil, err
			}
		}
	}
	return e.Repo.ListCargos(ctx)
}

// ListCargos reads the local mirror without touching the network.
func (e Engine) ListCargos(ctx context.Context) ([]domain.CargoAcumulacao, error) {
	return e.Repo.ListCargos(ctx)
}

// ListPromotores reads the local staff mirror.
func (e Engine) ListPromotores(ctx context.Context) ([]domain.MasterPromotor, error) {
	return e.Repo.ListPromotores(ctx)
}

// SaveCargo creates an accumulation record. Online, the remote table is the
// source of truth: a remote failure aborts the save. Offline, the record
// only exists locally.
func (e Engine) SaveCargo(ctx context.Context, c domain.CargoAcumulacao, actorID string) (domain.CargoAcumulacao, error) {
	if c.CargoNome == "" {
		return domain.CargoAcumulacao{}, fmt.Errorf("cargo_nome is required")
	}
	if e.remoteEnabled() {
		saved, err := e.Remote.InsertCargo(ctx, c)
		if err != nil {
			return domain.CargoAcumulacao{}, err
		}
		c = saved
		// Refetching keeps the mirror's promotor references consistent
		// with what the remote row points at.
		if _, err := e.RefreshCargos(ctx); err != nil {
			return domain.CargoAcumulacao{}, err
		}
	} else {
		tx, err := e.DB.BeginTx(ctx, nil)
		if err != nil {
			return domain.CargoAcumulacao{}, err
		}
		defer tx.Rollback()
		id, err := e.Repo.InsertCargoTx(ctx, tx, c)
		if err != nil {
			return domain.CargoAcumulacao{}, err
		}
		c.ID = id
		if err := tx.Commit(); err != nil {
			return domain.CargoAcumulacao{}, err
		}
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.CargoAcumulacao{}, err
	}
	defer tx.Rollback()
	if err := e.Events.Append(ctx, tx, "cargo.created", "cargo", fmt.Sprint(c.ID), actorID, events.EventPayload{
		"cargo_nome": c.CargoNome, "eh_acumulacao": c.EhAcumulacao,
	}); err != nil {
		return domain.CargoAcumulacao{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.CargoAcumulacao{}, err
	}
	if full, err := e.Repo.GetCargo(ctx, c.ID); err == nil {
		c = full
	}
	return c, nil
}

// DeleteCargo removes the record remotely first, then from the mirror.
func (e Engine) DeleteCargo(ctx context.Context, id int64, actorID string) error {
	if e.remoteEnabled() {
		if err := e.Remote.DeleteCargo(ctx, id); err != nil {
			return err
		}
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteCargoTx(ctx, tx, id); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "cargo.deleted", "cargo", fmt.Sprint(id), actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// EnsurePromotor returns the id for a staff name, creating it if new.
func (e Engine) EnsurePromotor(ctx context.Context, nome string) (int64, error) {
	if nome == "" {
		return 0, fmt.Errorf("nome is required")
	}
	return e.Repo.EnsurePromotor(ctx, nome)
}
