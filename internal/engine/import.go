package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gabinete/internal/domain"
	"gabinete/internal/events"
	"gabinete/internal/roster"
)

// ImportActivities stores the tasks mined out of a chat transcript. Every
// imported record starts PENDENTE; missing fields get defaults (tipo Outros,
// date today, process number may stay empty), and the promotor is stamped
// from the roster for the task's date.
func (e Engine) ImportActivities(ctx context.Context, cargo string, tasks []domain.ImportedActivity, actorID string) ([]domain.Activity, error) {
	if cargo == "" {
		return nil, fmt.Errorf("cargo is required")
	}
	today := e.now().Format("2006-01-02")
	now := e.now().UTC().Format(time.RFC3339)

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := make([]domain.Activity, 0, len(tasks))
	for i, t := range tasks {
		data := t.Data
		if data == "" {
			data = today
		}
		tipo := t.Tipo
		if tipo == "" {
			tipo = "Outros"
		}
		promotor := roster.Resolve(cargo, data)
		if promotor == "" {
			promotor = roster.Resolve(cargo, "")
		}
		if promotor == "" {
			promotor = unresolvedPromotor
		}
		a := domain.Activity{
			ID:             uuid.New().String(),
			NumeroProcesso: t.NumeroProcesso,
			Data:           data,
			Status:         domain.StatusPendente,
			Tipo:           tipo,
			Cargo:          cargo,
			Promotor:       promotor,
			Observacao:     t.Observacao,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := e.Repo.InsertActivityTx(ctx, tx, a); err != nil {
			return nil, fmt.Errorf("import task %d: %w", i+1, err)
		}
		if err := e.Events.Append(ctx, tx, "activity.imported", "activity", a.ID, actorID, events.EventPayload{
			"tipo": a.Tipo, "data": a.Data,
		}); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}
