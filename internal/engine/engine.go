package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"gabinete/internal/config"
	"gabinete/internal/domain"
	"gabinete/internal/events"
	"gabinete/internal/remote"
	"gabinete/internal/repo"
	"gabinete/internal/roster"
)

const unresolvedPromotor = "Não identificado"

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	// Remote may be nil or in offline mode; every remote call degrades to
	// local-only state.
	Remote *remote.Client
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config, rc *remote.Client) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Remote: rc,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// ActivitySaveOptions are parameters for creating or updating an activity.
// An empty ID inserts; a present ID updates.
type ActivitySaveOptions struct {
	ID             string
	NumeroProcesso string
	Data           string
	Status         domain.ActivityStatus
	Tipo           string
	Cargo          string
	Promotor       string
	Observacao     string
	Synced         bool
	ActorID        string
}

// SaveActivity upserts one activity. The promotor is resolved from the duty
// roster at save time and stored denormalized; later roster changes never
// rewrite past records.
func (e Engine) SaveActivity(ctx context.Context, opts ActivitySaveOptions) (domain.Activity, error) {
	if opts.NumeroProcesso == "" {
		return domain.Activity{}, errors.New("numero_processo is required")
	}
	if opts.Data == "" {
		return domain.Activity{}, errors.New("data is required")
	}
	if opts.Tipo == "" {
		return domain.Activity{}, errors.New("tipo is required")
	}
	if opts.Cargo == "" {
		return domain.Activity{}, errors.New("cargo is required")
	}
	if opts.Status == "" {
		return domain.Activity{}, errors.New("status is required")
	}
	if !opts.Status.Valid() {
		return domain.Activity{}, fmt.Errorf("invalid status %q", opts.Status)
	}
	promotor := opts.Promotor
	if promotor == "" {
		promotor = roster.Resolve(opts.Cargo, opts.Data)
	}
	if promotor == "" {
		promotor = unresolvedPromotor
	}
	now := e.now().UTC().Format(time.RFC3339)

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Activity{}, err
	}
	defer tx.Rollback()

	var a domain.Activity
	if opts.ID == "" {
		a = domain.Activity{
			ID:             uuid.New().String(),
			NumeroProcesso: opts.NumeroProcesso,
			Data:           opts.Data,
			Status:         opts.Status,
			Tipo:           opts.Tipo,
			Cargo:          opts.Cargo,
			Promotor:       promotor,
			Observacao:     opts.Observacao,
			Synced:         opts.Synced,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := e.Repo.InsertActivityTx(ctx, tx, a); err != nil {
			return domain.Activity{}, fmt.Errorf("insert activity: %w", err)
		}
		if err := e.Events.Append(ctx, tx, "activity.created", "activity", a.ID, opts.ActorID, events.EventPayload{
			"tipo": a.Tipo, "status": string(a.Status),
		}); err != nil {
			return domain.Activity{}, err
		}
	} else {
		existing, err := e.Repo.GetActivity(ctx, opts.ID)
		if err != nil {
			return domain.Activity{}, err
		}
		a = existing
		a.NumeroProcesso = opts.NumeroProcesso
		a.Data = opts.Data
		a.Status = opts.Status
		a.Tipo = opts.Tipo
		a.Cargo = opts.Cargo
		a.Promotor = promotor
		a.Observacao = opts.Observacao
		a.Synced = opts.Synced
		a.UpdatedAt = now
		if err := e.Repo.UpdateActivityTx(ctx, tx, a); err != nil {
			return domain.Activity{}, fmt.Errorf("update activity: %w", err)
		}
		if err := e.Events.Append(ctx, tx, "activity.updated", "activity", a.ID, opts.ActorID, events.EventPayload{
			"from_status": string(existing.Status), "to_status": string(a.Status),
		}); err != nil {
			return domain.Activity{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Activity{}, err
	}
	// Best effort: a failed push leaves the record local and unsynced,
	// never loses it.
	if pushed, err := e.pushActivity(ctx, a); err == nil {
		a = pushed
	}
	return a, nil
}

// QuickStatus sets the status alone. Any status is reachable from any other;
// the label set carries no workflow.
func (e Engine) QuickStatus(ctx context.Context, id string, status domain.ActivityStatus, actorID string) (domain.Activity, error) {
	if !status.Valid() {
		return domain.Activity{}, fmt.Errorf("invalid status %q", status)
	}
	a, err := e.Repo.GetActivity(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}
	from := a.Status
	a.Status = status
	a.UpdatedAt = e.now().UTC().Format(time.RFC3339)
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Activity{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateActivityTx(ctx, tx, a); err != nil {
		return domain.Activity{}, err
	}
	if err := e.Events.Append(ctx, tx, "activity.status", "activity", a.ID, actorID, events.EventPayload{
		"from_status": string(from), "to_status": string(status),
	}); err != nil {
		return domain.Activity{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Activity{}, err
	}
	if pushed, err := e.pushActivity(ctx, a); err == nil {
		a = pushed
	}
	return a, nil
}

// DeleteActivity removes the record locally and remotely. If the remote
// delete fails the local record is restored, so both sides stay consistent.
func (e Engine) DeleteActivity(ctx context.Context, id, actorID string) error {
	a, err := e.Repo.GetActivity(ctx, id)
	if err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.DeleteActivityTx(ctx, tx, id); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "activity.deleted", "activity", id, actorID, nil); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if e.remoteEnabled() && a.Synced {
		if err := e.Remote.DeleteActivity(ctx, id); err != nil {
			if rerr := e.restoreActivity(ctx, a, actorID); rerr != nil {
				return fmt.Errorf("remote delete failed (%v) and restore failed: %w", err, rerr)
			}
			return fmt.Errorf("remote delete failed, record restored: %w", err)
		}
	}
	return nil
}

// ClearCompleted removes every CONCLUIDO or FINALIZADO activity.
func (e Engine) ClearCompleted(ctx context.Context, actorID string) (int, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	ids, err := e.Repo.DeleteCompletedTx(ctx, tx)
	if err != nil {
		return 0, err
	}
	if err := e.Events.Append(ctx, tx, "activity.cleared_completed", "activity", "", actorID, events.EventPayload{
		"count": len(ids),
	}); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (e Engine) ClearAll(ctx context.Context, actorID string) (int64, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	n, err := e.Repo.DeleteAllActivitiesTx(ctx, tx)
	if err != nil {
		return 0, err
	}
	if err := e.Events.Append(ctx, tx, "activity.cleared_all", "activity", "", actorID, events.EventPayload{
		"count": n,
	}); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// Metrics aggregates the current list: total, completed (CONCLUIDO or
// FINALIZADO), pending, rounded completion percentage, most frequent tipo.
func (e Engine) Metrics(ctx context.Context) (domain.Metrics, error) {
	counts, err := e.Repo.CountActivitiesByStatus(ctx)
	if err != nil {
		return domain.Metrics{}, err
	}
	var m domain.Metrics
	for status, n := range counts {
		m.Total += n
		if status.Completed() {
			m.Completed += n
		}
	}
	m.Pending = m.Total - m.Completed
	if m.Total > 0 {
		m.CompletionRate = int(math.Round(float64(m.Completed) / float64(m.Total) * 100))
	}
	m.TopType, err = e.Repo.TopActivityType(ctx)
	if err != nil {
		return domain.Metrics{}, err
	}
	return m, nil
}

// Search filters case-insensitively across the searchable fields, including
// the status display label, and always returns newest-dated first.
func (e Engine) Search(ctx context.Context, term string) ([]domain.Activity, error) {
	return e.Repo.SearchActivities(ctx, term)
}

// ScreenFor maps an activity category to its destination tool screen. Types
// outside the fixed table fall back on the "Arquivamento" substring rule,
// then the dashboard.
func ScreenFor(tipo string) domain.Screen {
	switch tipo {
	case "Pesquisa de NI":
		return domain.ScreenPesquisaNI
	case "Multa Penal":
		return domain.ScreenMultaPenal
	case "ANPP - Execuções", "ANPP - Dados Bancários":
		return domain.ScreenANPP
	case "Ofício":
		return domain.ScreenOficio
	case "Notícia de Fato", "Notificação - (Art. 28)", "Agendamento de Despacho":
		return domain.ScreenSisDigital
	case "Outros":
		return domain.ScreenDashboard
	}
	if strings.Contains(tipo, "Arquivamento") {
		return domain.ScreenArquivamento
	}
	return domain.ScreenDashboard
}

// OpenResult is the outcome of opening an activity: where to navigate, and
// the case context to overwrite.
type OpenResult struct {
	Screen   domain.Screen   `json:"screen"`
	CaseData domain.CaseData `json:"case_data"`
	Activity domain.Activity `json:"activity"`
}

// OpenActivity resolves the destination screen and the case data the
// activity carries into it. The returned CaseData replaces the previous one
// wholesale; there is no merge.
func (e Engine) OpenActivity(ctx context.Context, id string) (OpenResult, error) {
	a, err := e.Repo.GetActivity(ctx, id)
	if err != nil {
		return OpenResult{}, err
	}
	return OpenResult{
		Screen: ScreenFor(a.Tipo),
		CaseData: domain.CaseData{
			NumeroProcesso: a.NumeroProcesso,
			Cargo:          a.Cargo,
			Promotor:       a.Promotor,
		},
		Activity: a,
	}, nil
}

// EsajURL builds the public ESAJ process-lookup URL. The query layout,
// including the unused unified-number fields, matches what the court site
// expects for a free-form SAJ search.
func (e Engine) EsajURL(numeroProcesso string) string {
	base := "https://esaj.tjsp.jus.br/cpopg/search.do"
	if e.Config != nil && e.Config.Esaj.BaseURL != "" {
		base = e.Config.Esaj.BaseURL
	}
	return base +
		"?conversationId=&cbPesquisa=NUMPROC" +
		"&numeroDigitoAnoUnificado=&foroNumeroUnificado=" +
		"&dadosConsulta.valorConsultaNuUnificado=" +
		"&dadosConsulta.valorConsultaNuUnificado=UNIFICADO" +
		"&dadosConsulta.valorConsulta=" + url.QueryEscape(numeroProcesso) +
		"&dadosConsulta.tipoNuProcesso=SAJ"
}
