package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gabinete/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

const activityCols = `id,numero_processo,data,status,tipo,cargo,promotor,COALESCE(observacao,'') AS observacao,synced,created_at,updated_at`

func scanActivity(row *sql.Row) (domain.Activity, error) {
	var a domain.Activity
	var synced int
	err := row.Scan(&a.ID, &a.NumeroProcesso, &a.Data, &a.Status, &a.Tipo, &a.Cargo, &a.Promotor, &a.Observacao, &synced, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	a.Synced = synced != 0
	return a, err
}

func scanActivityRows(rows *sql.Rows) ([]domain.Activity, error) {
	defer rows.Close()
	var res []domain.Activity
	for rows.Next() {
		var a domain.Activity
		var synced int
		if err := rows.Scan(&a.ID, &a.NumeroProcesso, &a.Data, &a.Status, &a.Tipo, &a.Cargo, &a.Promotor, &a.Observacao, &synced, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Synced = synced != 0
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r Repo) InsertActivityTx(ctx context.Context, tx *sql.Tx, a domain.Activity) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO activities(id,numero_processo,data,status,tipo,cargo,promotor,observacao,synced,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		a.ID, a.NumeroProcesso, a.Data, a.Status, a.Tipo, a.Cargo, a.Promotor, nullable(a.Observacao), boolInt(a.Synced), a.CreatedAt, a.UpdatedAt)
	return err
}

func (r Repo) UpdateActivityTx(ctx context.Context, tx *sql.Tx, a domain.Activity) error {
	res, err := tx.ExecContext(ctx, `UPDATE activities SET numero_processo=?,data=?,status=?,tipo=?,cargo=?,promotor=?,observacao=?,synced=?,updated_at=? WHERE id=?`,
		a.NumeroProcesso, a.Data, a.Status, a.Tipo, a.Cargo, a.Promotor, nullable(a.Observacao), boolInt(a.Synced), a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetActivity(ctx context.Context, id string) (domain.Activity, error) {
	return scanActivity(r.DB.QueryRowContext(ctx, `SELECT `+activityCols+` FROM activities WHERE id=?`, id))
}

func (r Repo) DeleteActivityTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCompletedTx removes every CONCLUIDO or FINALIZADO row and returns the
// ids removed.
func (r Repo) DeleteCompletedTx(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM activities WHERE status IN (?,?)`,
		domain.StatusConcluido, domain.StatusFinalizado)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE status IN (?,?)`,
		domain.StatusConcluido, domain.StatusFinalizado); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r Repo) DeleteAllActivitiesTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM activities`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ActivityFilters narrows ListActivities. Cursor fields paginate on
// (data DESC, id DESC).
type ActivityFilters struct {
	Status     string
	Tipo       string
	Cargo      string
	Limit      int
	CursorData string
	CursorID   string
}

// ListActivities returns activities ordered by data descending, newest first.
func (r Repo) ListActivities(ctx context.Context, f ActivityFilters) ([]domain.Activity, error) {
	q := `SELECT ` + activityCols + ` FROM activities`
	var (
		clauses []string
		args    []any
	)
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	if f.Tipo != "" {
		clauses = append(clauses, "tipo=?")
		args = append(args, f.Tipo)
	}
	if f.Cargo != "" {
		clauses = append(clauses, "cargo=?")
		args = append(args, f.Cargo)
	}
	if f.CursorData != "" {
		clauses = append(clauses, "(data < ? OR (data = ? AND id < ?))")
		args = append(args, f.CursorData, f.CursorData, f.CursorID)
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY data DESC, id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanActivityRows(rows)
}

// SearchActivities does a case-insensitive substring match across process
// number, tipo, cargo, promotor, observacao and data. Status label matching
// is resolved in Go since the display label never reaches SQL.
func (r Repo) SearchActivities(ctx context.Context, term string) ([]domain.Activity, error) {
	if term == "" {
		return r.ListActivities(ctx, ActivityFilters{})
	}
	lowered := strings.ToLower(term)
	var matchingStatuses []any
	for _, s := range domain.ActivityStatuses {
		if strings.Contains(strings.ToLower(s.Label()), lowered) {
			matchingStatuses = append(matchingStatuses, string(s))
		}
	}
	like := "%" + escapeLike(lowered) + "%"
	q := `SELECT ` + activityCols + ` FROM activities WHERE (
		LOWER(numero_processo) LIKE ? ESCAPE '\' OR
		LOWER(tipo) LIKE ? ESCAPE '\' OR
		LOWER(cargo) LIKE ? ESCAPE '\' OR
		LOWER(promotor) LIKE ? ESCAPE '\' OR
		LOWER(COALESCE(observacao,'')) LIKE ? ESCAPE '\' OR
		LOWER(data) LIKE ? ESCAPE '\'`
	args := []any{like, like, like, like, like, like}
	if len(matchingStatuses) > 0 {
		q += ` OR status IN (?` + strings.Repeat(",?", len(matchingStatuses)-1) + `)`
		args = append(args, matchingStatuses...)
	}
	q += `) ORDER BY data DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanActivityRows(rows)
}

// CountActivitiesByStatus feeds the metrics aggregation.
func (r Repo) CountActivitiesByStatus(ctx context.Context) (map[domain.ActivityStatus]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM activities GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[domain.ActivityStatus]int{}
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[domain.ActivityStatus(s)] = n
	}
	return counts, rows.Err()
}

// TopActivityType returns the most frequent tipo. Ties break toward the
// type inserted first; rowid is monotonic where created_at only has
// second granularity and uuid order is random.
func (r Repo) TopActivityType(ctx context.Context) (string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT tipo FROM activities GROUP BY tipo ORDER BY COUNT(*) DESC, MIN(rowid) ASC LIMIT 1`)
	var tipo string
	err := row.Scan(&tipo)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return tipo, err
}

// MarkSyncedTx flips the synced flag after a successful remote write.
// ListUnsyncedActivities returns records not yet pushed to the remote
// store, oldest first so replay keeps the original order.
func (r Repo) ListUnsyncedActivities(ctx context.Context) ([]domain.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+activityCols+` FROM activities WHERE synced=0 ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return scanActivityRows(rows)
}

func (r Repo) MarkSyncedTx(ctx context.Context, tx *sql.Tx, id string, synced bool) error {
	res, err := tx.ExecContext(ctx, `UPDATE activities SET synced=? WHERE id=?`, boolInt(synced), id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
