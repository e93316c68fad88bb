package repo

import (
	"context"
	"database/sql"

	"gabinete/internal/domain"
)

const cargoCols = `c.id, c.cargo_nome, c.eh_acumulacao, c.data_inicio, c.data_fim,
	c.promotor_titular_id, c.promotor_designado_id,
	COALESCE(t.nome,'') AS titular, COALESCE(d.nome,'') AS designado`

const cargoJoins = ` FROM cargos_acumulacoes c
	LEFT JOIN master_promotores t ON t.id = c.promotor_titular_id
	LEFT JOIN master_promotores d ON d.id = c.promotor_designado_id`

func scanCargoRows(rows *sql.Rows) ([]domain.CargoAcumulacao, error) {
	defer rows.Close()
	var res []domain.CargoAcumulacao
	for rows.Next() {
		var c domain.CargoAcumulacao
		var acum int
		var inicio, fim sql.NullString
		var titularID, designadoID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.CargoNome, &acum, &inicio, &fim, &titularID, &designadoID, &c.PromotorTitular, &c.PromotorDesignado); err != nil {
			return nil, err
		}
		c.EhAcumulacao = acum != 0
		if inicio.Valid {
			c.DataInicio = &inicio.String
		}
		if fim.Valid {
			c.DataFim = &fim.String
		}
		if titularID.Valid {
			c.PromotorTitularID = &titularID.Int64
		}
		if designadoID.Valid {
			c.PromotorDesignadoID = &designadoID.Int64
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// ListCargos returns accumulation records ordered by post name, titular and
// designado names embedded.
func (r Repo) ListCargos(ctx context.Context) ([]domain.CargoAcumulacao, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+cargoCols+cargoJoins+` ORDER BY c.cargo_nome`)
	if err != nil {
		return nil, err
	}
	return scanCargoRows(rows)
}

func (r Repo) GetCargo(ctx context.Context, id int64) (domain.CargoAcumulacao, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+cargoCols+cargoJoins+` WHERE c.id=?`, id)
	if err != nil {
		return domain.CargoAcumulacao{}, err
	}
	res, err := scanCargoRows(rows)
	if err != nil {
		return domain.CargoAcumulacao{}, err
	}
	if len(res) == 0 {
		return domain.CargoAcumulacao{}, ErrNotFound
	}
	return res[0], nil
}

// InsertCargoTx stores one record. A nonzero ID is kept, so mirrored remote
// rows stay addressable by their remote id.
func (r Repo) InsertCargoTx(ctx context.Context, tx *sql.Tx, c domain.CargoAcumulacao) (int64, error) {
	if c.ID != 0 {
		_, err := tx.ExecContext(ctx, `INSERT INTO cargos_acumulacoes(id,cargo_nome,eh_acumulacao,data_inicio,data_fim,promotor_titular_id,promotor_designado_id) VALUES (?,?,?,?,?,?,?)`,
			c.ID, c.CargoNome, boolInt(c.EhAcumulacao), nullableStringPtr(c.DataInicio), nullableStringPtr(c.DataFim),
			nullableInt64(c.PromotorTitularID), nullableInt64(c.PromotorDesignadoID))
		return c.ID, err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO cargos_acumulacoes(cargo_nome,eh_acumulacao,data_inicio,data_fim,promotor_titular_id,promotor_designado_id) VALUES (?,?,?,?,?,?)`,
		c.CargoNome, boolInt(c.EhAcumulacao), nullableStringPtr(c.DataInicio), nullableStringPtr(c.DataFim),
		nullableInt64(c.PromotorTitularID), nullableInt64(c.PromotorDesignadoID))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) DeleteCargoTx(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM cargos_acumulacoes WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPromotores returns the staff roster ordered by name.
func (r Repo) ListPromotores(ctx context.Context) ([]domain.MasterPromotor, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,nome FROM master_promotores ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.MasterPromotor
	for rows.Next() {
		var p domain.MasterPromotor
		if err := rows.Scan(&p.ID, &p.Nome); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// EnsurePromotor inserts the name if missing and returns its id.
func (r Repo) EnsurePromotor(ctx context.Context, nome string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM master_promotores WHERE nome=?`, nome).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO master_promotores(nome) VALUES (?)`, nome)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ReplaceCargoSnapshot overwrites both local mirrors with a remote snapshot,
// keeping the remote ids so later deletes address the same rows. Cargos go
// first on delete and last on insert to satisfy the promotor references.
func (r Repo) ReplaceCargoSnapshot(ctx context.Context, tx *sql.Tx, cargos []domain.CargoAcumulacao, promotores []domain.MasterPromotor) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cargos_acumulacoes`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM master_promotores`); err != nil {
		return err
	}
	for _, p := range promotores {
		if _, err := tx.ExecContext(ctx, `INSERT INTO master_promotores(id,nome) VALUES (?,?)`, p.ID, p.Nome); err != nil {
			return err
		}
	}
	for _, c := range cargos {
		if _, err := tx.ExecContext(ctx, `INSERT INTO cargos_acumulacoes(id,cargo_nome,eh_acumulacao,data_inicio,data_fim,promotor_titular_id,promotor_designado_id) VALUES (?,?,?,?,?,?,?)`,
			c.ID, c.CargoNome, boolInt(c.EhAcumulacao), nullableStringPtr(c.DataInicio), nullableStringPtr(c.DataFim),
			nullableInt64(c.PromotorTitularID), nullableInt64(c.PromotorDesignadoID)); err != nil {
			return err
		}
	}
	return nil
}

func nullableStringPtr(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}
