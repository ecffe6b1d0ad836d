package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesikahq/gestion-salud/internal/database"
)

type pgRepo struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &pgRepo{db: db}
}

var _ Repository = (*pgRepo)(nil)

// columns returns the selected column list for a kind. Kinds without a
// name or code column select an empty string literal so every entry scans
// the same way.
func (d descriptor) columns() string {
	name := "''"
	if d.nameCol != "" {
		name = d.nameCol
	}
	code := "''"
	if d.codeCol != "" {
		code = d.codeCol
	}
	return fmt.Sprintf("%s, %s, %s", d.idCol, name, code)
}

func (r *pgRepo) CreateEntry(ctx context.Context, kind Kind, e *Entry) error {
	d, err := describe(kind)
	if err != nil {
		return err
	}

	switch {
	case d.nameCol != "" && d.codeCol != "":
		err = r.db.QueryRow(ctx,
			fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s", d.table, d.nameCol, d.codeCol, d.idCol),
			e.Name, e.Code).Scan(&e.ID)
	case d.nameCol != "":
		err = r.db.QueryRow(ctx,
			fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1) RETURNING %s", d.table, d.nameCol, d.idCol),
			e.Name).Scan(&e.ID)
	default:
		err = r.db.QueryRow(ctx,
			fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1) RETURNING %s", d.table, d.codeCol, d.idCol),
			e.Code).Scan(&e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert %s entry: %w", kind, err)
	}
	return nil
}

func (r *pgRepo) GetEntry(ctx context.Context, kind Kind, id int64) (*Entry, error) {
	d, err := describe(kind)
	if err != nil {
		return nil, err
	}

	var e Entry
	err = r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", d.columns(), d.table, d.idCol),
		id).Scan(&e.ID, &e.Name, &e.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s entry: %w", kind, err)
	}
	return &e, nil
}

func (r *pgRepo) UpdateEntry(ctx context.Context, kind Kind, e *Entry) error {
	d, err := describe(kind)
	if err != nil {
		return err
	}

	var tag pgconn.CommandTag
	switch {
	case d.nameCol != "" && d.codeCol != "":
		tag, err = r.db.Exec(ctx,
			fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1", d.table, d.nameCol, d.codeCol, d.idCol),
			e.ID, e.Name, e.Code)
	case d.nameCol != "":
		tag, err = r.db.Exec(ctx,
			fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1", d.table, d.nameCol, d.idCol),
			e.ID, e.Name)
	default:
		tag, err = r.db.Exec(ctx,
			fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1", d.table, d.codeCol, d.idCol),
			e.ID, e.Code)
	}
	if err != nil {
		return fmt.Errorf("failed to update %s entry: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) DeleteEntry(ctx context.Context, kind Kind, id int64) error {
	d, err := describe(kind)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1", d.table, d.idCol), id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("failed to delete %s entry: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) ListEntries(ctx context.Context, kind Kind) ([]*Entry, error) {
	d, err := describe(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", d.columns(), d.table, d.orderBy))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", kind, err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Code); err != nil {
			return nil, fmt.Errorf("failed to scan %s entry: %w", kind, err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *pgRepo) CountEntries(ctx context.Context, kind Kind) (int64, error) {
	d, err := describe(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+d.table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s entries: %w", kind, err)
	}
	return count, nil
}

const disabilityColumns = "id_discapacidad, cod_categoria_discapacidad, nombre_discapacidad, grado, observaciones"

func (r *pgRepo) CreateDisabilityType(ctx context.Context, d *DisabilityType) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO discapacidad (cod_categoria_discapacidad, nombre_discapacidad, grado, observaciones)
		VALUES ($1, $2, $3, $4) RETURNING id_discapacidad`,
		d.CategoryCode, d.Name, d.Grade, d.Notes).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("failed to insert disability type: %w", err)
	}
	return nil
}

func (r *pgRepo) GetDisabilityType(ctx context.Context, id int64) (*DisabilityType, error) {
	var d DisabilityType
	err := r.db.QueryRow(ctx,
		"SELECT "+disabilityColumns+" FROM discapacidad WHERE id_discapacidad = $1",
		id).Scan(&d.ID, &d.CategoryCode, &d.Name, &d.Grade, &d.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read disability type: %w", err)
	}
	return &d, nil
}

func (r *pgRepo) UpdateDisabilityType(ctx context.Context, d *DisabilityType) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE discapacidad
		SET cod_categoria_discapacidad = $2, nombre_discapacidad = $3, grado = $4, observaciones = $5
		WHERE id_discapacidad = $1`,
		d.ID, d.CategoryCode, d.Name, d.Grade, d.Notes)
	if err != nil {
		return fmt.Errorf("failed to update disability type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) DeleteDisabilityType(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM discapacidad WHERE id_discapacidad = $1", id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("failed to delete disability type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) ListDisabilityTypes(ctx context.Context) ([]*DisabilityType, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+disabilityColumns+" FROM discapacidad ORDER BY nombre_discapacidad")
	if err != nil {
		return nil, fmt.Errorf("failed to list disability types: %w", err)
	}
	defer rows.Close()

	var types []*DisabilityType
	for rows.Next() {
		var d DisabilityType
		if err := rows.Scan(&d.ID, &d.CategoryCode, &d.Name, &d.Grade, &d.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan disability type: %w", err)
		}
		types = append(types, &d)
	}
	return types, rows.Err()
}

func (r *pgRepo) CountDisabilityTypes(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM discapacidad").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count disability types: %w", err)
	}
	return count, nil
}
