package donation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesikahq/gestion-salud/internal/database"
)

const oppositionColumns = `id_oposicion, id_paciente, tiene_oposicion,
	fecha_manifestacion, documento_ref, observaciones, testigo, registro_notaria`

type pgRepo struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &pgRepo{db: db}
}

var _ Repository = (*pgRepo)(nil)

// Create inserts the opposition and links the patient record to it in the
// same transaction.
func (r *pgRepo) Create(ctx context.Context, o *Opposition) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO oposicion_donacion (
			id_paciente, tiene_oposicion, fecha_manifestacion,
			documento_ref, observaciones, testigo, registro_notaria
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_oposicion`,
		o.PatientID, o.Opposed, o.DeclaredAt,
		o.DocumentRef, o.Observations, o.Witness, o.NotaryRecord,
	).Scan(&o.ID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrPatientNotFound
		}
		return fmt.Errorf("failed to insert opposition: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE paciente SET id_oposicion = $2 WHERE id_paciente = $1",
		o.PatientID, o.ID); err != nil {
		return fmt.Errorf("failed to link opposition to patient: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit opposition: %w", err)
	}
	return nil
}

func (r *pgRepo) GetByID(ctx context.Context, id int64) (*Opposition, error) {
	var o Opposition
	err := r.db.QueryRow(ctx,
		"SELECT "+oppositionColumns+" FROM oposicion_donacion WHERE id_oposicion = $1", id,
	).Scan(&o.ID, &o.PatientID, &o.Opposed,
		&o.DeclaredAt, &o.DocumentRef, &o.Observations, &o.Witness, &o.NotaryRecord)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read opposition: %w", err)
	}
	return &o, nil
}

func (r *pgRepo) Update(ctx context.Context, o *Opposition) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE oposicion_donacion SET
			tiene_oposicion = $2, fecha_manifestacion = $3, documento_ref = $4,
			observaciones = $5, testigo = $6, registro_notaria = $7
		WHERE id_oposicion = $1`,
		o.ID, o.Opposed, o.DeclaredAt, o.DocumentRef,
		o.Observations, o.Witness, o.NotaryRecord)
	if err != nil {
		return fmt.Errorf("failed to update opposition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record. The patient's link column clears itself.
func (r *pgRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM oposicion_donacion WHERE id_oposicion = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete opposition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) ListByPatient(ctx context.Context, patientID int64) ([]*Opposition, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+oppositionColumns+` FROM oposicion_donacion
		WHERE id_paciente = $1 ORDER BY fecha_manifestacion DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list oppositions: %w", err)
	}
	defer rows.Close()

	var list []*Opposition
	for rows.Next() {
		var o Opposition
		if err := rows.Scan(&o.ID, &o.PatientID, &o.Opposed,
			&o.DeclaredAt, &o.DocumentRef, &o.Observations, &o.Witness, &o.NotaryRecord); err != nil {
			return nil, fmt.Errorf("failed to scan opposition: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
