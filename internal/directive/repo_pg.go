package directive

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesikahq/gestion-salud/internal/database"
)

const directiveColumns = `id_voluntad_anticipada, id_paciente, id_prestadora,
	fecha_suscripcion, fecha_modificacion, fecha_revocacion,
	contenido_documento, estado_voluntad, firma_paciente`

type pgRepo struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &pgRepo{db: db}
}

var _ Repository = (*pgRepo)(nil)

// Create inserts the document and links the patient record to it in the
// same transaction.
func (r *pgRepo) Create(ctx context.Context, d *Directive) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO voluntad_anticipada (
			id_paciente, id_prestadora, fecha_suscripcion,
			contenido_documento, estado_voluntad, firma_paciente
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_voluntad_anticipada`,
		d.PatientID, d.ProviderID, d.SubscribedAt,
		d.Content, d.Status, d.Signature,
	).Scan(&d.ID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("failed to insert directive: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE paciente SET id_voluntad_anticipada = $2 WHERE id_paciente = $1",
		d.PatientID, d.ID); err != nil {
		return fmt.Errorf("failed to link directive to patient: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit directive: %w", err)
	}
	return nil
}

func (r *pgRepo) GetByID(ctx context.Context, id int64) (*Directive, error) {
	var d Directive
	err := r.db.QueryRow(ctx,
		"SELECT "+directiveColumns+" FROM voluntad_anticipada WHERE id_voluntad_anticipada = $1", id,
	).Scan(&d.ID, &d.PatientID, &d.ProviderID,
		&d.SubscribedAt, &d.AmendedAt, &d.RevokedAt,
		&d.Content, &d.Status, &d.Signature)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read directive: %w", err)
	}
	return &d, nil
}

// Update writes the lifecycle columns only. The subscribed document text
// and signature are immutable once recorded.
func (r *pgRepo) Update(ctx context.Context, d *Directive) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE voluntad_anticipada SET
			fecha_modificacion = $2, fecha_revocacion = $3, estado_voluntad = $4
		WHERE id_voluntad_anticipada = $1`,
		d.ID, d.AmendedAt, d.RevokedAt, d.Status)
	if err != nil {
		return fmt.Errorf("failed to update directive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the document. The patient's link column clears itself.
func (r *pgRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM voluntad_anticipada WHERE id_voluntad_anticipada = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete directive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) ListByPatient(ctx context.Context, patientID int64) ([]*Directive, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+directiveColumns+` FROM voluntad_anticipada
		WHERE id_paciente = $1 ORDER BY fecha_suscripcion DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list directives: %w", err)
	}
	defer rows.Close()

	var list []*Directive
	for rows.Next() {
		var d Directive
		if err := rows.Scan(&d.ID, &d.PatientID, &d.ProviderID,
			&d.SubscribedAt, &d.AmendedAt, &d.RevokedAt,
			&d.Content, &d.Status, &d.Signature); err != nil {
			return nil, fmt.Errorf("failed to scan directive: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
