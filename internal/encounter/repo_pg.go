package encounter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesikahq/gestion-salud/internal/database"
)

const encounterColumns = `id_encuentro_paciente, id_paciente, id_prestadora,
	codigo_motivo, codigo_ingreso, modalidad_id, id_huerfana, cie_id,
	tipo_servicio, fecha_ingreso, fecha_egreso,
	diagnostico, diagnostico_egreso, estado_consulta`

type pgRepo struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &pgRepo{db: db}
}

var _ Repository = (*pgRepo)(nil)

func (r *pgRepo) Create(ctx context.Context, e *Encounter) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO servicio_salud (
			id_paciente, id_prestadora, codigo_motivo, codigo_ingreso,
			modalidad_id, id_huerfana, cie_id, tipo_servicio,
			fecha_ingreso, diagnostico, estado_consulta
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id_encuentro_paciente`,
		e.PatientID, e.ProviderID, e.CauseID, e.AdmissionRoute,
		e.ModalityID, e.OrphanDiseaseID, e.DiagnosisCodeID, e.ServiceType,
		e.AdmittedAt, e.Diagnosis, e.Status,
	).Scan(&e.ID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("failed to insert encounter: %w", err)
	}
	return nil
}

func (r *pgRepo) GetByID(ctx context.Context, id int64) (*Encounter, error) {
	var e Encounter
	err := r.db.QueryRow(ctx,
		"SELECT "+encounterColumns+" FROM servicio_salud WHERE id_encuentro_paciente = $1", id,
	).Scan(&e.ID, &e.PatientID, &e.ProviderID,
		&e.CauseID, &e.AdmissionRoute, &e.ModalityID, &e.OrphanDiseaseID, &e.DiagnosisCodeID,
		&e.ServiceType, &e.AdmittedAt, &e.DischargedAt,
		&e.Diagnosis, &e.DischargeDiagnosis, &e.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read encounter: %w", err)
	}
	return &e, nil
}

func (r *pgRepo) Update(ctx context.Context, e *Encounter) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE servicio_salud SET
			codigo_motivo = $2, codigo_ingreso = $3, modalidad_id = $4,
			id_huerfana = $5, cie_id = $6, tipo_servicio = $7,
			fecha_ingreso = $8, fecha_egreso = $9,
			diagnostico = $10, diagnostico_egreso = $11, estado_consulta = $12
		WHERE id_encuentro_paciente = $1`,
		e.ID, e.CauseID, e.AdmissionRoute, e.ModalityID,
		e.OrphanDiseaseID, e.DiagnosisCodeID, e.ServiceType,
		e.AdmittedAt, e.DischargedAt,
		e.Diagnosis, e.DischargeDiagnosis, e.Status)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("failed to update encounter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM servicio_salud WHERE id_encuentro_paciente = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete encounter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*Encounter, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if f.PatientID != 0 {
		args = append(args, f.PatientID)
		where += fmt.Sprintf(" AND id_paciente = $%d", len(args))
	}
	if f.ProviderID != 0 {
		args = append(args, f.ProviderID)
		where += fmt.Sprintf(" AND id_prestadora = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND estado_consulta = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM servicio_salud"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count encounters: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		"SELECT "+encounterColumns+" FROM servicio_salud"+where+
			fmt.Sprintf(" ORDER BY fecha_ingreso DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list encounters: %w", err)
	}
	defer rows.Close()

	var encounters []*Encounter
	for rows.Next() {
		var e Encounter
		if err := rows.Scan(&e.ID, &e.PatientID, &e.ProviderID,
			&e.CauseID, &e.AdmissionRoute, &e.ModalityID, &e.OrphanDiseaseID, &e.DiagnosisCodeID,
			&e.ServiceType, &e.AdmittedAt, &e.DischargedAt,
			&e.Diagnosis, &e.DischargeDiagnosis, &e.Status); err != nil {
			return nil, 0, fmt.Errorf("failed to scan encounter: %w", err)
		}
		encounters = append(encounters, &e)
	}
	return encounters, total, rows.Err()
}
