package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesikahq/gestion-salud/internal/database"
)

const patientColumns = `id_paciente, id_paciente_pais, codigo_municipio, codigo_ciuo,
	id_comunidad, id_etnia, id_prestadora, id_nacionalidad, id_voluntad_anticipada,
	id_oposicion, id_paciente_discapacidad, tipo_documento, numero_documento,
	primer_nombre, segundo_nombre, primer_apellido, segundo_apellido,
	fecha_nacimiento, edad, sexo_biologico, identidad_genero,
	fecha_creacion, fecha_actualizacion`

type pgRepo struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &pgRepo{db: db}
}

var _ Repository = (*pgRepo)(nil)

// Create inserts the patient and its primary nationality row in a single
// transaction. The nationality column on the patient is filled in a second
// statement because the two rows reference each other.
func (r *pgRepo) Create(ctx context.Context, p *Patient) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO paciente (
			id_paciente_pais, codigo_municipio, codigo_ciuo, id_comunidad,
			id_etnia, id_prestadora, tipo_documento, numero_documento,
			primer_nombre, segundo_nombre, primer_apellido, segundo_apellido,
			fecha_nacimiento, edad, sexo_biologico, identidad_genero
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id_paciente, fecha_creacion, fecha_actualizacion`,
		p.CountryID, p.CityID, p.OccupationID, p.EthnicCommunityID,
		p.EthnicityID, p.ProviderID, p.DocumentType, p.DocumentNumber,
		p.GivenName, p.MiddleName, p.FamilyName, p.SecondFamilyName,
		p.BirthDate, p.Age, p.BiologicalSex, p.GenderIdentity,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "paciente_numero_documento_key") {
			return ErrDuplicateDocument
		}
		if database.IsForeignKeyViolation(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("failed to insert patient: %w", err)
	}

	var natID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO paciente_nacionalidad (id_paciente, id_pais)
		VALUES ($1, $2)
		RETURNING id_paciente_nacionalidad`,
		p.ID, p.CountryID,
	).Scan(&natID)
	if err != nil {
		return fmt.Errorf("failed to insert primary nationality: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE paciente SET id_nacionalidad = $2 WHERE id_paciente = $1",
		p.ID, natID); err != nil {
		return fmt.Errorf("failed to link primary nationality: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit patient: %w", err)
	}
	p.NationalityID = &natID
	return nil
}

func (r *pgRepo) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return r.getOne(ctx,
		"SELECT "+patientColumns+" FROM paciente WHERE id_paciente = $1", id)
}

func (r *pgRepo) GetByDocument(ctx context.Context, documentNumber string) (*Patient, error) {
	return r.getOne(ctx,
		"SELECT "+patientColumns+" FROM paciente WHERE numero_documento = $1", documentNumber)
}

func (r *pgRepo) getOne(ctx context.Context, query string, arg interface{}) (*Patient, error) {
	var p Patient
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.CountryID, &p.CityID, &p.OccupationID,
		&p.EthnicCommunityID, &p.EthnicityID, &p.ProviderID, &p.NationalityID,
		&p.DirectiveID, &p.OppositionID, &p.DisabilityLinkID,
		&p.DocumentType, &p.DocumentNumber,
		&p.GivenName, &p.MiddleName, &p.FamilyName, &p.SecondFamilyName,
		&p.BirthDate, &p.Age, &p.BiologicalSex, &p.GenderIdentity,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read patient: %w", err)
	}
	return &p, nil
}

// Update rewrites the demographic fields and refreshes fecha_actualizacion.
// The creation timestamp and the association links are never touched here.
func (r *pgRepo) Update(ctx context.Context, p *Patient) error {
	err := r.db.QueryRow(ctx, `
		UPDATE paciente SET
			id_paciente_pais = $2, codigo_municipio = $3, codigo_ciuo = $4,
			id_comunidad = $5, id_etnia = $6, id_prestadora = $7,
			tipo_documento = $8, numero_documento = $9,
			primer_nombre = $10, segundo_nombre = $11,
			primer_apellido = $12, segundo_apellido = $13,
			fecha_nacimiento = $14, edad = $15, sexo_biologico = $16,
			identidad_genero = $17, fecha_actualizacion = CURRENT_TIMESTAMP
		WHERE id_paciente = $1
		RETURNING fecha_actualizacion`,
		p.ID, p.CountryID, p.CityID, p.OccupationID,
		p.EthnicCommunityID, p.EthnicityID, p.ProviderID,
		p.DocumentType, p.DocumentNumber,
		p.GivenName, p.MiddleName,
		p.FamilyName, p.SecondFamilyName,
		p.BirthDate, p.Age, p.BiologicalSex,
		p.GenderIdentity,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if database.IsUniqueViolation(err, "paciente_numero_documento_key") {
			return ErrDuplicateDocument
		}
		if database.IsForeignKeyViolation(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

// Delete removes the patient; nationalities, disabilities, directives,
// oppositions and encounters go with it.
func (r *pgRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM paciente WHERE id_paciente = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if f.NameQuery != "" {
		args = append(args, f.NameQuery+"%")
		n := fmt.Sprintf("$%d", len(args))
		where += fmt.Sprintf(" AND (primer_nombre ILIKE %s OR primer_apellido ILIKE %s)", n, n)
	}
	if f.DocumentNumber != "" {
		args = append(args, f.DocumentNumber)
		where += fmt.Sprintf(" AND numero_documento = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM paciente"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		"SELECT "+patientColumns+" FROM paciente"+where+
			fmt.Sprintf(" ORDER BY primer_apellido, primer_nombre LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.ID, &p.CountryID, &p.CityID, &p.OccupationID,
			&p.EthnicCommunityID, &p.EthnicityID, &p.ProviderID, &p.NationalityID,
			&p.DirectiveID, &p.OppositionID, &p.DisabilityLinkID,
			&p.DocumentType, &p.DocumentNumber,
			&p.GivenName, &p.MiddleName, &p.FamilyName, &p.SecondFamilyName,
			&p.BirthDate, &p.Age, &p.BiologicalSex, &p.GenderIdentity,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, &p)
	}
	return patients, total, rows.Err()
}

func (r *pgRepo) AddNationality(ctx context.Context, patientID, countryID int64) (*Nationality, error) {
	n := &Nationality{PatientID: patientID, CountryID: countryID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO paciente_nacionalidad (id_paciente, id_pais)
		VALUES ($1, $2)
		RETURNING id_paciente_nacionalidad`,
		patientID, countryID,
	).Scan(&n.ID)
	if err != nil {
		if database.IsUniqueViolation(err, "paciente_nacionalidad_pair_key") {
			return nil, ErrDuplicateNationality
		}
		if database.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to insert nationality: %w", err)
	}
	return n, nil
}

// RemoveNationality deletes a nationality row. The patient's primary link
// restricts the delete, which surfaces as ErrNationalityInUse.
func (r *pgRepo) RemoveNationality(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM paciente_nacionalidad WHERE id_paciente_nacionalidad = $1", id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrNationalityInUse
		}
		return fmt.Errorf("failed to delete nationality: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNationalityNotFound
	}
	return nil
}

func (r *pgRepo) ListNationalities(ctx context.Context, patientID int64) ([]*Nationality, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id_paciente_nacionalidad, id_paciente, id_pais
		FROM paciente_nacionalidad
		WHERE id_paciente = $1
		ORDER BY id_paciente_nacionalidad`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nationalities: %w", err)
	}
	defer rows.Close()

	var list []*Nationality
	for rows.Next() {
		var n Nationality
		if err := rows.Scan(&n.ID, &n.PatientID, &n.CountryID); err != nil {
			return nil, fmt.Errorf("failed to scan nationality: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *pgRepo) AddDisability(ctx context.Context, patientID, disabilityID int64) (*Disability, error) {
	d := &Disability{PatientID: patientID, DisabilityID: disabilityID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO paciente_discapacidad (id_paciente, id_discapacidad)
		VALUES ($1, $2)
		RETURNING id_paciente_discapacidad`,
		patientID, disabilityID,
	).Scan(&d.ID)
	if err != nil {
		if database.IsUniqueViolation(err, "paciente_discapacidad_pair_key") {
			return nil, ErrDuplicateDisability
		}
		if database.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to insert disability: %w", err)
	}
	return d, nil
}

func (r *pgRepo) RemoveDisability(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM paciente_discapacidad WHERE id_paciente_discapacidad = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete disability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDisabilityNotFound
	}
	return nil
}

func (r *pgRepo) ListDisabilities(ctx context.Context, patientID int64) ([]*Disability, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id_paciente_discapacidad, id_paciente, id_discapacidad
		FROM paciente_discapacidad
		WHERE id_paciente = $1
		ORDER BY id_paciente_discapacidad`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list disabilities: %w", err)
	}
	defer rows.Close()

	var list []*Disability
	for rows.Next() {
		var d Disability
		if err := rows.Scan(&d.ID, &d.PatientID, &d.DisabilityID); err != nil {
			return nil, fmt.Errorf("failed to scan disability: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
