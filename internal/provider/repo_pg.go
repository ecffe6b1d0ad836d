package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesikahq/gestion-salud/internal/database"
)

const providerColumns = `id_prestadora, cod_prestadora, tipo_prestador, nombre_prestadora,
	nivel_complejidad, nit, codigo_habilitacion, municipio, departamento, direccion, contacto`

type pgRepo struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &pgRepo{db: db}
}

var _ Repository = (*pgRepo)(nil)

func (r *pgRepo) Create(ctx context.Context, p *Provider) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO prestadora_salud (
			cod_prestadora, tipo_prestador, nombre_prestadora, nivel_complejidad,
			nit, codigo_habilitacion, municipio, departamento, direccion, contacto
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id_prestadora`,
		p.Code, p.Type, p.Name, p.ComplexityLevel,
		p.TaxID, p.AccreditationCode, p.Municipality, p.Department, p.Address, p.Contact,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert provider: %w", err)
	}
	return nil
}

func (r *pgRepo) GetByID(ctx context.Context, id int64) (*Provider, error) {
	var p Provider
	err := r.db.QueryRow(ctx,
		"SELECT "+providerColumns+" FROM prestadora_salud WHERE id_prestadora = $1", id,
	).Scan(&p.ID, &p.Code, &p.Type, &p.Name, &p.ComplexityLevel,
		&p.TaxID, &p.AccreditationCode, &p.Municipality, &p.Department, &p.Address, &p.Contact)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read provider: %w", err)
	}
	return &p, nil
}

func (r *pgRepo) Update(ctx context.Context, p *Provider) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE prestadora_salud SET
			cod_prestadora = $2, tipo_prestador = $3, nombre_prestadora = $4,
			nivel_complejidad = $5, nit = $6, codigo_habilitacion = $7,
			municipio = $8, departamento = $9, direccion = $10, contacto = $11
		WHERE id_prestadora = $1`,
		p.ID, p.Code, p.Type, p.Name,
		p.ComplexityLevel, p.TaxID, p.AccreditationCode,
		p.Municipality, p.Department, p.Address, p.Contact)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM prestadora_salud WHERE id_prestadora = $1", id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) List(ctx context.Context, limit, offset int) ([]*Provider, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM prestadora_salud").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count providers: %w", err)
	}

	rows, err := r.db.Query(ctx,
		"SELECT "+providerColumns+" FROM prestadora_salud ORDER BY nombre_prestadora LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	var providers []*Provider
	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.Code, &p.Type, &p.Name, &p.ComplexityLevel,
			&p.TaxID, &p.AccreditationCode, &p.Municipality, &p.Department, &p.Address, &p.Contact); err != nil {
			return nil, 0, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, &p)
	}
	return providers, total, rows.Err()
}
