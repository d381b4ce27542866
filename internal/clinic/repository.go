package clinic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/metrics"
	"github.com/callsight/platform/internal/shared/types"
)

// Repository provides database operations for clinics and assistants
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new clinic repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListClinics returns all clinics ordered by name
func (r *Repository) ListClinics(ctx context.Context) ([]Clinic, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_clinics", time.Since(start)) }()

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at
		FROM clinics
		ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list clinics")
	}
	defer rows.Close()

	var clinics []Clinic
	for rows.Next() {
		var c Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan clinic")
		}
		clinics = append(clinics, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read clinics")
	}

	return clinics, nil
}

// ListAssistants returns the assistants of one clinic ordered by name
func (r *Repository) ListAssistants(ctx context.Context, clinicID types.ID) ([]Assistant, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_assistants", time.Since(start)) }()

	rows, err := r.pool.Query(ctx, `
		SELECT id, clinic_id, name, created_at
		FROM assistants
		WHERE clinic_id = $1
		ORDER BY name`, clinicID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assistants")
	}
	defer rows.Close()

	var assistants []Assistant
	for rows.Next() {
		var a Assistant
		if err := rows.Scan(&a.ID, &a.ClinicID, &a.Name, &a.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan assistant")
		}
		assistants = append(assistants, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read assistants")
	}

	return assistants, nil
}

// ListAssistantsWithClinic returns assistants joined with their clinic,
// across all clinics or filtered to one. Used by the metrics aggregator
// for per-assistant performance rows.
func (r *Repository) ListAssistantsWithClinic(ctx context.Context, clinicID string) ([]Assistant, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_assistants_with_clinic", time.Since(start)) }()

	query := `
		SELECT a.id, a.clinic_id, a.name, a.created_at,
			c.id, c.name, c.created_at
		FROM assistants a
		JOIN clinics c ON c.id = a.clinic_id`
	args := []any{}
	if clinicID != "" {
		query += ` WHERE a.clinic_id = $1`
		args = append(args, clinicID)
	}
	query += ` ORDER BY c.name, a.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assistants")
	}
	defer rows.Close()

	var assistants []Assistant
	for rows.Next() {
		var a Assistant
		var c Clinic
		if err := rows.Scan(&a.ID, &a.ClinicID, &a.Name, &a.CreatedAt,
			&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan assistant")
		}
		a.Clinic = &c
		assistants = append(assistants, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read assistants")
	}

	return assistants, nil
}
