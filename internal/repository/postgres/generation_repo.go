package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"heliogen/internal/domain"
	"heliogen/internal/port"
)

type generationRepo struct {
	db *sqlx.DB
}

// NewGenerationRepo creates a new PostgreSQL-backed GenerationRepository.
func NewGenerationRepo(db *sqlx.DB) port.GenerationRepository {
	return &generationRepo{db: db}
}

const insertRecordQuery = `INSERT INTO generation_records (
	id, plant_id, year, month,
	current_generation, cumulative_generation,
	unit_value, tariff_difference, total_value,
	current_savings, cumulative_savings,
	current_environmental_savings, cumulative_environmental_savings,
	operator_tariff_id, created_at, updated_at
) VALUES (
	:id, :plant_id, :year, :month,
	:current_generation, :cumulative_generation,
	:unit_value, :tariff_difference, :total_value,
	:current_savings, :cumulative_savings,
	:current_environmental_savings, :cumulative_environmental_savings,
	:operator_tariff_id, NOW(), NOW()
)
ON CONFLICT (plant_id, year, month) DO NOTHING`

func (r *generationRepo) Create(ctx context.Context, rec *domain.GenerationRecord) error {
	res, err := r.db.NamedExecContext(ctx, insertRecordQuery, rec)
	if err != nil {
		return fmt.Errorf("generationRepo.Create: %w", err)
	}
	// ON CONFLICT DO NOTHING makes the existence check and the insert a
	// single atomic statement: a concurrent writer for the same period
	// leaves this insert with zero affected rows.
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("generationRepo.Create rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordExists
	}
	return nil
}

const updateRecordQuery = `UPDATE generation_records SET
	current_generation = :current_generation,
	cumulative_generation = :cumulative_generation,
	unit_value = :unit_value,
	tariff_difference = :tariff_difference,
	total_value = :total_value,
	current_savings = :current_savings,
	cumulative_savings = :cumulative_savings,
	current_environmental_savings = :current_environmental_savings,
	cumulative_environmental_savings = :cumulative_environmental_savings,
	operator_tariff_id = :operator_tariff_id,
	updated_at = NOW()
WHERE id = :id`

func (r *generationRepo) Update(ctx context.Context, rec *domain.GenerationRecord) error {
	res, err := r.db.NamedExecContext(ctx, updateRecordQuery, rec)
	if err != nil {
		return fmt.Errorf("generationRepo.Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("generationRepo.Update rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *generationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRecord, error) {
	var rec domain.GenerationRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM generation_records WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("generationRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *generationRepo) GetByPeriod(ctx context.Context, plantID string, year, month int) (*domain.GenerationRecord, error) {
	var rec domain.GenerationRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM generation_records WHERE plant_id = $1 AND year = $2 AND month = $3",
		plantID, year, month)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("generationRepo.GetByPeriod: %w", err)
	}
	return &rec, nil
}
