package port

import (
	"context"

	"github.com/google/uuid"

	"heliogen/internal/domain"
)

// GenerationRepository is the period ledger: one row per (plant, year, month).
type GenerationRepository interface {
	// Create inserts a new record. Returns domain.ErrRecordExists when a
	// record for the same (plant, year, month) is already present; the
	// uniqueness check and the insert are a single atomic operation.
	Create(ctx context.Context, rec *domain.GenerationRecord) error

	// Update overwrites the derived fields of an existing record. The id,
	// plant id, year, and month are never changed.
	Update(ctx context.Context, rec *domain.GenerationRecord) error

	// GetByID returns the record with the given id, or domain.ErrRecordNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRecord, error)

	// GetByPeriod returns the record for (plantID, year, month), or
	// domain.ErrRecordNotFound.
	GetByPeriod(ctx context.Context, plantID string, year, month int) (*domain.GenerationRecord, error)
}
