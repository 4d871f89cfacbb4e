package port

import (
	"context"

	"heliogen/internal/domain"
)

// PlantRegistry resolves plant master data from the integration service.
// Lookups that find nothing return domain.ErrNotFound.
type PlantRegistry interface {
	PlantIDByName(ctx context.Context, name string) (string, error)
	PlantNameByID(ctx context.Context, plantID string) (string, error)
	OperatorIDByPlant(ctx context.Context, plantID string) (int64, error)
	UnitValueByPlant(ctx context.Context, plantID string) (float64, error)
	// SpecialBillingEnrolled reports whether the plant bills on exported
	// surplus rather than raw generation.
	SpecialBillingEnrolled(ctx context.Context, plantID string) (bool, error)
}

// OperatorRegistry resolves published distribution-operator tariffs.
type OperatorRegistry interface {
	TariffByOperatorAndMonth(ctx context.Context, operatorID int64, month int) (*domain.OperatorTariff, error)
}

// SpecialBillingRegistry resolves externally-tracked export quantities for
// plants enrolled in special billing.
type SpecialBillingRegistry interface {
	ExportedKWh(ctx context.Context, plantID string, year, month int) (float64, error)
}
