package domain

import (
	"time"

	"github.com/google/uuid"
)

// EnvironmentalCoefficient converts generated kWh into the equivalent-unit
// environmental offset credited to a plant for the period.
const EnvironmentalCoefficient = 0.504

// GenerationRecord is one aggregated billing period for one plant. The
// (PlantID, Year, Month) triple is unique; a record is created once by the
// aggregation engine and only ever modified by the correction path, which
// recomputes every derived field.
type GenerationRecord struct {
	ID      uuid.UUID `db:"id" json:"id"`
	PlantID string    `db:"plant_id" json:"plant_id"`
	Year    int       `db:"year" json:"year"`
	Month   int       `db:"month" json:"month"`

	CurrentGeneration    float64 `db:"current_generation" json:"current_generation"`
	CumulativeGeneration float64 `db:"cumulative_generation" json:"cumulative_generation"`

	UnitValue        float64 `db:"unit_value" json:"unit_value"`
	TariffDifference float64 `db:"tariff_difference" json:"tariff_difference"`
	TotalValue       float64 `db:"total_value" json:"total_value"`

	CurrentSavings    float64 `db:"current_savings" json:"current_savings"`
	CumulativeSavings float64 `db:"cumulative_savings" json:"cumulative_savings"`

	CurrentEnvironmentalSavings    float64 `db:"current_environmental_savings" json:"current_environmental_savings"`
	CumulativeEnvironmentalSavings float64 `db:"cumulative_environmental_savings" json:"cumulative_environmental_savings"`

	OperatorTariffID int64 `db:"operator_tariff_id" json:"operator_tariff_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Reading is one raw monthly-generation measurement as reported by the
// monitoring platform. PlantName is free text and is resolved to a plant id
// during aggregation.
type Reading struct {
	PlantName   string    `json:"plant_name"`
	BillingDate time.Time `json:"billing_date"`
	Generation  float64   `json:"generation_kwh"`
}

// OperatorTariff is the published tariff of a distribution operator for one
// month, as returned by the operator registry.
type OperatorTariff struct {
	TariffID int64   `json:"tariff_id"`
	Value    float64 `json:"tariff"`
}

// ReportKey identifies one (plant, year, month) period in a report request.
type ReportKey struct {
	PlantID string `json:"plant_id" binding:"required"`
	Year    int    `json:"year" binding:"required"`
	Month   int    `json:"month" binding:"required,min=1,max=12"`
}

// ReportRow is one projected period. When Pending is true no record exists
// yet for the key and only PlantID/Year/Month/Status are meaningful; the
// numeric fields are formatted to two decimal places otherwise.
type ReportRow struct {
	PlantID   string `json:"plant_id"`
	PlantName string `json:"plant_name,omitempty"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Pending   bool   `json:"pending"`
	Status    string `json:"status,omitempty"`

	RecordID                       uuid.UUID `json:"record_id,omitempty"`
	CurrentGeneration              string    `json:"current_generation,omitempty"`
	CumulativeGeneration           string    `json:"cumulative_generation,omitempty"`
	UnitValue                      string    `json:"unit_value,omitempty"`
	TotalValue                     string    `json:"total_value,omitempty"`
	TariffDifference               string    `json:"tariff_difference,omitempty"`
	CurrentSavings                 string    `json:"current_savings,omitempty"`
	CumulativeSavings              string    `json:"cumulative_savings,omitempty"`
	CurrentEnvironmentalSavings    string    `json:"current_environmental_savings,omitempty"`
	CumulativeEnvironmentalSavings string    `json:"cumulative_environmental_savings,omitempty"`
}

// ItemOutcomeStatus classifies the result of one batch item.
type ItemOutcomeStatus string

const (
	ItemProcessed ItemOutcomeStatus = "processed"
	ItemSkipped   ItemOutcomeStatus = "skipped"
	ItemFailed    ItemOutcomeStatus = "failed"
)

// ItemOutcome reports what happened to a single reading within a batch.
type ItemOutcome struct {
	PlantName string            `json:"plant_name"`
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	Status    ItemOutcomeStatus `json:"status"`
	Reason    string            `json:"reason,omitempty"`
	RecordID  uuid.UUID         `json:"record_id,omitempty"`
}

// BatchOutcome is the acknowledgment returned for a batch submission.
type BatchOutcome struct {
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Items     []ItemOutcome `json:"items"`
}
