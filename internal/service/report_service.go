package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"heliogen/internal/domain"
	"heliogen/internal/port"
)

// PendingStatus marks a report key whose period has not been aggregated yet.
const PendingStatus = "not computed - pending upstream special-billing step"

// ReportService projects aggregated periods into formatted report rows.
type ReportService interface {
	// Project resolves each key to a formatted snapshot or a pending
	// marker. It is best-effort: a failure on one key never aborts the
	// remaining keys, and no error is returned to the caller.
	Project(ctx context.Context, keys []domain.ReportKey) []domain.ReportRow
}

type reportService struct {
	repo   port.GenerationRepository
	plants port.PlantRegistry
}

// NewReportService creates a new ReportService implementation.
func NewReportService(repo port.GenerationRepository, plants port.PlantRegistry) ReportService {
	return &reportService{repo: repo, plants: plants}
}

func (s *reportService) Project(ctx context.Context, keys []domain.ReportKey) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, s.projectOne(ctx, key))
	}
	return rows
}

func (s *reportService) projectOne(ctx context.Context, key domain.ReportKey) domain.ReportRow {
	row := domain.ReportRow{
		PlantID: key.PlantID,
		Year:    key.Year,
		Month:   key.Month,
	}

	rec, err := s.repo.GetByPeriod(ctx, key.PlantID, key.Year, key.Month)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			row.Pending = true
			row.Status = PendingStatus
			return row
		}
		log.Printf("report: lookup for plant %s (%d-%02d) failed: %v", key.PlantID, key.Year, key.Month, err)
		row.Status = fmt.Sprintf("lookup failed: %v", err)
		return row
	}

	// A failed name resolution degrades this one row, never the projection.
	name, err := s.plants.PlantNameByID(ctx, key.PlantID)
	if err != nil {
		log.Printf("report: plant name for %s not resolved: %v", key.PlantID, err)
	}

	row.PlantName = name
	row.RecordID = rec.ID
	row.CurrentGeneration = format2(rec.CurrentGeneration)
	row.CumulativeGeneration = format2(rec.CumulativeGeneration)
	row.UnitValue = format2(rec.UnitValue)
	row.TotalValue = format2(rec.TotalValue)
	row.TariffDifference = format2(rec.TariffDifference)
	row.CurrentSavings = format2(rec.CurrentSavings)
	row.CumulativeSavings = format2(rec.CumulativeSavings)
	row.CurrentEnvironmentalSavings = format2(rec.CurrentEnvironmentalSavings)
	row.CumulativeEnvironmentalSavings = format2(rec.CumulativeEnvironmentalSavings)
	return row
}

func format2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
