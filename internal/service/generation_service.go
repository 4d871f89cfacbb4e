package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"sync"

	"github.com/google/uuid"

	"heliogen/internal/config"
	"heliogen/internal/domain"
	"heliogen/internal/port"
)

// GenerationService aggregates raw monthly readings into billed periods and
// applies corrections to already-aggregated periods.
type GenerationService interface {
	// Aggregate processes a batch of readings. Per-item failures are
	// reported in the outcome and never abort the batch; only ledger
	// storage errors return a non-nil error.
	Aggregate(ctx context.Context, readings []domain.Reading) (*domain.BatchOutcome, error)

	// Correct replaces the generation value of an existing record and
	// recomputes every derived field in place.
	Correct(ctx context.Context, id uuid.UUID, generation float64) (*domain.GenerationRecord, error)
}

type generationService struct {
	repo      port.GenerationRepository
	plants    port.PlantRegistry
	operators port.OperatorRegistry
	exports   port.SpecialBillingRegistry
	cfg       config.AggregationConfig
}

// NewGenerationService creates a new GenerationService implementation.
func NewGenerationService(
	repo port.GenerationRepository,
	plants port.PlantRegistry,
	operators port.OperatorRegistry,
	exports port.SpecialBillingRegistry,
	cfg config.AggregationConfig,
) GenerationService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &generationService{
		repo:      repo,
		plants:    plants,
		operators: operators,
		exports:   exports,
		cfg:       cfg,
	}
}

func (s *generationService) Aggregate(ctx context.Context, readings []domain.Reading) (*domain.BatchOutcome, error) {
	outcomes := make([]domain.ItemOutcome, len(readings))

	// Cumulative folding for month N reads the ledger row written for
	// month N-1 of the same plant, so items are partitioned by plant:
	// groups run concurrently, items within a group run in input order.
	type indexed struct {
		idx int
		r   domain.Reading
	}
	groups := make(map[string][]indexed)
	var order []string
	for i, r := range readings {
		if _, ok := groups[r.PlantName]; !ok {
			order = append(order, r.PlantName)
		}
		groups[r.PlantName] = append(groups[r.PlantName], indexed{idx: i, r: r})
	}

	gctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup
	var fatalOnce sync.Once
	var fatalErr error

	for _, name := range order {
		items := groups[name]
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{} // acquire
			defer func() { <-sem }()

			for _, it := range items {
				if gctx.Err() != nil {
					return
				}
				out, err := s.processReading(gctx, it.r)
				if err != nil {
					fatalOnce.Do(func() {
						fatalErr = err
						cancel()
					})
					return
				}
				outcomes[it.idx] = out
			}
		}()
	}
	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}
	// A cancelled caller leaves unattempted items with no status; partial
	// totals would misreport them as skips.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &domain.BatchOutcome{Items: outcomes}
	for i := range outcomes {
		switch outcomes[i].Status {
		case domain.ItemProcessed:
			batch.Processed++
		case domain.ItemFailed:
			batch.Failed++
		default:
			batch.Skipped++
		}
	}
	return batch, nil
}

// processReading runs the aggregation pipeline for one reading. The returned
// error is non-nil only for ledger storage failures, which abort the batch.
func (s *generationService) processReading(ctx context.Context, r domain.Reading) (domain.ItemOutcome, error) {
	year := r.BillingDate.Year()
	month := int(r.BillingDate.Month())

	out := domain.ItemOutcome{PlantName: r.PlantName, Year: year, Month: month}

	skip := func(reason string) (domain.ItemOutcome, error) {
		out.Status = domain.ItemSkipped
		out.Reason = reason
		return out, nil
	}
	fail := func(reason string) (domain.ItemOutcome, error) {
		out.Status = domain.ItemFailed
		out.Reason = reason
		return out, nil
	}

	if r.PlantName == "" || r.Generation == 0 {
		return skip("empty plant name or no generation")
	}
	if r.PlantName == s.cfg.SentinelPlantName {
		return skip("non-billable internal site")
	}

	plantID, err := s.plants.PlantIDByName(ctx, r.PlantName)
	if err != nil {
		log.Printf("aggregation: plant %q not resolved: %v", r.PlantName, err)
		if unavailable(err) {
			return skip("plant name not found")
		}
		return fail("plant registry lookup failed")
	}

	// Idempotency: a period that already has a record is never re-billed.
	if _, err := s.repo.GetByPeriod(ctx, plantID, year, month); err == nil {
		return skip("period already aggregated")
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return out, fmt.Errorf("checking existing period: %w", err)
	}

	p, err := s.resolvePricing(ctx, plantID, month)
	if err != nil {
		log.Printf("aggregation: pricing for plant %s (%d-%02d) failed: %v", plantID, year, month, err)
		return fail("pricing resolution failed")
	}

	if p.enrolled {
		exported, err := s.exports.ExportedKWh(ctx, plantID, year, month)
		if err != nil {
			if unavailable(err) {
				log.Printf("aggregation: plant %s enrolled in special billing but export quantity for %d-%02d unavailable, skipping", plantID, year, month)
				return skip("export quantity unavailable")
			}
			log.Printf("aggregation: export lookup for plant %s failed: %v", plantID, err)
			return fail("special-billing registry lookup failed")
		}
		p.exportedTotal = exported
	}

	// Export quantity for the savings computation is looked up separately;
	// when it is unavailable the savings degrade to zero instead of
	// skipping the item. Observed policy, intentionally not unified with
	// the hard requirement above.
	p.exportedSavings = s.exportedForSavings(ctx, plantID, year, month, p.enrolled)

	prior, err := s.priorPeriod(ctx, plantID, year, month)
	if err != nil {
		return out, err
	}

	rec := &domain.GenerationRecord{
		ID:                uuid.New(),
		PlantID:           plantID,
		Year:              year,
		Month:             month,
		CurrentGeneration: r.Generation,
	}
	derive(rec, p, prior)

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrRecordExists) {
			// Lost the race against a concurrent writer for the same period.
			return skip("period already aggregated")
		}
		return out, fmt.Errorf("persisting record: %w", err)
	}

	out.Status = domain.ItemProcessed
	out.RecordID = rec.ID
	return out, nil
}

func (s *generationService) Correct(ctx context.Context, id uuid.UUID, generation float64) (*domain.GenerationRecord, error) {
	if generation <= 0 {
		return nil, domain.ErrInvalidGeneration
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.resolvePricing(ctx, rec.PlantID, rec.Month)
	if err != nil {
		return nil, fmt.Errorf("resolving pricing for correction: %w", err)
	}

	if p.enrolled {
		exported, err := s.exports.ExportedKWh(ctx, rec.PlantID, rec.Year, rec.Month)
		if err != nil {
			// A correction has no next batch to retry in, so the
			// missing export quantity is surfaced instead of skipped.
			if unavailable(err) {
				return nil, domain.ErrExportDataUnavailable
			}
			return nil, fmt.Errorf("export lookup for correction: %w", err)
		}
		p.exportedTotal = exported
	}
	p.exportedSavings = s.exportedForSavings(ctx, rec.PlantID, rec.Year, rec.Month, p.enrolled)

	prior, err := s.priorPeriod(ctx, rec.PlantID, rec.Year, rec.Month)
	if err != nil {
		return nil, err
	}

	rec.CurrentGeneration = generation
	derive(rec, p, prior)

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// pricing holds the per-item facts resolved from the registries. Enrollment
// is resolved exactly once per item and reused by every computation.
type pricing struct {
	unitValue        float64
	tariffID         int64
	tariffDifference float64
	enrolled         bool
	exportedTotal    float64
	exportedSavings  *float64 // nil when unavailable; savings degrade to zero
}

func (s *generationService) resolvePricing(ctx context.Context, plantID string, month int) (pricing, error) {
	var p pricing

	operatorID, err := s.plants.OperatorIDByPlant(ctx, plantID)
	if err != nil {
		return p, fmt.Errorf("resolving operator: %w", err)
	}
	tariff, err := s.operators.TariffByOperatorAndMonth(ctx, operatorID, month)
	if err != nil {
		return p, fmt.Errorf("resolving tariff: %w", err)
	}
	unitValue, err := s.plants.UnitValueByPlant(ctx, plantID)
	if err != nil {
		return p, fmt.Errorf("resolving unit value: %w", err)
	}
	enrolled, err := s.plants.SpecialBillingEnrolled(ctx, plantID)
	if err != nil {
		return p, fmt.Errorf("resolving special-billing enrollment: %w", err)
	}

	p.unitValue = unitValue
	p.tariffID = tariff.TariffID
	p.tariffDifference = tariff.Value - unitValue
	p.enrolled = enrolled
	return p, nil
}

func (s *generationService) exportedForSavings(ctx context.Context, plantID string, year, month int, enrolled bool) *float64 {
	if !enrolled {
		return nil
	}
	exported, err := s.exports.ExportedKWh(ctx, plantID, year, month)
	if err != nil {
		log.Printf("aggregation: export quantity for savings of plant %s (%d-%02d) unavailable, savings set to zero: %v", plantID, year, month, err)
		return nil
	}
	return &exported
}

// priorPeriod returns the record for the period immediately before
// (year, month) of the same plant, or nil when the chain anchors here.
// January chains onto December of the previous year.
func (s *generationService) priorPeriod(ctx context.Context, plantID string, year, month int) (*domain.GenerationRecord, error) {
	prevYear, prevMonth := year, month-1
	if month == 1 {
		prevYear, prevMonth = year-1, 12
	}
	prior, err := s.repo.GetByPeriod(ctx, plantID, prevYear, prevMonth)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading prior period: %w", err)
	}
	return prior, nil
}

// derive computes every derived field of rec from the resolved pricing facts
// and the prior period's cumulatives. Both the aggregation and the correction
// path go through here so the formulas cannot drift apart. Current monetary
// and environmental values are rounded to whole units exactly once; stored
// cumulatives are never re-rounded.
func derive(rec *domain.GenerationRecord, p pricing, prior *domain.GenerationRecord) {
	gen := rec.CurrentGeneration

	rec.UnitValue = p.unitValue
	rec.TariffDifference = p.tariffDifference
	rec.OperatorTariffID = p.tariffID

	if p.enrolled {
		rec.TotalValue = math.Round((gen - p.exportedTotal) * p.unitValue)
	} else {
		rec.TotalValue = math.Round(gen * p.unitValue)
	}

	switch {
	case !p.enrolled:
		rec.CurrentSavings = math.Round(gen * p.tariffDifference)
	case p.exportedSavings != nil:
		rec.CurrentSavings = math.Round((gen - *p.exportedSavings) * p.tariffDifference)
	default:
		rec.CurrentSavings = 0
	}

	rec.CurrentEnvironmentalSavings = math.Round(gen * domain.EnvironmentalCoefficient)

	if prior != nil {
		rec.CumulativeGeneration = prior.CumulativeGeneration + gen
		rec.CumulativeSavings = prior.CumulativeSavings + rec.CurrentSavings
		rec.CumulativeEnvironmentalSavings = prior.CumulativeEnvironmentalSavings + rec.CurrentEnvironmentalSavings
	} else {
		rec.CumulativeGeneration = gen
		rec.CumulativeSavings = rec.CurrentSavings
		rec.CumulativeEnvironmentalSavings = rec.CurrentEnvironmentalSavings
	}
}

// unavailable reports whether a registry error means "value not there",
// including timeouts, as opposed to a malfunctioning collaborator.
func unavailable(err error) bool {
	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrTariffNotFound) ||
		errors.Is(err, domain.ErrExportDataUnavailable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
