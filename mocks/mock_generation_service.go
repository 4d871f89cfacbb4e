package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliogen/internal/domain"
)

// MockGenerationService is a mock implementation of service.GenerationService.
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Aggregate(ctx context.Context, readings []domain.Reading) (*domain.BatchOutcome, error) {
	args := m.Called(ctx, readings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOutcome), args.Error(1)
}

func (m *MockGenerationService) Correct(ctx context.Context, id uuid.UUID, generation float64) (*domain.GenerationRecord, error) {
	args := m.Called(ctx, id, generation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationRecord), args.Error(1)
}

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Project(ctx context.Context, keys []domain.ReportKey) []domain.ReportRow {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.ReportRow)
}
