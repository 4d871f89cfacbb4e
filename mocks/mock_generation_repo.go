package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliogen/internal/domain"
)

// MockGenerationRepo is a mock implementation of port.GenerationRepository.
type MockGenerationRepo struct {
	mock.Mock
}

func (m *MockGenerationRepo) Create(ctx context.Context, rec *domain.GenerationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockGenerationRepo) Update(ctx context.Context, rec *domain.GenerationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockGenerationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationRecord), args.Error(1)
}

func (m *MockGenerationRepo) GetByPeriod(ctx context.Context, plantID string, year, month int) (*domain.GenerationRecord, error) {
	args := m.Called(ctx, plantID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationRecord), args.Error(1)
}
