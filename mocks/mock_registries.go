package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"heliogen/internal/domain"
)

// MockPlantRegistry is a mock implementation of port.PlantRegistry.
type MockPlantRegistry struct {
	mock.Mock
}

func (m *MockPlantRegistry) PlantIDByName(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockPlantRegistry) PlantNameByID(ctx context.Context, plantID string) (string, error) {
	args := m.Called(ctx, plantID)
	return args.String(0), args.Error(1)
}

func (m *MockPlantRegistry) OperatorIDByPlant(ctx context.Context, plantID string) (int64, error) {
	args := m.Called(ctx, plantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlantRegistry) UnitValueByPlant(ctx context.Context, plantID string) (float64, error) {
	args := m.Called(ctx, plantID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPlantRegistry) SpecialBillingEnrolled(ctx context.Context, plantID string) (bool, error) {
	args := m.Called(ctx, plantID)
	return args.Bool(0), args.Error(1)
}

// MockOperatorRegistry is a mock implementation of port.OperatorRegistry.
type MockOperatorRegistry struct {
	mock.Mock
}

func (m *MockOperatorRegistry) TariffByOperatorAndMonth(ctx context.Context, operatorID int64, month int) (*domain.OperatorTariff, error) {
	args := m.Called(ctx, operatorID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperatorTariff), args.Error(1)
}

// MockSpecialBillingRegistry is a mock implementation of port.SpecialBillingRegistry.
type MockSpecialBillingRegistry struct {
	mock.Mock
}

func (m *MockSpecialBillingRegistry) ExportedKWh(ctx context.Context, plantID string, year, month int) (float64, error) {
	args := m.Called(ctx, plantID, year, month)
	return args.Get(0).(float64), args.Error(1)
}
