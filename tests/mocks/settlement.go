package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/models"
	"github.com/stretchr/testify/mock"
)

// MockSettlementService is a mock implementation of settlement.Service
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) SettleEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*settlement.Report, error) {
	args := m.Called(ctx, eventID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Report), args.Error(1)
}

func (m *MockSettlementService) VoidEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*settlement.Report, error) {
	args := m.Called(ctx, eventID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Report), args.Error(1)
}

func (m *MockSettlementService) SettleParlays(ctx context.Context, trigger models.SettlementTrigger) (*settlement.Report, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Report), args.Error(1)
}

func (m *MockSettlementService) GetEventSettlements(ctx context.Context, eventID uuid.UUID) ([]settlement.Response, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.Response), args.Error(1)
}

func (m *MockSettlementService) GetReport(ctx context.Context, eventID uuid.UUID) (*settlement.Report, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Report), args.Error(1)
}
