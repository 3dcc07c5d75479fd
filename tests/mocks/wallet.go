package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/wallet"
	"github.com/joefazee/sportsbook/models"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockWalletService is a mock implementation of wallet.Service
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) CreateWallet(ctx context.Context, req *wallet.CreateWalletRequest) (*wallet.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Response), args.Error(1)
}

func (m *MockWalletService) GetUserWallets(ctx context.Context, userID uuid.UUID) ([]wallet.Response, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.Response), args.Error(1)
}

func (m *MockWalletService) GetUserLedger(ctx context.Context, userID uuid.UUID, query *wallet.LedgerQuery) (*wallet.LedgerResponse, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.LedgerResponse), args.Error(1)
}

func (m *MockWalletService) Credit(ctx context.Context, tx *gorm.DB, req *wallet.CreditRequest) (*models.Transaction, error) {
	args := m.Called(ctx, tx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}
