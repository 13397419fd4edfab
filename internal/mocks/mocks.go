// Package mocks testify mocks of the external collaborators.
package mocks

import (
	"context"
	"time"

	"lending/core"

	"github.com/stretchr/testify/mock"
)

// MockPriceFeed is a mock implementation of core.PriceFeed
type MockPriceFeed struct {
	mock.Mock
}

func (m *MockPriceFeed) LatestQuote(ctx context.Context, feedID string) (*core.PriceQuote, error) {
	args := m.Called(ctx, feedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.PriceQuote), args.Error(1)
}

// MockOracleService is a mock implementation of core.OracleService
type MockOracleService struct {
	mock.Mock
}

func (m *MockOracleService) GetPrice(ctx context.Context, feedID string, maxStaleness time.Duration) (*core.PriceQuote, error) {
	args := m.Called(ctx, feedID, maxStaleness)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.PriceQuote), args.Error(1)
}

// MockWalletService is a mock implementation of core.WalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) VerifyPayment(ctx context.Context, transfer *core.Transfer) (bool, error) {
	args := m.Called(ctx, transfer)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletService) Transfer(ctx context.Context, transfer *core.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}
