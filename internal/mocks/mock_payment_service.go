package mocks

import (
	"context"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
	domain.PaymentService
}

func (m *MockPaymentService) CreateOrder(ctx context.Context, token string, amount decimal.Decimal) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, token, amount)
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentService) CaptureOrder(ctx context.Context, token, orderID string) (*domain.Capture, error) {
	args := m.Called(ctx, token, orderID)
	return args.Get(0).(*domain.Capture), args.Error(1)
}
