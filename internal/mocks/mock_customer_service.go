package mocks

import (
	"context"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

type MockCustomerService struct {
	GetByNationalIDFunc func(ctx context.Context, token, nationalID string) (*domain.Customer, error)
}

func (m *MockCustomerService) GetByNationalID(ctx context.Context, token, nationalID string) (*domain.Customer, error) {
	return m.GetByNationalIDFunc(ctx, token, nationalID)
}
