package mocks

import (
	"context"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReconciliationRepo struct {
	mock.Mock
	domain.ReconciliationRepository
}

func (m *MockReconciliationRepo) Record(ctx context.Context, entry *domain.ReconciliationEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockReconciliationRepo) GetByPaymentReference(
	ctx context.Context,
	paymentReferenceID string) (*domain.ReconciliationEntry, error) {

	args := m.Called(ctx, paymentReferenceID)
	return args.Get(0).(*domain.ReconciliationEntry), args.Error(1)
}
