package mocks

import (
	"context"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTicketService struct {
	mock.Mock
	domain.TicketService
}

func (m *MockTicketService) Purchase(ctx context.Context, token string, req domain.PurchaseRequest) (*domain.Ticket, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) GetTicketsOfUser(ctx context.Context, token string, page, pageSize int) ([]domain.Ticket, error) {
	args := m.Called(ctx, token, page, pageSize)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}
