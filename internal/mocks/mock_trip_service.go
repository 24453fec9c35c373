package mocks

import (
	"context"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

type MockTripService struct {
	GetTripDetailFunc    func(ctx context.Context, token string, tripID int) (*domain.Trip, error)
	GetOccupiedSeatsFunc func(ctx context.Context, token string, tripID int) ([]int, error)
}

func (m *MockTripService) GetTripDetail(ctx context.Context, token string, tripID int) (*domain.Trip, error) {
	return m.GetTripDetailFunc(ctx, token, tripID)
}

func (m *MockTripService) GetOccupiedSeats(ctx context.Context, token string, tripID int) ([]int, error) {
	return m.GetOccupiedSeatsFunc(ctx, token, tripID)
}
