package mocks

import (
	"context"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

type MockAuthService struct {
	LoginFunc    func(ctx context.Context, email, password string) (*domain.Credentials, error)
	RegisterFunc func(ctx context.Context, reg domain.Registration) (*domain.User, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	return m.RegisterFunc(ctx, reg)
}
