package upstream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type registerRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	NationalId string `json:"nationalId"`
	Password   string `json:"password"`
}

type userResponse struct {
	Id         int       `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	NationalId string    `json:"nationalId"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	req := loginRequest{Email: email, Password: password}

	var resp loginResponse

	err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp)
	if err != nil {
		// The login endpoint answers 401 for bad credentials, not for a
		// stale session; keep the two apart.
		if errors.Is(err, domain.ErrSessionInvalid) {
			return nil, domain.ErrInvalidCredentials
		}

		return nil, err
	}

	user := toUser(resp.User)

	return &domain.Credentials{Token: resp.Token, User: user}, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	req := registerRequest{
		FirstName:  reg.FirstName,
		LastName:   reg.LastName,
		Email:      reg.Email,
		NationalId: reg.NationalID,
		Password:   reg.Password,
	}

	var resp userResponse

	err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &resp)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrUserAlreadyExists
		}

		return nil, err
	}

	user := toUser(resp)

	return &user, nil
}

func toUser(resp userResponse) domain.User {
	return domain.User{
		ID:         resp.Id,
		FirstName:  resp.FirstName,
		LastName:   resp.LastName,
		Email:      resp.Email,
		NationalID: resp.NationalId,
		Role:       domain.Role(resp.Role),
		CreatedAt:  resp.CreatedAt,
	}
}
