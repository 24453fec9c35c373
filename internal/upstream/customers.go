package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

type customerResponse struct {
	Id         int    `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	NationalId string `json:"nationalId"`
	Email      string `json:"email"`
}

func (c *Client) GetByNationalID(ctx context.Context, token, nationalID string) (*domain.Customer, error) {
	var resp customerResponse

	path := "/customers/by-national-id/" + url.PathEscape(nationalID)

	err := c.do(ctx, http.MethodGet, path, token, nil, &resp)
	if err != nil {
		return nil, err
	}

	return &domain.Customer{
		ID:         resp.Id,
		FirstName:  resp.FirstName,
		LastName:   resp.LastName,
		NationalID: resp.NationalId,
		Email:      resp.Email,
	}, nil
}
