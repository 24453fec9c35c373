package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/shopspring/decimal"
)

type tripDetailResponse struct {
	Id                  int             `json:"id"`
	Origin              string          `json:"origin"`
	Destination         string          `json:"destination"`
	Departure           time.Time       `json:"departure"`
	Price               decimal.Decimal `json:"price"`
	BusCapacity         int             `json:"busCapacity"`
	OccupiedSeatNumbers []int           `json:"occupiedSeatNumbers"`
}

func (c *Client) GetTripDetail(ctx context.Context, token string, tripID int) (*domain.Trip, error) {
	var resp tripDetailResponse

	path := fmt.Sprintf("/trips/%d/detail-with-seats", tripID)

	err := c.do(ctx, http.MethodGet, path, token, nil, &resp)
	if err != nil {
		return nil, err
	}

	if resp.BusCapacity < 1 {
		return nil, fmt.Errorf("trip %d has invalid bus capacity %d", tripID, resp.BusCapacity)
	}

	return &domain.Trip{
		ID:            resp.Id,
		Origin:        resp.Origin,
		Destination:   resp.Destination,
		Departure:     resp.Departure,
		Price:         resp.Price,
		Capacity:      resp.BusCapacity,
		OccupiedSeats: resp.OccupiedSeatNumbers,
	}, nil
}

func (c *Client) GetOccupiedSeats(ctx context.Context, token string, tripID int) ([]int, error) {
	var seats []int

	path := fmt.Sprintf("/trips/%d/occupied-seats", tripID)

	err := c.do(ctx, http.MethodGet, path, token, nil, &seats)
	if err != nil {
		return nil, err
	}

	return seats, nil
}
