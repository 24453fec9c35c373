package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Trip struct {
	ID            int
	Origin        string
	Destination   string
	Departure     time.Time
	Price         decimal.Decimal
	Capacity      int
	OccupiedSeats []int
}

// Occupied reports whether the seat number is in the trip's occupied set.
func (t *Trip) Occupied(seatNumber int) bool {
	for _, n := range t.OccupiedSeats {
		if n == seatNumber {
			return true
		}
	}

	return false
}

type SeatStatus string

const (
	SeatFree     SeatStatus = "FREE"
	SeatOccupied SeatStatus = "OCCUPIED"
	SeatSelected SeatStatus = "SELECTED"
)

type Seat struct {
	Number int
	Status SeatStatus
}

// BuildSeatMap enumerates seats 1..capacity. A seat reported occupied by the
// backend is never shown as selected, even if the local selection still holds
// it after a stale reload.
func BuildSeatMap(capacity int, occupied []int, selected int) []Seat {
	occupiedSet := make(map[int]bool, len(occupied))
	for _, n := range occupied {
		occupiedSet[n] = true
	}

	seats := make([]Seat, capacity)

	for i := range seats {
		number := i + 1
		status := SeatFree

		switch {
		case occupiedSet[number]:
			status = SeatOccupied
		case number == selected:
			status = SeatSelected
		}

		seats[i] = Seat{Number: number, Status: status}
	}

	return seats
}

type TripService interface {
	GetTripDetail(ctx context.Context, token string, tripID int) (*Trip, error)
	GetOccupiedSeats(ctx context.Context, token string, tripID int) ([]int, error)
}
