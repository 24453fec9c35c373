package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mvillagran/bus-ticketing-gateway/api"
	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

func (app *Application) GetTripSeatMap(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token := app.contextGetToken(r)

	trip, err := app.trips.GetTripDetail(r.Context(), token, tripID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Warn("seat map requested for unknown trip", "trip_id", tripID)
		}

		app.handleUpstreamError(w, r, err)
		return
	}

	// The occupied set is re-read on every render so the map tracks sales
	// made by other buyers; the checkout snapshot itself stays pinned.
	selected := 0

	checkout, err := app.loadCheckout(r.Context())
	if err == nil && checkout.Trip.ID == tripID {
		selected = checkout.SelectedSeat
	} else if err != nil && !errors.Is(err, domain.ErrCheckoutNotFound) {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		TripId:      trip.ID,
		Origin:      trip.Origin,
		Destination: trip.Destination,
		Departure:   trip.Departure,
		Price:       trip.Price,
		Capacity:    trip.Capacity,
		Seats:       toApiSeats(domain.BuildSeatMap(trip.Capacity, trip.OccupiedSeats, selected)),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetTripOccupiedSeats serves the occupied set alone, so the seat map can be
// polled without refetching the whole trip.
func (app *Application) GetTripOccupiedSeats(w http.ResponseWriter, r *http.Request) {
	tripID, err := tripIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, err := app.trips.GetOccupiedSeats(r.Context(), app.contextGetToken(r), tripID)
	if err != nil {
		app.handleUpstreamError(w, r, err)
		return
	}

	if seats == nil {
		seats = []int{}
	}

	resp := api.OccupiedSeatsResponse{
		TripId:              tripID,
		OccupiedSeatNumbers: seats,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	apiSeats := make([]api.Seat, len(seats))

	for i, v := range seats {
		apiSeats[i] = api.Seat{
			Number: v.Number,
			Status: string(v.Status),
		}
	}

	return apiSeats
}

func tripIDParam(r *http.Request) (int, error) {
	tripID, err := strconv.Atoi(chi.URLParam(r, "tripId"))
	if err != nil || tripID < 1 {
		return 0, fmt.Errorf("trip ID must be a positive integer")
	}

	return tripID, nil
}
