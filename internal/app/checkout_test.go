package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/mvillagran/bus-ticketing-gateway/api"
	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/mvillagran/bus-ticketing-gateway/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func testTrip() *domain.Trip {
	return &domain.Trip{
		ID:            7,
		Origin:        "Asuncion",
		Destination:   "Encarnacion",
		Departure:     time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC),
		Price:         decimal.RequireFromString("750.00"),
		Capacity:      4,
		OccupiedSeats: []int{2},
	}
}

type CheckoutTestSuite struct {
	suite.Suite
	app         *Application
	redisClient *mocks.MockRedisClient
	trips       *mocks.MockTripService
	customers   *mocks.MockCustomerService

	savedCheckout []byte
}

func (s *CheckoutTestSuite) SetupTest() {
	s.redisClient = new(mocks.MockRedisClient)
	s.trips = &mocks.MockTripService{}
	s.customers = &mocks.MockCustomerService{}
	s.savedCheckout = nil

	s.app = newTestApplication(func(a *Application) {
		a.redis = s.redisClient
		a.trips = s.trips
		a.customers = s.customers
		a.config.payment.clientID = "client-abc"
	})
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutTestSuite))
}

// expectSave records every checkout the handler persists so tests can assert
// on the final state. StartCheckout writes with a plain SET; everything else
// goes through the compare-and-set script.
func (s *CheckoutTestSuite) expectSave() {
	s.redisClient.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			s.savedCheckout = args.Get(2).([]byte)
		}).
		Return(redis.NewStatusResult("OK", nil))

	s.redisClient.On("EvalSha", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			scriptArgs := args.Get(3).([]interface{})
			s.savedCheckout = []byte(scriptArgs[1].(string))
		}).
		Return(redis.NewCmdResult(int64(1), nil))
}

func (s *CheckoutTestSuite) expectLoad(checkout *domain.CheckoutSession) {
	s.redisClient.On("Get", mock.Anything, mock.Anything).
		Return(redis.NewStringResult(checkoutJSON(s.T(), checkout), nil))
}

func (s *CheckoutTestSuite) persistedCheckout() *domain.CheckoutSession {
	s.Require().NotNil(s.savedCheckout, "expected the handler to persist the checkout")

	var checkout domain.CheckoutSession
	s.Require().NoError(json.Unmarshal(s.savedCheckout, &checkout))

	return &checkout
}

func (s *CheckoutTestSuite) TestStartCheckout() {
	s.trips.GetTripDetailFunc = func(ctx context.Context, token string, tripID int) (*domain.Trip, error) {
		s.Equal(testToken, token)
		s.Equal(7, tripID)
		return testTrip(), nil
	}

	s.expectSave()

	w, r := executeRequest(s.T(), http.MethodPost, "/trips/7/checkout", nil)
	r = withURLParam(asAuthenticated(s.T(), s.app, r), "tripId", "7")

	s.app.StartCheckout(w, r)

	s.Equal(http.StatusCreated, w.Code)

	var resp api.CheckoutResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

	s.Equal(7, resp.TripId)
	s.Equal(string(domain.AttemptIdle), resp.AttemptState)
	s.Nil(resp.SelectedSeat)
	s.False(resp.CanSubmit)
	s.Len(resp.Seats, 4)
	s.Equal("OCCUPIED", resp.Seats[1].Status)
	s.Equal("client-abc", resp.PaymentClientId)
}

func (s *CheckoutTestSuite) TestStartCheckoutTripNotFound() {
	s.trips.GetTripDetailFunc = func(ctx context.Context, token string, tripID int) (*domain.Trip, error) {
		return nil, domain.ErrRecordNotFound
	}

	w, r := executeRequest(s.T(), http.MethodPost, "/trips/99/checkout", nil)
	r = withURLParam(asAuthenticated(s.T(), s.app, r), "tripId", "99")

	s.app.StartCheckout(w, r)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CheckoutTestSuite) TestStartCheckoutSessionExpired() {
	s.trips.GetTripDetailFunc = func(ctx context.Context, token string, tripID int) (*domain.Trip, error) {
		return nil, domain.ErrSessionInvalid
	}

	w, r := executeRequest(s.T(), http.MethodPost, "/trips/7/checkout", nil)
	r = withURLParam(asAuthenticated(s.T(), s.app, r), "tripId", "7")

	s.app.StartCheckout(w, r)

	s.Equal(http.StatusUnauthorized, w.Code)
	checkErrorResponse(s.T(), w, http.StatusUnauthorized, "Your session has expired, please sign in again")

	// A rejected bearer token destroys the local session; no retry.
	s.Empty(s.app.sessionManager.GetString(r.Context(), SessionKeyToken.String()))
}

func (s *CheckoutTestSuite) TestSelectSeat() {
	tests := []struct {
		name         string
		seatNumber   int
		alreadyHeld  int
		wantSelected *int
	}{
		{
			name:         "selects a free seat",
			seatNumber:   3,
			wantSelected: ptr(3),
		},
		{
			name:         "selecting an occupied seat changes nothing",
			seatNumber:   2,
			wantSelected: nil,
		},
		{
			name:         "re-selecting toggles the seat off",
			seatNumber:   3,
			alreadyHeld:  3,
			wantSelected: nil,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			checkout := domain.NewCheckoutSession(testTrip())
			checkout.SelectedSeat = tt.alreadyHeld

			s.expectLoad(&checkout)
			s.expectSave()

			w, r := executeRequest(s.T(), http.MethodPost, "/checkout/seats", api.SelectSeatRequest{SeatNumber: tt.seatNumber})
			r = asAuthenticated(s.T(), s.app, r)

			s.app.SelectSeat(w, r)

			s.Equal(http.StatusOK, w.Code)

			var resp api.CheckoutResponse
			s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

			if tt.wantSelected == nil {
				s.Nil(resp.SelectedSeat)
			} else {
				s.Require().NotNil(resp.SelectedSeat)
				s.Equal(*tt.wantSelected, *resp.SelectedSeat)
			}

			persisted := s.persistedCheckout()
			if tt.wantSelected == nil {
				s.Equal(0, persisted.SelectedSeat)
			} else {
				s.Equal(*tt.wantSelected, persisted.SelectedSeat)
			}
		})
	}
}

func (s *CheckoutTestSuite) TestSelectSeatConcurrentUpdate() {
	checkout := domain.NewCheckoutSession(testTrip())

	s.expectLoad(&checkout)

	// The stored checkout moved on after this request loaded it.
	s.redisClient.On("EvalSha", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(redis.NewCmdResult(int64(0), nil))

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout/seats", api.SelectSeatRequest{SeatNumber: 3})
	r = asAuthenticated(s.T(), s.app, r)

	s.app.SelectSeat(w, r)

	s.Equal(http.StatusConflict, w.Code)
	checkErrorResponse(s.T(), w, http.StatusConflict, domain.ErrCheckoutModified.Error())
}

func (s *CheckoutTestSuite) TestSelectSeatWithoutCheckout() {
	s.redisClient.On("Get", mock.Anything, mock.Anything).
		Return(redis.NewStringResult("", redis.Nil))

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout/seats", api.SelectSeatRequest{SeatNumber: 3})
	r = asAuthenticated(s.T(), s.app, r)

	s.app.SelectSeat(w, r)

	s.Equal(http.StatusNotFound, w.Code)
	checkErrorResponse(s.T(), w, http.StatusNotFound, domain.ErrCheckoutNotFound.Error())
}

func (s *CheckoutTestSuite) TestResolvePayerSelf() {
	checkout := domain.NewCheckoutSession(testTrip())
	checkout.SelectedSeat = 3

	s.expectLoad(&checkout)
	s.expectSave()

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout/payer", api.ResolvePayerRequest{})
	r = asAuthenticated(s.T(), s.app, r)

	s.app.ResolvePayer(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.CheckoutResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

	s.Require().NotNil(resp.Payer)
	s.Equal(testUserID, resp.Payer.CustomerId)
	s.Equal(testUserName, resp.Payer.FullName)
	s.True(resp.CanSubmit)
}

func (s *CheckoutTestSuite) TestResolvePayerByNationalId() {
	s.customers.GetByNationalIDFunc = func(ctx context.Context, token, nationalID string) (*domain.Customer, error) {
		s.Equal("17525340", nationalID)
		return &domain.Customer{ID: 12, FirstName: "Marta", LastName: "Lopez", NationalID: "17525340"}, nil
	}

	checkout := domain.NewCheckoutSession(testTrip())
	checkout.SelectedSeat = 3

	s.expectLoad(&checkout)
	s.expectSave()

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout/payer", api.ResolvePayerRequest{NationalId: ptr("17525340")})
	r = asAuthenticated(s.T(), s.app, r)

	s.app.ResolvePayer(w, r)

	s.Equal(http.StatusOK, w.Code)

	persisted := s.persistedCheckout()
	s.Require().NotNil(persisted.Payer)
	s.Equal(12, persisted.Payer.CustomerID)
	s.Equal("Marta Lopez", persisted.Payer.FullName)
	s.True(persisted.CanSubmit())
}

func (s *CheckoutTestSuite) TestResolvePayerNotFound() {
	s.customers.GetByNationalIDFunc = func(ctx context.Context, token, nationalID string) (*domain.Customer, error) {
		return nil, domain.ErrRecordNotFound
	}

	checkout := domain.NewCheckoutSession(testTrip())
	checkout.SelectedSeat = 3
	checkout.Payer = &domain.Payer{CustomerID: 5, FullName: "Previous Payer"}

	s.expectLoad(&checkout)

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout/payer", api.ResolvePayerRequest{NationalId: ptr("99999999")})
	r = asAuthenticated(s.T(), s.app, r)

	s.app.ResolvePayer(w, r)

	s.Equal(http.StatusNotFound, w.Code)

	// A failed lookup must not persist any change to the resolved payer.
	s.Nil(s.savedCheckout)
}

func (s *CheckoutTestSuite) TestResolvePayerRejectedDuringPayment() {
	checkout := domain.NewCheckoutSession(testTrip())
	checkout.SelectedSeat = 3
	checkout.Attempt.BeginOrder()

	s.expectLoad(&checkout)

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout/payer", api.ResolvePayerRequest{})
	r = asAuthenticated(s.T(), s.app, r)

	s.app.ResolvePayer(w, r)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *CheckoutTestSuite) TestResetCheckout() {
	checkout := domain.NewCheckoutSession(testTrip())
	checkout.SelectedSeat = 3
	checkout.Payer = &domain.Payer{CustomerID: testUserID, FullName: testUserName}
	checkout.Attempt.BeginOrder()
	checkout.Attempt.Fail("declined")

	s.expectLoad(&checkout)
	s.expectSave()

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout/reset", nil)
	r = asAuthenticated(s.T(), s.app, r)

	s.app.ResetCheckout(w, r)

	s.Equal(http.StatusOK, w.Code)

	persisted := s.persistedCheckout()
	s.Equal(domain.AttemptIdle, persisted.Attempt.State)
	s.Equal(3, persisted.SelectedSeat)
	s.True(persisted.CanSubmit())
}

func (s *CheckoutTestSuite) TestResetCheckoutRejectedMidAttempt() {
	checkout := domain.NewCheckoutSession(testTrip())
	checkout.SelectedSeat = 3
	checkout.Attempt.BeginOrder()

	s.expectLoad(&checkout)

	w, r := executeRequest(s.T(), http.MethodPost, "/checkout/reset", nil)
	r = asAuthenticated(s.T(), s.app, r)

	s.app.ResetCheckout(w, r)

	s.Equal(http.StatusConflict, w.Code)
	checkErrorResponse(s.T(), w, http.StatusConflict, "only a finished payment attempt can be reset")
}

func (s *CheckoutTestSuite) TestGetTripSeatMap() {
	s.trips.GetTripDetailFunc = func(ctx context.Context, token string, tripID int) (*domain.Trip, error) {
		return testTrip(), nil
	}

	checkout := domain.NewCheckoutSession(testTrip())
	checkout.SelectedSeat = 3
	s.expectLoad(&checkout)

	w, r := executeRequest(s.T(), http.MethodGet, "/trips/7/seat-map", nil)
	r = withURLParam(asAuthenticated(s.T(), s.app, r), "tripId", "7")

	s.app.GetTripSeatMap(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.SeatMapResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

	s.Equal(4, resp.Capacity)
	s.Require().Len(resp.Seats, 4)

	wantStatuses := []string{"FREE", "OCCUPIED", "SELECTED", "FREE"}
	for i, seat := range resp.Seats {
		s.Equal(i+1, seat.Number)
		s.Equal(wantStatuses[i], seat.Status, fmt.Sprintf("seat %d", i+1))
	}
}

func (s *CheckoutTestSuite) TestGetTripOccupiedSeats() {
	s.trips.GetOccupiedSeatsFunc = func(ctx context.Context, token string, tripID int) ([]int, error) {
		s.Equal(7, tripID)

		return []int{2, 4}, nil
	}

	w, r := executeRequest(s.T(), http.MethodGet, "/trips/7/occupied-seats", nil)
	r = withURLParam(asAuthenticated(s.T(), s.app, r), "tripId", "7")

	s.app.GetTripOccupiedSeats(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.OccupiedSeatsResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

	s.Equal(7, resp.TripId)
	s.Equal([]int{2, 4}, resp.OccupiedSeatNumbers)
}
