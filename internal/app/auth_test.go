package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mvillagran/bus-ticketing-gateway/api"
	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/mvillagran/bus-ticketing-gateway/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		ID:         12,
		FirstName:  "Marta",
		LastName:   "Lopez",
		Email:      "marta@example.com",
		NationalID: "17525340",
		Role:       domain.RoleCustomer,
		CreatedAt:  time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

// withSession loads a fresh scs session into the request context, standing in
// for the LoadAndSave middleware.
func withSession(t *testing.T, app *Application, r *http.Request) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	return r.WithContext(ctx)
}

func TestRegisterUser(t *testing.T) {
	auth := &mocks.MockAuthService{
		RegisterFunc: func(ctx context.Context, reg domain.Registration) (*domain.User, error) {
			assert.Equal(t, "marta@example.com", reg.Email)
			assert.Equal(t, "17525340", reg.NationalID)

			return testUser(), nil
		},
	}

	app := newTestApplication(func(a *Application) { a.auth = auth })

	w, r := executeRequest(t, http.MethodPost, "/users", api.RegisterRequest{
		FirstName:  "Marta",
		LastName:   "Lopez",
		Email:      "marta@example.com",
		NationalId: "17525340",
		Password:   "correct-horse",
	})

	app.RegisterUser(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.UserResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 12, resp.Id)
	assert.Equal(t, "marta@example.com", resp.Email)
}

func TestRegisterUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		request api.RegisterRequest
		wantErr string
	}{
		{
			name: "missing email",
			request: api.RegisterRequest{
				FirstName:  "Marta",
				LastName:   "Lopez",
				NationalId: "17525340",
				Password:   "correct-horse",
			},
			wantErr: "is required",
		},
		{
			name: "malformed national id",
			request: api.RegisterRequest{
				FirstName:  "Marta",
				LastName:   "Lopez",
				Email:      "marta@example.com",
				NationalId: "17-525-340",
				Password:   "correct-horse",
			},
			wantErr: "must be a national id of 6 to 12 digits",
		},
		{
			name: "short password",
			request: api.RegisterRequest{
				FirstName:  "Marta",
				LastName:   "Lopez",
				Email:      "marta@example.com",
				NationalId: "17525340",
				Password:   "short",
			},
			wantErr: "must be at least 8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication()

			w, r := executeRequest(t, http.MethodPost, "/users", tt.request)

			app.RegisterUser(w, r)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			checkErrorResponse(t, w, http.StatusUnprocessableEntity, tt.wantErr)
		})
	}
}

func TestRegisterUserExistingEmail(t *testing.T) {
	auth := &mocks.MockAuthService{
		RegisterFunc: func(ctx context.Context, reg domain.Registration) (*domain.User, error) {
			return nil, domain.ErrUserAlreadyExists
		},
	}

	app := newTestApplication(func(a *Application) { a.auth = auth })

	w, r := executeRequest(t, http.MethodPost, "/users", api.RegisterRequest{
		FirstName:  "Marta",
		LastName:   "Lopez",
		Email:      "marta@example.com",
		NationalId: "17525340",
		Password:   "correct-horse",
	})

	app.RegisterUser(w, r)

	// The response must not reveal that the email is taken.
	require.Equal(t, http.StatusBadRequest, w.Code)
	checkErrorResponse(t, w, http.StatusBadRequest, "invalid input data")
}

func TestCreateSession(t *testing.T) {
	auth := &mocks.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*domain.Credentials, error) {
			assert.Equal(t, "marta@example.com", email)

			return &domain.Credentials{Token: "token-xyz", User: *testUser()}, nil
		},
	}

	app := newTestApplication(func(a *Application) { a.auth = auth })

	w, r := executeRequest(t, http.MethodPost, "/sessions", api.LoginRequest{
		Email:    "marta@example.com",
		Password: "correct-horse",
	})
	r = withSession(t, app, r)

	app.CreateSession(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 12, resp.User.Id)

	assert.Equal(t, "token-xyz", app.sessionManager.GetString(r.Context(), SessionKeyToken.String()))
	assert.Equal(t, 12, app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String()))
	assert.Equal(t, "Marta Lopez", app.sessionManager.GetString(r.Context(), SessionKeyUserName.String()))
}

func TestCreateSessionInvalidCredentials(t *testing.T) {
	auth := &mocks.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*domain.Credentials, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	app := newTestApplication(func(a *Application) { a.auth = auth })

	w, r := executeRequest(t, http.MethodPost, "/sessions", api.LoginRequest{
		Email:    "marta@example.com",
		Password: "wrong",
	})
	r = withSession(t, app, r)

	app.CreateSession(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	checkErrorResponse(t, w, http.StatusUnauthorized, "Invalid email or password")
}

func TestDeleteSession(t *testing.T) {
	app := newTestApplication()

	r := httptest.NewRequest(http.MethodDelete, "/sessions", nil)
	r = asAuthenticated(t, app, r)
	w := httptest.NewRecorder()

	app.DeleteSession(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, app.sessionManager.GetString(r.Context(), SessionKeyToken.String()))
}

func TestGetCurrentUser(t *testing.T) {
	app := newTestApplication()

	r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r = asAuthenticated(t, app, r)
	w := httptest.NewRecorder()

	app.GetCurrentUser(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.CurrentUserResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, testUserID, resp.Id)
	assert.Equal(t, testUserName, resp.FullName)
}
