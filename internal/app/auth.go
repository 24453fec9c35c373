package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mvillagran/bus-ticketing-gateway/api"
	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

func (app *Application) RegisterUser(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.RegisterRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reg := domain.Registration{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		NationalID: input.NationalId,
		Password:   input.Password,
	}

	user, err := app.auth.Register(r.Context(), reg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			logger.Warn("registration attempt for existing email")
			// do not return the info of existence of email to avoid user enumeration attacks
			app.badRequestResponse(w, r, fmt.Errorf("invalid input data"))
		default:
			logger.Error("failed to register user", "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := toUserResponse(user)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateSession(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.LoginRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	creds, err := app.auth.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			logger.Warn("failed login attempt")
			app.errorResponse(w, r, http.StatusUnauthorized, "Invalid email or password")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	// A fresh session token on login prevents session fixation.
	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), SessionKeyToken.String(), creds.Token)
	app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), creds.User.ID)
	app.sessionManager.Put(r.Context(), SessionKeyUserName.String(), creds.User.FullName())
	app.sessionManager.Put(r.Context(), SessionKeyRole.String(), string(creds.User.Role))

	resp := api.SessionResponse{
		User: toUserResponse(&creds.User),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteSession(w http.ResponseWriter, r *http.Request) {
	err := app.sessionManager.Destroy(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	resp := api.CurrentUserResponse{
		Id:       app.contextGetUserId(r),
		FullName: app.contextGetUserName(r),
		Role:     app.sessionManager.GetString(r.Context(), SessionKeyRole.String()),
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toUserResponse(user *domain.User) api.UserResponse {
	return api.UserResponse{
		Id:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		NationalId: user.NationalID,
		Role:       string(user.Role),
		CreatedAt:  user.CreatedAt,
	}
}
