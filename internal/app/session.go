package app

import (
	"log/slog"
	"net/http"
)

type sessionKey string

const (
	SessionKeyUserId   = sessionKey("userID")
	SessionKeyUserName = sessionKey("userName")
	SessionKeyRole     = sessionKey("userRole")
	SessionKeyToken    = sessionKey("apiToken")
)

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const loggerContextKey = contextKey("logger")

func (app *Application) contextGetUserId(r *http.Request) int {
	userId, ok := r.Context().Value(SessionKeyUserId).(int)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}

func (app *Application) contextGetUserName(r *http.Request) string {
	name, ok := r.Context().Value(SessionKeyUserName).(string)
	if !ok {
		panic("missing user name from context")
	}

	return name
}

// contextGetToken returns the platform API bearer token bound to the session.
func (app *Application) contextGetToken(r *http.Request) string {
	token, ok := r.Context().Value(SessionKeyToken).(string)
	if !ok {
		panic("missing api token from context")
	}

	return token
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}
