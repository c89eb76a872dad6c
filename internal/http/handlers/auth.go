package handlers

import (
	"net/http"
	"time"

	"dreamvisualizer/internal/domain"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !a.decode(w, r, &in) {
		return
	}
	token, _, err := a.Auth.Signup(r.Context(), in.Email, in.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !a.decode(w, r, &in) {
		return
	}
	token, user, err := a.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Events.Log(r.Context(), domain.EventUserLogin, user.ID, "", nil); err != nil {
		a.Logger.Warn().Err(err).Str("user_id", user.ID).Msg("log login event")
	}
	a.json(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	user, err := a.Auth.Me(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, meResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt})
}
