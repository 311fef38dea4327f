package handlers

import (
	"errors"
	"net/http"

	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/api/render"
	"github.com/Togather-Foundation/campus-events/internal/audit"
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/validation"
)

// LoginPage handles GET /login. The route is wrapped by GuestOnly.
func (h *PagesHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, render.LoginData{}, "")
}

// Login handles POST /login.
func (h *PagesHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	email := r.PostFormValue("email")
	data := render.LoginData{LoginEmail: email}

	profileID := middleware.ProfileID(r.Context())
	_, err := h.Accounts.Login(r.Context(), profileID, email, r.PostFormValue("password"))
	var verrs validation.Errors
	switch {
	case err == nil:
		audit.FromContext(r.Context()).LogFromRequest(r, audit.ActionLogin, profileID, email, "success", nil)
		data.LoginSuccess = msgLoginSuccess
		h.renderLogin(w, r, http.StatusOK, data, render.RefreshTo(authRedirectDelay, "/"))
	case errors.As(err, &verrs):
		data.LoginError = verrs.Banner()
		h.renderLogin(w, r, http.StatusBadRequest, data, "")
	case errors.Is(err, accounts.ErrInvalidCredentials):
		audit.FromContext(r.Context()).LogFromRequest(r, audit.ActionLogin, profileID, email, "failure",
			map[string]string{"reason": "invalid_credentials"})
		data.LoginError = msgInvalidCredentials
		h.renderLogin(w, r, http.StatusUnauthorized, data, "")
	default:
		middleware.LoggerFromContext(r.Context()).Error().Err(err).Msg("login failed")
		data.LoginError = msgSomethingWrong
		h.renderLogin(w, r, http.StatusInternalServerError, data, "")
	}
}

// Register handles POST /register.
func (h *PagesHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	data := render.LoginData{RegisterName: name, RegisterEmail: email}

	profileID := middleware.ProfileID(r.Context())
	session, err := h.Accounts.Register(r.Context(), profileID,
		name, email, r.PostFormValue("password"), r.PostFormValue("confirm_password"))
	var verrs validation.Errors
	switch {
	case err == nil:
		audit.FromContext(r.Context()).LogFromRequest(r, audit.ActionRegister, profileID, session.Email, "success", nil)
		data.RegisterSuccess = msgRegisterSuccess
		h.renderLogin(w, r, http.StatusOK, data, render.RefreshTo(authRedirectDelay, "/"))
	case errors.As(err, &verrs):
		data.RegisterError = verrs.Banner()
		if msg := verrs.For("confirm_password"); msg == validation.MsgMismatch {
			data.MismatchError = msg
		}
		h.renderLogin(w, r, http.StatusBadRequest, data, "")
	case errors.Is(err, accounts.ErrEmailTaken):
		audit.FromContext(r.Context()).LogFromRequest(r, audit.ActionRegister, profileID, email, "failure",
			map[string]string{"reason": "email_taken"})
		data.RegisterError = msgEmailTaken
		h.renderLogin(w, r, http.StatusConflict, data, "")
	default:
		middleware.LoggerFromContext(r.Context()).Error().Err(err).Msg("registration failed")
		data.RegisterError = msgSomethingWrong
		h.renderLogin(w, r, http.StatusInternalServerError, data, "")
	}
}

// Logout handles POST /logout.
func (h *PagesHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := middleware.ProfileID(ctx)
	if session, ok := h.Accounts.CurrentUser(ctx, profileID); ok {
		audit.FromContext(ctx).LogFromRequest(r, audit.ActionLogout, profileID, session.Email, "success", nil)
	}
	h.Accounts.Logout(ctx, profileID)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *PagesHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data render.LoginData, refresh string) {
	page := h.page(r, "Login", "login", data)
	page.Refresh = refresh
	h.render(w, r, status, render.PageLogin, page)
}
