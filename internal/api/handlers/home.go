package handlers

import (
	"errors"
	"net/http"

	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/api/render"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/internal/validation"
)

// Home handles GET /: hero, the first six events, FAQ and the contact form.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, render.HomeData{})
}

// SubmitContact handles POST /contact.
func (h *PagesHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := validation.ContactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}

	_, err := h.Contact.Submit(r.Context(), form.Name, form.Email, form.Message)
	var verrs validation.Errors
	switch {
	case err == nil:
		h.renderHome(w, r, http.StatusOK, render.HomeData{ContactSuccess: msgContactSuccess})
	case errors.As(err, &verrs):
		h.renderHome(w, r, http.StatusBadRequest, render.HomeData{
			Contact:       form,
			ContactErrors: verrs.Map(),
			ContactBanner: msgContactInvalid,
		})
	default:
		middleware.LoggerFromContext(r.Context()).Error().Err(err).Msg("store contact submission")
		h.renderHome(w, r, http.StatusInternalServerError, render.HomeData{
			Contact:       form,
			ContactBanner: msgContactFailed,
		})
	}
}

func (h *PagesHandler) renderHome(w http.ResponseWriter, r *http.Request, status int, data render.HomeData) {
	data.FAQ = render.FAQ
	events, err := h.Catalog.Load(r.Context())
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Warn().Err(err).Msg("load catalog for home page")
		data.LoadError = msgLoadEvents
	} else {
		data.Events = catalog.Home(events)
	}
	h.render(w, r, status, render.PageHome, h.page(r, "Home", "home", data))
}
