package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/api/render"
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/internal/domain/contact"
	"github.com/Togather-Foundation/campus-events/internal/domain/registrations"
)

// Messages shown to visitors. They match the wording of the browser pages.
const (
	msgLoadEvents          = "Unable to load events. Please try again later."
	msgLoadDashboardEvents = "Unable to load events."
	msgInvalidCredentials  = "Invalid email or password"
	msgEmailTaken          = "An account with this email already exists"
	msgLoginSuccess        = "Login successful! Redirecting..."
	msgRegisterSuccess     = "Registration successful! Redirecting..."
	msgEventNotFound       = "Event not found"
	msgAlreadyRegistered   = "You are already registered for this event"
	msgContactSuccess      = "Thank you! Your message has been sent successfully."
	msgContactInvalid      = "Please fix the errors in the form"
	msgContactFailed       = "Sorry, your message could not be sent. Please try again later."
	msgSomethingWrong      = "Something went wrong. Please try again."
)

// Redirect delays carried by the meta refresh after a successful action.
const (
	authRedirectDelay         = "1"
	registrationRedirectDelay = "1.5"
)

// CatalogLoader reads the event catalog. Every call reads the source fresh.
type CatalogLoader interface {
	Load(ctx context.Context) ([]catalog.Event, error)
}

// PagesHandler serves the server-rendered pages. Each request builds its
// own page state; nothing is shared between requests but the store.
type PagesHandler struct {
	Accounts      *accounts.Manager
	Catalog       CatalogLoader
	Registrations *registrations.Service
	Contact       *contact.Service
	Renderer      *render.Renderer
	Env           string
}

func NewPagesHandler(
	accountsManager *accounts.Manager,
	catalogLoader CatalogLoader,
	registrationService *registrations.Service,
	contactService *contact.Service,
	renderer *render.Renderer,
	env string,
) *PagesHandler {
	return &PagesHandler{
		Accounts:      accountsManager,
		Catalog:       catalogLoader,
		Registrations: registrationService,
		Contact:       contactService,
		Renderer:      renderer,
		Env:           env,
	}
}

// page builds the common page frame. The navbar reflects the session as it
// is after the handler's own transition, so it must be called last.
func (h *PagesHandler) page(r *http.Request, title, nav string, data any) render.Page {
	ctx := r.Context()
	profileID := middleware.ProfileID(ctx)
	p := render.Page{
		Title:     title,
		Nav:       nav,
		CSRFField: middleware.CSRFField(r),
		Data:      data,
	}
	if h.Accounts.IsAuthenticated(ctx, profileID) {
		p.Authenticated = true
		p.UserName = "User"
		if session, ok := h.Accounts.CurrentUser(ctx, profileID); ok && session.Name != "" {
			p.UserName = session.Name
		}
	}
	return p
}

func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, page render.Page) {
	if err := h.Renderer.Render(w, status, name, page); err != nil {
		middleware.LoggerFromContext(r.Context()).Error().Err(err).Str("page", name).Msg("render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// parseForm reads a urlencoded body, answering 413 or 400 itself on failure.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

// NotFound renders the 404 page for unmatched paths.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, render.PageError, h.page(r, "Not Found", "", render.ErrorData{
		Heading: "Page not found",
		Message: "The page you are looking for does not exist.",
	}))
}

// CSRFFailure renders the rejection page for posts without a valid token.
func (h *PagesHandler) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	middleware.LoggerFromContext(r.Context()).Warn().
		Err(middleware.CSRFFailureReason(r)).
		Str("path", r.URL.Path).
		Msg("csrf validation failed")
	h.render(w, r, http.StatusForbidden, render.PageError, h.page(r, "Forbidden", "", render.ErrorData{
		Heading: "Your session expired",
		Message: "Please reload the page and try again.",
	}))
}
