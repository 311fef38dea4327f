package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/api/render"
	"github.com/Togather-Foundation/campus-events/internal/audit"
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/internal/domain/registrations"
)

// Events handles GET /events?category=.
func (h *PagesHandler) Events(w http.ResponseWriter, r *http.Request) {
	h.renderEvents(w, r, http.StatusOK, nil, "")
}

// RegisterForEvent handles POST /events/{id}/register.
func (h *PagesHandler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFromContext(r.Context())

	eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.renderEvents(w, r, http.StatusNotFound, &render.Flash{Kind: "error", Message: msgEventNotFound}, "")
		return
	}

	profileID := middleware.ProfileID(r.Context())
	event, err := h.Registrations.Register(r.Context(), profileID, eventID)
	switch {
	case err == nil:
		audit.FromContext(r.Context()).LogFromRequest(r, audit.ActionEventRegister, profileID, "", "success",
			map[string]string{"event_id": strconv.FormatInt(eventID, 10)})
		flash := &render.Flash{Kind: "success", Message: fmt.Sprintf("Successfully registered for %s! (Mock Registration)", event.Title)}
		h.renderEvents(w, r, http.StatusOK, flash, render.RefreshTo(registrationRedirectDelay, "/dashboard"))
	case errors.Is(err, catalog.ErrFetch), errors.Is(err, catalog.ErrDecode):
		logger.Warn().Err(err).Msg("load catalog for event registration")
		h.renderEvents(w, r, http.StatusServiceUnavailable, &render.Flash{Kind: "error", Message: msgLoadEvents}, "")
	case errors.Is(err, registrations.ErrEventNotFound):
		h.renderEvents(w, r, http.StatusNotFound, &render.Flash{Kind: "error", Message: msgEventNotFound}, "")
	case errors.Is(err, registrations.ErrAuthRequired):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, accounts.ErrAlreadyRegistered):
		h.renderEvents(w, r, http.StatusConflict, &render.Flash{Kind: "error", Message: msgAlreadyRegistered}, "")
	default:
		logger.Error().Err(err).Int64("event_id", eventID).Msg("event registration failed")
		h.renderEvents(w, r, http.StatusInternalServerError, &render.Flash{Kind: "error", Message: msgSomethingWrong}, "")
	}
}

func (h *PagesHandler) renderEvents(w http.ResponseWriter, r *http.Request, status int, flash *render.Flash, refresh string) {
	active := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	if active == "" {
		active = "all"
	}
	data := render.EventsData{Active: active}

	events, err := h.Catalog.Load(r.Context())
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Warn().Err(err).Msg("load catalog for events page")
		data.LoadError = msgLoadEvents
	} else {
		data.Cards = catalog.Filter(events, active)
		data.Categories = catalog.Categories(events)
	}

	page := h.page(r, "Events", "events", data)
	page.Flash = flash
	page.Refresh = refresh
	h.render(w, r, status, render.PageEvents, page)
}
