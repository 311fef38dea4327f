package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/api/problem"
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
)

// APIHandler serves the read-only JSON endpoints.
type APIHandler struct {
	Accounts *accounts.Manager
	Catalog  CatalogLoader
	Env      string
}

func NewAPIHandler(accountsManager *accounts.Manager, catalogLoader CatalogLoader, env string) *APIHandler {
	return &APIHandler{Accounts: accountsManager, Catalog: catalogLoader, Env: env}
}

type eventsResponse struct {
	Items []catalog.Event `json:"items"`
	Total int             `json:"total"`
}

// ListEvents handles GET /api/v1/events. An optional category narrows the
// list the same way the events page filter does.
func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Catalog.Load(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusServiceUnavailable, problem.TypeUnavailable, "Catalog unavailable", err, h.Env)
		return
	}

	items := make([]catalog.Event, 0, len(events))
	for _, card := range catalog.Filter(events, r.URL.Query().Get("category")) {
		if !card.Hidden {
			items = append(items, card.Event)
		}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Items: items, Total: len(items)})
}

// GetEvent handles GET /api/v1/events/{id}.
func (h *APIHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeBadRequest, "Invalid event id", err, h.Env,
			problem.WithDetail("event id must be an integer"))
		return
	}

	events, err := h.Catalog.Load(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusServiceUnavailable, problem.TypeUnavailable, "Catalog unavailable", err, h.Env)
		return
	}
	event, ok := catalog.Find(events, id)
	if !ok {
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", problem.ErrNotFound, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

type meResponse struct {
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	RegisteredEvents []int64   `json:"registeredEvents"`
	LoginTime        time.Time `json:"loginTime"`
}

// Me handles GET /api/v1/me: the signed-in user and their registrations.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := middleware.ProfileID(ctx)
	if !h.Accounts.IsAuthenticated(ctx, profileID) {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Not signed in", problem.ErrUnauthorized, h.Env)
		return
	}
	session, _ := h.Accounts.CurrentUser(ctx, profileID)
	info, ok := h.Accounts.UserInfo(ctx, profileID)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Not signed in", errors.New("session has no account"), h.Env)
		return
	}

	registered := info.RegisteredEvents
	if registered == nil {
		registered = []int64{}
	}
	writeJSON(w, http.StatusOK, meResponse{
		Name:             info.Name,
		Email:            info.Email,
		RegisteredEvents: registered,
		LoginTime:        session.LoginTime,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
