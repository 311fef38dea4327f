package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/api/render"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
)

// Dashboard handles GET /dashboard. The route is wrapped by RequireAuth.
func (h *PagesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.LoggerFromContext(ctx)

	var data render.DashboardData
	info, ok := h.Accounts.UserInfo(ctx, middleware.ProfileID(ctx))
	if ok {
		data.Info = info
		data.HasInfo = true
		if len(info.RegisteredEvents) > 0 {
			events, err := h.Catalog.Load(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("load catalog for dashboard")
				data.LoadError = msgLoadDashboardEvents
			} else {
				data.Events, data.Stale = catalog.ForUser(events, info.RegisteredEvents)
				if len(data.Stale) > 0 {
					logger.Warn().Ints64("event_ids", data.Stale).Msg("registered events missing from catalog")
				}
			}
		}
	}

	h.render(w, r, http.StatusOK, render.PageDashboard, h.page(r, "Dashboard", "dashboard", data))
}
