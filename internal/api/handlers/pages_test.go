package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/internal/validation"
	"github.com/stretchr/testify/require"
)

func manyEvents(n int) []catalog.Event {
	events := make([]catalog.Event, 0, n)
	for i := 1; i <= n; i++ {
		events = append(events, catalog.Event{ID: int64(i), Title: fmt.Sprintf("Event %d", i), Category: "Tech", Date: "2026-03-01"})
	}
	return events
}

func TestHomeShowsFirstSixEvents(t *testing.T) {
	env := newTestEnv(t, manyEvents(8))

	rec, doc := serve(t, env.pages.Home, request(http.MethodGet, "/", "p1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cards := doc.Find("#events-gallery .event-card")
	require.Equal(t, 6, cards.Length())
	require.Equal(t, "Event 1", text(doc, "#events-gallery .event-card h3"))
	require.Equal(t, "Event 6", cards.Last().Find("h3").Text())
	require.Contains(t, doc.Find(".event-date").First().Text(), "March 1, 2026")
	require.Equal(t, "Login", text(doc, "#auth-nav-item"))
}

func TestHomeLoadError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.catalog.fail(catalog.ErrFetch)

	_, doc := serve(t, env.pages.Home, request(http.MethodGet, "/", "p1", nil))
	require.Equal(t, "Unable to load events. Please try again later.", text(doc, "#events-gallery .error-message"))
	// The rest of the page still renders.
	require.Equal(t, 1, doc.Find("#contact-form").Length())
}

func TestSubmitContactValidation(t *testing.T) {
	env := newTestEnv(t, testEvents)

	form := url.Values{"name": {"A"}, "email": {"not-an-email"}, "message": {"short"}}
	rec, doc := serve(t, env.pages.SubmitContact, request(http.MethodPost, "/contact", "p1", form))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Please fix the errors in the form", text(doc, "#contact .auth-error"))
	errs := doc.Find("#contact-form .error-message")
	require.Equal(t, 3, errs.Length())
	require.Equal(t, validation.MsgName, errs.Eq(0).Text())
	require.Equal(t, validation.MsgEmail, errs.Eq(1).Text())
	require.Equal(t, validation.MsgMessage, errs.Eq(2).Text())
	require.Equal(t, "not-an-email", doc.Find("#contact-email").AttrOr("value", ""))

	stored, err := env.contact.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestSubmitContactSuccess(t *testing.T) {
	env := newTestEnv(t, testEvents)

	form := url.Values{"name": {"Grace Hopper"}, "email": {"grace@campus.edu"}, "message": {"Can my club list an event here?"}}
	rec, doc := serve(t, env.pages.SubmitContact, request(http.MethodPost, "/contact", "p1", form))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Thank you! Your message has been sent successfully.", text(doc, "#contact .auth-success"))
	require.Equal(t, "", doc.Find("#contact-name").AttrOr("value", "x"))

	stored, err := env.contact.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "grace@campus.edu", stored[0].Email)
}

func TestDashboardShowsRegisteredAndStaleEvents(t *testing.T) {
	env := newTestEnv(t, testEvents)
	session := env.signUp(t, "p1", "Ada Lovelace", "ada@campus.edu")
	ctx := context.Background()
	require.NoError(t, env.accounts.AddRegistration(ctx, session.Email, 3))
	require.NoError(t, env.accounts.AddRegistration(ctx, session.Email, 42))

	rec, doc := serve(t, env.pages.Dashboard, request(http.MethodGet, "/dashboard", "p1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Ada Lovelace", text(doc, "#user-name"))
	require.Equal(t, "ada@campus.edu", text(doc, "#user-email"))
	require.Equal(t, 1, doc.Find(".dashboard-event-card").Length())
	require.Equal(t, "Career Fair", text(doc, ".dashboard-event-card h3"))
	require.Equal(t, 1, doc.Find("#stale-events").Length())
	require.Equal(t, "Logout (Ada Lovelace)", text(doc, "#auth-nav-item button"))
}

func TestDashboardNoRegistrations(t *testing.T) {
	env := newTestEnv(t, testEvents)
	env.signUp(t, "p1", "Ada Lovelace", "ada@campus.edu")

	_, doc := serve(t, env.pages.Dashboard, request(http.MethodGet, "/dashboard", "p1", nil))
	require.Equal(t, "You haven't registered for any events yet.", text(doc, ".no-events-message p"))
	require.Equal(t, "Browse Events", text(doc, ".no-events-message a"))
}

func TestDashboardCatalogFailure(t *testing.T) {
	env := newTestEnv(t, testEvents)
	session := env.signUp(t, "p1", "Ada Lovelace", "ada@campus.edu")
	require.NoError(t, env.accounts.AddRegistration(context.Background(), session.Email, 1))
	env.catalog.fail(catalog.ErrFetch)

	_, doc := serve(t, env.pages.Dashboard, request(http.MethodGet, "/dashboard", "p1", nil))
	require.Equal(t, "Unable to load events.", text(doc, "#registered-events .error-message"))
}

func TestDashboardWithoutAccountShowsPrompt(t *testing.T) {
	env := newTestEnv(t, testEvents)

	_, doc := serve(t, env.pages.Dashboard, request(http.MethodGet, "/dashboard", "ghost", nil))
	require.Equal(t, "Welcome to Campus Events Portal", text(doc, ".registration-prompt h2"))
}

func TestNotFoundPage(t *testing.T) {
	env := newTestEnv(t, testEvents)

	rec, doc := serve(t, env.pages.NotFound, request(http.MethodGet, "/nope", "p1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Page not found", text(doc, "h1"))
}
