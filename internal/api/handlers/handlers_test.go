package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/api/render"
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/internal/domain/contact"
	"github.com/Togather-Foundation/campus-events/internal/domain/registrations"
	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/Togather-Foundation/campus-events/internal/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubCatalog serves a fixed list, or fails with err.
type stubCatalog struct {
	mu     sync.Mutex
	events []catalog.Event
	err    error
}

func (s *stubCatalog) Load(context.Context) ([]catalog.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]catalog.Event(nil), s.events...), nil
}

func (s *stubCatalog) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

var testEvents = []catalog.Event{
	{ID: 1, Title: "Hack Night", Description: "Build things", Category: "Tech", Date: "2026-03-14", Time: "9:00 AM", Venue: "Lab", Image: "hack.svg"},
	{ID: 2, Title: "Jazz on the Lawn", Description: "Live jazz", Category: "Music", Date: "2026-03-21", Time: "7:00 PM", Venue: "Lawn", Image: "jazz.svg"},
	{ID: 3, Title: "Career Fair", Description: "Meet recruiters", Category: "Career", Date: "2026-04-02", Time: "10:00 AM", Venue: "Gym", Image: "career.svg"},
}

type testEnv struct {
	pages    *PagesHandler
	api      *APIHandler
	accounts *accounts.Manager
	contact  *contact.Service
	catalog  *stubCatalog
	store    *storage.Adapter
}

func newTestEnv(t *testing.T, events []catalog.Event) *testEnv {
	t.Helper()
	logger := zerolog.Nop()
	store := storage.NewAdapter(memory.New(), "campus", logger)
	manager := accounts.NewManager(store, logger, accounts.WithBcryptCost(bcrypt.MinCost))
	cat := &stubCatalog{events: events}
	contactService := contact.NewService(store, nil, logger)
	renderer, err := render.New()
	require.NoError(t, err)

	return &testEnv{
		pages:    NewPagesHandler(manager, cat, registrations.NewService(cat, manager, logger), contactService, renderer, "test"),
		api:      NewAPIHandler(manager, cat, "test"),
		accounts: manager,
		contact:  contactService,
		catalog:  cat,
		store:    store,
	}
}

func request(method, target, profileID string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithProfileID(req.Context(), profileID))
}

func serve(t *testing.T, handler http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, req)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return rec, doc
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// signUp registers an account for profileID and returns its session.
func (e *testEnv) signUp(t *testing.T, profileID, name, email string) accounts.Session {
	t.Helper()
	session, err := e.accounts.Register(context.Background(), profileID, name, email, "secret123", "secret123")
	require.NoError(t, err)
	return session
}

var errCatalogDown = errors.New("connection refused")
