package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/stretchr/testify/require"
)

func renderDoc(t *testing.T, name string, page Page) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, name, page))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return rec, doc
}

var sample = []catalog.Event{
	{ID: 1, Title: "Hack Night", Category: "Tech", Date: "2026-03-14", Time: "9:00 AM", Venue: "Lab", Image: "hack.svg"},
	{ID: 2, Title: "Jazz <Live>", Category: "Music", Date: "2026-03-21", Time: "7:00 PM", Venue: "Lawn", Image: "jazz.svg"},
}

func TestRenderHome(t *testing.T) {
	rec, doc := renderDoc(t, PageHome, Page{
		Title: "Home",
		Nav:   "home",
		Data: HomeData{
			Events:        sample,
			FAQ:           FAQ,
			ContactErrors: map[string]string{"email": "Please enter a valid email address"},
		},
	})

	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, 2, doc.Find("#events-gallery .event-card").Length())
	require.Equal(t, "March 14, 2026", strings.TrimSpace(strings.TrimPrefix(doc.Find(".event-date").First().Text(), "📅")))
	require.Equal(t, "/assets/images/hack.svg", doc.Find(".event-card img").First().AttrOr("src", ""))
	require.Equal(t, len(FAQ), doc.Find(".faq-item").Length())
	require.Equal(t, "Please enter a valid email address", doc.Find("#contact-form .error-message").Text())
	require.Equal(t, "Login", strings.TrimSpace(doc.Find("#auth-nav-item").Text()))
	require.True(t, doc.Find(`a.nav-link.active[href="/"]`).Length() == 1)
}

func TestRenderEscapesCatalogText(t *testing.T) {
	rec, doc := renderDoc(t, PageHome, Page{Data: HomeData{Events: sample}})

	require.NotContains(t, rec.Body.String(), "<Live>")
	require.Equal(t, "Jazz <Live>", doc.Find(".event-card h3").Eq(1).Text())
}

func TestRenderEventsFilter(t *testing.T) {
	_, doc := renderDoc(t, PageEvents, Page{
		Data: EventsData{
			Cards:      catalog.Filter(sample, "music"),
			Categories: catalog.Categories(sample),
			Active:     "music",
		},
	})

	cards := doc.Find(".event-card-detailed")
	require.Equal(t, 2, cards.Length())
	require.Equal(t, "tech", cards.Eq(0).AttrOr("data-category", ""))
	_, hidden := cards.Eq(0).Attr("hidden")
	require.True(t, hidden)
	_, hidden = cards.Eq(1).Attr("hidden")
	require.False(t, hidden)
	require.Equal(t, "/events/2/register", cards.Eq(1).Find("form").AttrOr("action", ""))
	require.Equal(t, "music", doc.Find(".filter-btn.active").AttrOr("data-category", ""))
}

func TestRenderDashboard(t *testing.T) {
	_, doc := renderDoc(t, PageDashboard, Page{
		Authenticated: true,
		UserName:      "Ada",
		Data: DashboardData{
			Info:    accounts.UserInfo{Name: "Ada", Email: "ada@campus.edu", RegisteredEvents: []int64{1, 99}},
			HasInfo: true,
			Events:  sample[:1],
			Stale:   []int64{99},
		},
	})

	require.Equal(t, "Ada", doc.Find("#user-name").Text())
	require.Equal(t, 1, doc.Find(".dashboard-event-card").Length())
	require.Equal(t, 1, doc.Find("#stale-events").Length())
	require.Equal(t, "Logout (Ada)", strings.TrimSpace(doc.Find("#auth-nav-item button").Text()))
}

func TestRenderDashboardEmpty(t *testing.T) {
	_, doc := renderDoc(t, PageDashboard, Page{Data: DashboardData{HasInfo: true}})

	require.Contains(t, doc.Find(".no-events-message").Text(), "You haven't registered for any events yet.")
	require.Equal(t, "/events", doc.Find(".no-events-message a").AttrOr("href", ""))
}

func TestRenderRefresh(t *testing.T) {
	_, doc := renderDoc(t, PageLogin, Page{
		Refresh: RefreshTo("1", "/"),
		Data:    LoginData{LoginSuccess: "Login successful! Redirecting..."},
	})

	require.Equal(t, "1; url=/", doc.Find(`meta[http-equiv="refresh"]`).AttrOr("content", ""))
	require.Equal(t, "Login successful! Redirecting...", doc.Find("#login-card .auth-success").Text())
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.Error(t, r.Render(rec, http.StatusOK, "nope", Page{}))
	require.Empty(t, rec.Body.String())
}
