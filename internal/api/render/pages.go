package render

import (
	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/catalog"
	"github.com/Togather-Foundation/campus-events/internal/validation"
)

// FAQItem is one question on the home page.
type FAQItem struct {
	Question string
	Answer   string
}

// FAQ is the fixed home page FAQ.
var FAQ = []FAQItem{
	{"How do I register for an event?", "Create an account or log in, open the Events page and press Register Now on the event you want to attend."},
	{"Do events cost anything?", "Most campus events are free for students. Any fees are listed in the event description."},
	{"Where can I see the events I registered for?", "Your dashboard lists every event you have registered for."},
	{"Can I cancel a registration?", "Contact the organisers through the form below and they will remove you from the list."},
	{"How do I get my event listed?", "Send us the details using the contact form and the events team will get back to you."},
}

type HomeData struct {
	Events         []catalog.Event
	LoadError      string
	FAQ            []FAQItem
	Contact        validation.ContactForm
	ContactErrors  map[string]string
	ContactBanner  string
	ContactSuccess string
}

type EventsData struct {
	Cards      []catalog.Card
	Categories []string
	Active     string
	LoadError  string
}

type DashboardData struct {
	Info      accounts.UserInfo
	HasInfo   bool
	Events    []catalog.Event
	Stale     []int64
	LoadError string
}

type LoginData struct {
	LoginEmail      string
	LoginError      string
	LoginSuccess    string
	RegisterName    string
	RegisterEmail   string
	RegisterError   string
	RegisterSuccess string
	MismatchError   string
}

type ErrorData struct {
	Heading string
	Message string
}
