// Package catalog loads the static events list and projects it for the
// home, events and dashboard pages.
package catalog

import (
	"slices"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// HomeLimit is the number of events shown in the home page gallery.
const HomeLimit = 6

// Event is one catalog record. Records are read-only.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Image       string `json:"image"`
}

// Tag is the lower-cased category used for filtering.
func (e Event) Tag() string {
	return strings.ToLower(e.Category)
}

// Card is an event as rendered on the events page.
type Card struct {
	Event
	Hidden bool
}

// Home returns the gallery events: the first HomeLimit in catalog order.
func Home(events []Event) []Event {
	if len(events) <= HomeLimit {
		return events
	}
	return events[:HomeLimit]
}

// Filter turns every event into a card. With category "all" or "" every
// card is visible; otherwise only cards whose tag matches the lower-cased
// category are.
func Filter(events []Event, category string) []Card {
	want := strings.ToLower(strings.TrimSpace(category))
	cards := make([]Card, 0, len(events))
	for _, e := range events {
		visible := want == "" || want == "all" || e.Tag() == want
		cards = append(cards, Card{Event: e, Hidden: !visible})
	}
	return cards
}

// ForUser returns the events whose id is in ids, in catalog order, and the
// ids that did not match any event.
func ForUser(events []Event, ids []int64) (matched []Event, stale []int64) {
	found := make(map[int64]bool, len(ids))
	for _, e := range events {
		if slices.Contains(ids, e.ID) {
			matched = append(matched, e)
			found[e.ID] = true
		}
	}
	for _, id := range ids {
		if !found[id] {
			stale = append(stale, id)
		}
	}
	return matched, stale
}

// Find returns the event with id.
func Find(events []Event, id int64) (Event, bool) {
	idx := slices.IndexFunc(events, func(e Event) bool { return e.ID == id })
	if idx < 0 {
		return Event{}, false
	}
	return events[idx], true
}

// Categories returns the distinct categories in first-seen order, keyed
// case-insensitively.
func Categories(events []Event) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range events {
		tag := e.Tag()
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, e.Category)
	}
	return out
}

const displayDate = "January 2, 2006"

// FormatDate renders an event date as "March 1, 2024". ISO dates are parsed
// exactly; anything else goes through a lenient parser and, failing that,
// is returned unchanged.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.Format(displayDate)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format(displayDate)
	}
	parsed, err := dateparser.Parse(nil, value)
	if err != nil || parsed.Time.IsZero() {
		return value
	}
	return parsed.Time.Format(displayDate)
}
