package catalog

import "fmt"

// Problem is a consistency issue found by Check.
type Problem struct {
	Index   int
	EventID int64
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("event[%d] (id %d): %s", p.Index, p.EventID, p.Message)
}

// Check reports catalog records that the pages cannot render sensibly:
// duplicate ids, and missing title or category.
func Check(events []Event) []Problem {
	var problems []Problem
	seen := make(map[int64]int, len(events))
	for i, e := range events {
		if first, dup := seen[e.ID]; dup {
			problems = append(problems, Problem{Index: i, EventID: e.ID, Message: fmt.Sprintf("duplicate id, first used by event[%d]", first)})
		} else {
			seen[e.ID] = i
		}
		if e.Title == "" {
			problems = append(problems, Problem{Index: i, EventID: e.ID, Message: "missing title"})
		}
		if e.Category == "" {
			problems = append(problems, Problem{Index: i, EventID: e.ID, Message: "missing category"})
		}
	}
	return problems
}
