package cmd

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestEventsValidate(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)

	out, err := runCommand(t, "events", "validate", "--source", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "2 events OK (2 categories)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestEventsValidateReportsProblems(t *testing.T) {
	path := writeCatalog(t, `[
  {"id": 1, "title": "Hack Night", "category": "Tech"},
  {"id": 1, "title": "", "category": "Music"}
]`)

	out, err := runCommand(t, "events", "validate", "--source", path)
	if !errors.Is(err, errCatalogProblems) {
		t.Fatalf("expected errCatalogProblems, got %v", err)
	}
	for _, want := range []string{"duplicate id", "missing title"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEventsValidateUnreadableCatalog(t *testing.T) {
	if _, err := runCommand(t, "events", "validate", "--source", "/does/not/exist.json"); err == nil {
		t.Error("expected error for missing catalog")
	}
}

func TestEventsList(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)

	out, err := runCommand(t, "events", "list", "--source", path)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"ID", "Hack Night", "March 14, 2026", "Jazz on the Lawn"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
