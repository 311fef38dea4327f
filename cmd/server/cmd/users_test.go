package cmd

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Togather-Foundation/campus-events/internal/domain/accounts"
	"github.com/Togather-Foundation/campus-events/internal/domain/contact"
	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/Togather-Foundation/campus-events/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// seedSQLite writes one account and one contact message to a new SQLite
// file and returns a config file pointing at it.
func seedSQLite(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "campus.db")
	back, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store := storage.NewAdapter(back, "campus-test", zerolog.Nop())
	ctx := context.Background()

	manager := accounts.NewManager(store, zerolog.Nop(), accounts.WithBcryptCost(bcrypt.MinCost))
	if _, err := manager.Register(ctx, "01HZY8K6Q3W9X2V7M4N5P0R1ST", "Ada Lovelace", "ada@campus.edu", "secret123", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := contact.NewService(store, nil, zerolog.Nop()).Submit(ctx, "Grace Hopper", "grace@campus.edu", "Can my club host an event?"); err != nil {
		t.Fatalf("submit contact: %v", err)
	}
	if err := back.Close(); err != nil {
		t.Fatalf("close sqlite: %v", err)
	}
	return writeConfig(t, "sqlite://"+dbPath, "data/events.json")
}

func TestUsersList(t *testing.T) {
	configPath := seedSQLite(t)

	out, err := runCommand(t, "users", "list", "--config", configPath)
	if err != nil {
		t.Fatalf("users list: %v", err)
	}
	for _, want := range []string{"Ada Lovelace", "ada@campus.edu", "Total: 1 account(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "$2a$") {
		t.Error("password hash leaked into output")
	}
}

func TestUsersListJSON(t *testing.T) {
	configPath := seedSQLite(t)

	out, err := runCommand(t, "users", "list", "--json", "--config", configPath)
	if err != nil {
		t.Fatalf("users list --json: %v", err)
	}
	var users []accounts.Summary
	if err := json.Unmarshal([]byte(out), &users); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(users) != 1 || users[0].Email != "ada@campus.edu" {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestContactList(t *testing.T) {
	configPath := seedSQLite(t)

	out, err := runCommand(t, "contact", "list", "--config", configPath)
	if err != nil {
		t.Fatalf("contact list: %v", err)
	}
	if !strings.Contains(out, "grace@campus.edu") || !strings.Contains(out, "Can my club host an event?") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate long = %q", got)
	}
}
