package accounts

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/metrics"
	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/Togather-Foundation/campus-events/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the cost used when no option overrides it.
const DefaultBcryptCost = 12

// Manager implements login, registration and logout for visitor profiles.
//
// Accounts live under the global users key. Session state lives under the
// profile scope: currentUser holds the Session and isAuthenticated the flag.
// Writes to users are serialized within the process; separate processes
// sharing a backend are last-write-wins.
type Manager struct {
	store  *storage.Adapter
	logger zerolog.Logger
	cost   int
	now    func() time.Time

	mu sync.Mutex

	// compared against when the email is unknown so both paths cost one bcrypt check
	dummyHash []byte
}

// Option configures a Manager.
type Option func(*Manager)

// WithBcryptCost sets the bcrypt cost for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(m *Manager) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			m.cost = cost
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager over the root storage adapter.
func NewManager(store *storage.Adapter, logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: logger.With().Str("component", "accounts").Logger(),
		cost:   DefaultBcryptCost,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("campus-events-dummy"), m.cost)
	return m
}

// Login authenticates email/password and starts a session for profileID.
func (m *Manager) Login(ctx context.Context, profileID, email, password string) (Session, error) {
	form := validation.LoginForm{Email: email, Password: password}
	form.Normalize()
	if err := validation.Struct(form); err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return Session{}, err
	}

	var users []Account
	m.store.Global().Get(ctx, storage.KeyUsers, &users)

	idx := findByEmail(users, form.Email)
	if idx < 0 {
		_ = bcrypt.CompareHashAndPassword(m.dummyHash, []byte(form.Password))
		metrics.AuthAttempts.WithLabelValues("login", "rejected").Inc()
		return Session{}, ErrInvalidCredentials
	}
	account := users[idx]
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(form.Password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "rejected").Inc()
		return Session{}, ErrInvalidCredentials
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return m.startSession(ctx, profileID, account), nil
}

// Register creates an account and starts a session for it.
func (m *Manager) Register(ctx context.Context, profileID, name, email, password, confirmPassword string) (Session, error) {
	form := validation.RegisterForm{Name: name, Email: email, Password: password, ConfirmPassword: confirmPassword}
	form.Normalize()
	if err := validation.Struct(form); err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), m.cost)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := m.insert(ctx, form.Name, form.Email, string(hash))
	if err != nil {
		result := "error"
		if errors.Is(err, ErrEmailTaken) {
			result = "taken"
		}
		metrics.AuthAttempts.WithLabelValues("register", result).Inc()
		return Session{}, err
	}

	m.logger.Info().Int64("account_id", account.ID).Msg("account created")
	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	return m.startSession(ctx, profileID, account), nil
}

func (m *Manager) insert(ctx context.Context, name, email, hash string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users, err := m.loadUsers(ctx)
	if err != nil {
		return Account{}, err
	}
	if findByEmail(users, email) >= 0 {
		return Account{}, ErrEmailTaken
	}

	now := m.now().UTC()
	id := now.UnixMilli()
	for _, u := range users {
		if u.ID >= id {
			id = u.ID + 1
		}
	}
	account := Account{
		ID:               id,
		Name:             name,
		Email:            email,
		PasswordHash:     hash,
		RegisteredEvents: []int64{},
		CreatedAt:        now,
	}
	users = append(users, account)
	if err := m.store.Global().Set(ctx, storage.KeyUsers, users); err != nil {
		return Account{}, fmt.Errorf("save account: %w", err)
	}
	return account, nil
}

// startSession writes the session record and flag. Write failures are logged
// and otherwise ignored; the caller still sees a successful login.
func (m *Manager) startSession(ctx context.Context, profileID string, account Account) Session {
	session := Session{Email: account.Email, Name: account.Name, LoginTime: m.now().UTC()}
	profile := m.store.Profile(profileID)
	if err := profile.Set(ctx, storage.KeyCurrentUser, session); err != nil {
		m.logger.Error().Err(err).Str("profile_id", profileID).Msg("write session record")
	}
	if err := profile.Set(ctx, storage.KeyIsAuthenticated, true); err != nil {
		m.logger.Error().Err(err).Str("profile_id", profileID).Msg("write session flag")
	}
	return session
}

// Logout clears the session for profileID, including the legacy userInfo
// snapshot. It never fails.
func (m *Manager) Logout(ctx context.Context, profileID string) {
	profile := m.store.Profile(profileID)
	for _, key := range []string{storage.KeyCurrentUser, storage.KeyIsAuthenticated, storage.KeyUserInfo} {
		if err := profile.Remove(ctx, key); err != nil {
			m.logger.Warn().Err(err).Str("profile_id", profileID).Str("key", key).Msg("logout remove failed")
		}
	}
	metrics.AuthAttempts.WithLabelValues("logout", "success").Inc()
}

// IsAuthenticated reads the session flag only.
func (m *Manager) IsAuthenticated(ctx context.Context, profileID string) bool {
	var flag bool
	return m.store.Profile(profileID).Get(ctx, storage.KeyIsAuthenticated, &flag) && flag
}

// CurrentUser returns the session record for profileID, if any.
func (m *Manager) CurrentUser(ctx context.Context, profileID string) (Session, bool) {
	var session Session
	if !m.store.Profile(profileID).Get(ctx, storage.KeyCurrentUser, &session) || session.Email == "" {
		return Session{}, false
	}
	return session, true
}

// UserInfo computes the dashboard view from the session's account. It is
// absent when the profile is anonymous or the account no longer exists.
func (m *Manager) UserInfo(ctx context.Context, profileID string) (UserInfo, bool) {
	session, ok := m.CurrentUser(ctx, profileID)
	if !ok {
		return UserInfo{}, false
	}
	account, ok := m.Account(ctx, session.Email)
	if !ok {
		m.logger.Warn().Str("profile_id", profileID).Msg("session refers to a missing account")
		return UserInfo{}, false
	}
	return UserInfo{
		Name:             account.Name,
		Email:            account.Email,
		RegisteredEvents: slices.Clone(account.RegisteredEvents),
	}, true
}

// Account looks up an account by exact email.
func (m *Manager) Account(ctx context.Context, email string) (Account, bool) {
	var users []Account
	m.store.Global().Get(ctx, storage.KeyUsers, &users)
	idx := findByEmail(users, email)
	if idx < 0 {
		return Account{}, false
	}
	return users[idx], true
}

// AddRegistration appends eventID to the account's registered events.
func (m *Manager) AddRegistration(ctx context.Context, email string, eventID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	users, err := m.loadUsers(ctx)
	if err != nil {
		return err
	}
	idx := findByEmail(users, email)
	if idx < 0 {
		return ErrAccountNotFound
	}
	if users[idx].IsRegistered(eventID) {
		return ErrAlreadyRegistered
	}
	users[idx].RegisteredEvents = append(users[idx].RegisteredEvents, eventID)
	if err := m.store.Global().Set(ctx, storage.KeyUsers, users); err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

// Accounts lists every account without password hashes.
func (m *Manager) Accounts(ctx context.Context) ([]Summary, error) {
	users, err := m.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// loadUsers is the strict read used by read-modify-write paths.
func (m *Manager) loadUsers(ctx context.Context) ([]Account, error) {
	var users []Account
	if _, err := m.store.Global().Lookup(ctx, storage.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}
