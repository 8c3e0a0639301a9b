package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/prefs"
	"github.com/ahlulathar/ahlulathar-api/internal/store"
	"github.com/ahlulathar/ahlulathar-api/pkg/jwt"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/ahlulathar/ahlulathar-api/pkg/metrics"
	"go.uber.org/zap"
)

var (
	ErrPhoneNotRegistered = errors.New("phone number not registered")
	ErrNoPasswordSet      = errors.New("account has no password set")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrLoginSuperseded    = errors.New("login attempt superseded")
)

// AuthState is the lifecycle phase of the authentication session
type AuthState string

const (
	StateUnauthenticated AuthState = "unauthenticated"
	StateLoading         AuthState = "loading"
	StateAuthenticated   AuthState = "authenticated"
)

const (
	// userPrefsKey is where the authenticated user snapshot is persisted
	// between restarts
	userPrefsKey = "user"

	// candidateLimit bounds how many records a phone lookup may return
	candidateLimit = 10

	lastLoginTimeout = 10 * time.Second
)

// LoginResult is returned on successful login. LastLoginDone resolves when
// the background lastLogin write finishes; login success never depends on it.
type LoginResult struct {
	User          *models.User
	LastLoginDone <-chan error
}

// AuthService drives the login session lifecycle: restore on startup, phone
// and password login against the users collection, and logout. A sequence
// counter guards against a stale login committing after a newer login or a
// logout has taken over the session.
type AuthService struct {
	store store.Store
	prefs prefs.Store

	mu    sync.RWMutex
	state AuthState
	user  *models.User
	seq   atomic.Uint64
}

// NewAuthService creates the auth service and restores any persisted session.
// A corrupt or undecodable snapshot is discarded and the session starts
// unauthenticated rather than failing startup.
func NewAuthService(docStore store.Store, prefStore prefs.Store) *AuthService {
	s := &AuthService{
		store: docStore,
		prefs: prefStore,
		state: StateUnauthenticated,
	}
	s.restore()
	return s
}

// restore loads the persisted user snapshot, if any
func (s *AuthService) restore() {
	raw, ok := s.prefs.Get(userPrefsKey)
	if !ok {
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		logger.Warn("Discarding corrupt persisted session", zap.Error(err))
		if err := s.prefs.Delete(userPrefsKey); err != nil {
			logger.Warn("Failed to clear corrupt persisted session", zap.Error(err))
		}
		return
	}

	s.state = StateAuthenticated
	s.user = &user
	logger.Info("Session restored from persisted state",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
}

// State returns the current session state
func (s *AuthService) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the authenticated user, or nil if none
func (s *AuthService) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// selectCandidate picks the record to authenticate against when a phone
// number matches multiple user records: the first with a non-empty stored
// password, or the first record when none have one.
func selectCandidate(records []store.Record) store.Record {
	for _, record := range records {
		if models.StoredPassword(record) != "" {
			return record
		}
	}
	return records[0]
}

// Login authenticates by phone number and password. While the lookup is in
// flight the state reads as loading; on any failure it returns to
// unauthenticated. A login started before a later Login or Logout call
// cannot commit its result.
func (s *AuthService) Login(ctx context.Context, creds *models.Credentials) (*LoginResult, error) {
	start := time.Now()

	// Taking the sequence token and entering loading must be one critical
	// section, or a newer attempt could commit in between and have its
	// state clobbered by this one.
	s.mu.Lock()
	attempt := s.seq.Add(1)
	s.state = StateLoading
	s.mu.Unlock()

	user, err := s.authenticate(ctx, creds)
	if err != nil {
		s.abandon(attempt)
		metrics.LoginAttempts.WithLabelValues(loginOutcome(err)).Inc()
		return nil, err
	}

	s.mu.Lock()
	if s.seq.Load() != attempt {
		s.mu.Unlock()
		logger.Warn("Stale login attempt discarded",
			zap.String("user_id", user.ID))
		metrics.LoginAttempts.WithLabelValues("superseded").Inc()
		return nil, ErrLoginSuperseded
	}
	s.state = StateAuthenticated
	s.user = user
	s.mu.Unlock()

	s.persist(user)
	done := s.writeLastLogin(user.ID)

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	metrics.LoginDuration.Observe(metrics.MeasureDuration(start))

	logger.Info("Login succeeded",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Duration("duration", time.Since(start)))

	return &LoginResult{User: user, LastLoginDone: done}, nil
}

// authenticate runs the credential check against the users collection
func (s *AuthService) authenticate(ctx context.Context, creds *models.Credentials) (*models.User, error) {
	phone := strings.TrimSpace(creds.PhoneNumber)
	records, err := s.store.QueryByField(ctx, store.UsersCollection, "phoneNumber", phone, candidateLimit)
	if err != nil {
		logger.Error("User lookup failed", zap.Error(err))
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if len(records) == 0 {
		logger.Warn("Login for unknown phone number")
		return nil, ErrPhoneNotRegistered
	}

	candidate := selectCandidate(records)

	stored := models.StoredPassword(candidate)
	if stored == "" {
		return nil, ErrNoPasswordSet
	}
	if !jwt.TimingSafeCompare(stored, strings.TrimSpace(creds.Password)) {
		return nil, ErrInvalidPassword
	}

	user, err := models.DecodeUser(candidate)
	if err != nil {
		logger.Error("Matched user record is malformed", zap.Error(err))
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if !user.IsActive {
		logger.Warn("Login for disabled account", zap.String("user_id", user.ID))
		return nil, ErrAccountDisabled
	}

	return user, nil
}

// abandon rolls the state back to unauthenticated after a failed attempt,
// unless a newer attempt has already taken over
func (s *AuthService) abandon(attempt uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq.Load() != attempt {
		return
	}
	s.state = StateUnauthenticated
	s.user = nil
}

// persist writes the user snapshot for restore on the next startup.
// Persistence failures are logged, not surfaced: the live session stands.
func (s *AuthService) persist(user *models.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		logger.Error("Failed to encode session snapshot", zap.Error(err))
		return
	}
	if err := s.prefs.Set(userPrefsKey, string(raw)); err != nil {
		logger.Error("Failed to persist session snapshot", zap.Error(err))
	}
}

// writeLastLogin stamps the user record in the background. The write runs
// detached from the request context so a canceled request cannot abort it.
func (s *AuthService) writeLastLogin(userID string) <-chan error {
	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lastLoginTimeout)
		defer cancel()

		err := s.store.Update(ctx, store.UsersCollection, userID, store.Record{
			"lastLogin": time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			logger.Warn("Failed to record last login",
				zap.String("user_id", userID),
				zap.Error(err))
		}
		done <- err
	}()
	return done
}

// Logout clears the session. It also bumps the sequence counter so any login
// still in flight cannot resurrect the session afterwards.
func (s *AuthService) Logout() {
	s.mu.Lock()
	s.seq.Add(1)
	s.state = StateUnauthenticated
	s.user = nil
	s.mu.Unlock()

	if err := s.prefs.Delete(userPrefsKey); err != nil {
		logger.Warn("Failed to clear persisted session", zap.Error(err))
	}
	logger.Info("Session cleared")
}

// SetPhotoURL updates the cached user's avatar URL and re-persists the
// snapshot. No-op when no session is active.
func (s *AuthService) SetPhotoURL(url string) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user.PhotoURL = url
	user := *s.user
	s.mu.Unlock()

	s.persist(&user)
}

// loginOutcome maps a login failure to its metric label
func loginOutcome(err error) string {
	switch {
	case errors.Is(err, ErrPhoneNotRegistered):
		return "phone_not_registered"
	case errors.Is(err, ErrNoPasswordSet):
		return "no_password_set"
	case errors.Is(err, ErrInvalidPassword):
		return "invalid_password"
	case errors.Is(err, ErrAccountDisabled):
		return "account_disabled"
	default:
		return "error"
	}
}
