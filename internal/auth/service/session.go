package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/forum/internal/auth/domain"
	"github.com/aussiebroadwan/forum/internal/auth/store"
	"github.com/aussiebroadwan/forum/pkg/cryptox"
	"github.com/aussiebroadwan/forum/pkg/idx"
	"github.com/aussiebroadwan/forum/pkg/jwtx"
	"github.com/aussiebroadwan/forum/pkg/slogx"
)

// DefaultLookupTimeout bounds user store calls when none is configured.
const DefaultLookupTimeout = 3 * time.Second

const (
	maxEmailLength    = 254
	maxUsernameLength = 64
)

// SessionService logs users in and registers new accounts. Both end with a
// freshly issued token pair.
type SessionService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
	Tokens *TokenService

	// LookupTimeout bounds each user store call. Zero means
	// DefaultLookupTimeout.
	LookupTimeout time.Duration

	// Recorder is optional.
	Recorder Recorder
}

// Login checks the credential and issues a token pair for the user.
func (s *SessionService) Login(ctx context.Context, cred domain.Credential) (*domain.TokenPair, error) {
	pair, err := s.login(ctx, cred)
	s.recorder().Login(outcomeOf(err))
	return pair, err
}

func (s *SessionService) login(ctx context.Context, cred domain.Credential) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email := domain.NormalizeEmail(cred.Email)
	if email == "" || cred.Password == "" {
		return nil, ErrInvalidRequest
	}

	var u domain.User
	err := s.withLookupTimeout(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.Store.Users().GetUserByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ok, err := s.Hasher.Verify(ctx, cred.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		l.Info("password verification failed", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	s.upgradeHash(ctx, u, cred.Password)

	pair, err := s.Tokens.Issue(u.Identity())
	if err != nil {
		l.Error("failed to issue tokens", "user_id", u.ID, "err", err)
		return nil, err
	}

	l.Info("user logged in", "user_id", u.ID)
	return pair, nil
}

// Register creates an account and issues a token pair for it.
func (s *SessionService) Register(ctx context.Context, reg domain.Registration) (*domain.TokenPair, error) {
	pair, err := s.register(ctx, reg)
	s.recorder().Registration(outcomeOf(err))
	return pair, err
}

func (s *SessionService) register(ctx context.Context, reg domain.Registration) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email := domain.NormalizeEmail(reg.Email)
	username := strings.TrimSpace(reg.Username)
	if err := validateRegistration(email, username, reg.Password); err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(ctx, reg.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	// The unique email index decides duplicates, a read first would race.
	err = s.withLookupTimeout(ctx, func(ctx context.Context) error {
		return s.Store.Users().CreateUser(ctx, u)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	pair, err := s.Tokens.Issue(u.Identity())
	if err != nil {
		l.Error("failed to issue tokens", "user_id", u.ID, "err", err)
		return nil, err
	}

	l.Info("user registered", "user_id", u.ID)
	return pair, nil
}

// Refresh rotates the pair carried by refreshToken.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	pair, _, err := s.Tokens.Refresh(ctx, refreshToken)
	s.recorder().Refresh(outcomeOf(err))
	return pair, err
}

// withLookupTimeout runs fn with a deadline. A deadline or cancellation
// surfaces as ErrUnavailable.
func (s *SessionService) withLookupTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	timeout := s.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(lookupCtx)
	if err == nil {
		return nil
	}
	if lookupCtx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		slogx.FromContext(ctx).Warn("user store unavailable", "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("user store: %w", err)
}

// upgradeHash rehashes the password when the stored hash uses a lower
// cost than the Hasher. Failures are logged and otherwise ignored.
func (s *SessionService) upgradeHash(ctx context.Context, u domain.User, password string) {
	cost, err := cryptox.HashCost(u.PasswordHash)
	if err != nil || cost >= s.Hasher.Cost() {
		return
	}

	l := slogx.FromContext(ctx)
	hash, err := s.Hasher.Hash(ctx, password)
	if err != nil {
		l.Warn("failed to rehash password", "user_id", u.ID, "err", err)
		return
	}

	err = s.withLookupTimeout(ctx, func(ctx context.Context) error {
		return s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash)
	})
	if err != nil {
		l.Warn("failed to store upgraded password hash", "user_id", u.ID, "err", err)
		return
	}
	l.Info("password hash upgraded", "user_id", u.ID, "from_cost", cost, "to_cost", s.Hasher.Cost())
}

func (s *SessionService) recorder() Recorder {
	if s.Recorder == nil {
		return nopRecorder{}
	}
	return s.Recorder
}

func validateRegistration(email, username, password string) error {
	switch {
	case email == "" || username == "" || password == "":
		return ErrInvalidRequest
	case len(email) > maxEmailLength || !strings.Contains(email, "@"):
		return fmt.Errorf("%w: email is not valid", ErrInvalidRequest)
	case utf8.RuneCountInString(username) > maxUsernameLength:
		return fmt.Errorf("%w: username is too long", ErrInvalidRequest)
	case len(password) > cryptox.MaxPasswordBytes:
		return fmt.Errorf("%w: password is too long", ErrInvalidRequest)
	}
	return nil
}

// outcomeOf maps an operation error onto a Recorder label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidRequest):
		return OutcomeInvalidRequest
	case errors.Is(err, ErrInvalidCredentials):
		return OutcomeInvalidCredentials
	case errors.Is(err, ErrUserNotFound):
		return OutcomeUserNotFound
	case errors.Is(err, ErrEmailTaken):
		return OutcomeEmailTaken
	case errors.Is(err, ErrMissingToken):
		return OutcomeMissingToken
	case jwtx.IsTokenError(err):
		return OutcomeRejected
	case errors.Is(err, ErrUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}
