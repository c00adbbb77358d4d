// Package auth is the identity-provider boundary: local accounts with
// bcrypt-hashed passwords, a JWT session persisted on disk, and an
// auth-state subscription for the rest of the app to react to sign-in
// and sign-out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/store"
)

var (
	// ErrNotAuthenticated means the operation requires a signed-in
	// user and none is present.
	ErrNotAuthenticated = errors.New("not authenticated, run 'kaizen signin' first")
	// ErrInvalidCredentials covers unknown email and wrong password
	// alike, so the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const minPasswordLen = 8

// account is the stored credential record. It lives under the system
// user and never leaves this package.
type account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

type Service struct {
	store       store.Provider
	logger      *zap.Logger
	sessionPath string
	secretPath  string

	mu       sync.Mutex
	current  *models.User
	watchers map[int]func(*models.User)
	nextID   int
}

func New(provider store.Provider, logger *zap.Logger, sessionPath, secretPath string) *Service {
	return &Service{
		store:       provider,
		logger:      logger,
		sessionPath: sessionPath,
		secretPath:  secretPath,
		watchers:    make(map[int]func(*models.User)),
	}
}

// SignUp creates an account. It does not sign the new user in.
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &models.ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if len(password) < minPasswordLen {
		return nil, &models.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}

	existing, err := s.store.Query(ctx, store.SystemUser, store.CollectionUsers, "email", email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("email already registered: %s", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acct := account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	doc, err := s.store.Put(ctx, store.SystemUser, store.CollectionUsers, acct.ID, acct)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("account created", zap.String("user_id", acct.ID))
	return userFromDoc(doc, acct), nil
}

// SignIn verifies credentials, persists a session token, and notifies
// auth-state watchers.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	docs, err := s.store.Query(ctx, store.SystemUser, store.CollectionUsers, "email", email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrInvalidCredentials
	}

	var acct account
	if err := docs[0].Decode(&acct); err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	secret, err := loadOrCreateSecret(s.secretPath)
	if err != nil {
		return nil, err
	}
	token, err := issueToken(secret, acct.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.sessionPath, []byte(token), 0600); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	user := userFromDoc(docs[0], acct)
	s.setCurrent(user)
	s.logger.Info("signed in", zap.String("user_id", user.ID))
	return user, nil
}

// SignOut removes the persisted session and notifies watchers with a
// nil user. Signing out while signed out is not an error.
func (s *Service) SignOut() error {
	if err := os.Remove(s.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	s.mu.Lock()
	wasSignedIn := s.current != nil
	s.mu.Unlock()

	if wasSignedIn {
		s.setCurrent(nil)
		s.logger.Info("signed out")
	}
	return nil
}

// CurrentUser returns the signed-in user, restoring it from the
// persisted session on first call. Without a valid session it returns
// ErrNotAuthenticated.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current != nil {
		return current, nil
	}

	raw, err := os.ReadFile(s.sessionPath)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	secret, err := loadOrCreateSecret(s.secretPath)
	if err != nil {
		return nil, err
	}
	userID, err := parseToken(secret, strings.TrimSpace(string(raw)))
	if err != nil {
		s.logger.Warn("stale session token", zap.Error(err))
		return nil, ErrNotAuthenticated
	}

	doc, err := s.store.Get(ctx, store.SystemUser, store.CollectionUsers, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	var acct account
	if err := doc.Decode(&acct); err != nil {
		return nil, err
	}

	user := userFromDoc(doc, acct)

	// Session restoration is not a state transition; watchers are only
	// notified on sign-in and sign-out.
	s.mu.Lock()
	s.current = user
	s.mu.Unlock()
	return user, nil
}

// OnAuthStateChange registers fn for auth transitions: it is called
// once per sign-in (with the user) and once per sign-out (with nil).
// The returned handle stops delivery; calling it more than once is
// harmless.
func (s *Service) OnAuthStateChange(fn func(*models.User)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Service) setCurrent(user *models.User) {
	s.mu.Lock()
	s.current = user
	fns := make([]func(*models.User), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

func userFromDoc(doc store.Document, acct account) *models.User {
	return &models.User{
		ID:        acct.ID,
		Email:     acct.Email,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
