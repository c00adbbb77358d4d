// Package session owns the per-sign-in state of the app. A Session is
// constructed on sign-in, passed explicitly to whatever needs it, and
// torn down on sign-out; there is no ambient global lookup.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tyamagishi/kaizen/internal/auth"
	"github.com/tyamagishi/kaizen/internal/goals"
	"github.com/tyamagishi/kaizen/internal/journal"
	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/profile"
	"github.com/tyamagishi/kaizen/internal/subscription"
)

// Services bundles the data-access services a session reads through.
type Services struct {
	Profiles      *profile.Service
	Goals         *goals.Service
	Journal       *journal.Service
	Subscriptions *subscription.Service
}

type Session struct {
	user   *models.User
	svcs   Services
	logger *zap.Logger

	Profile      *Resource[*models.Profile]
	Goals        *Resource[[]models.Goal]
	Subscription *Resource[*models.Subscription]
}

func New(user *models.User, svcs Services, logger *zap.Logger) *Session {
	return &Session{
		user:         user,
		svcs:         svcs,
		logger:       logger,
		Profile:      NewResource[*models.Profile](),
		Goals:        NewResource[[]models.Goal](),
		Subscription: NewResource[*models.Subscription](),
	}
}

func (s *Session) User() *models.User {
	return s.user
}

// Refresh loads profile, goals and subscription concurrently. Each
// cell fails independently: a store error marks that cell Failed and
// leaves its previous value readable, while the other cells still
// complete. The first error is returned for surfacing.
func (s *Session) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.LoadProfile(ctx) })
	g.Go(func() error { return s.LoadGoals(ctx) })
	g.Go(func() error { return s.LoadSubscription(ctx) })
	return g.Wait()
}

func (s *Session) LoadProfile(ctx context.Context) error {
	gen := s.Profile.Begin()
	p, err := s.svcs.Profiles.Fetch(ctx, s.user.ID)
	if err != nil {
		s.Profile.Fail(gen, err)
		return err
	}
	s.Profile.Complete(gen, p)
	return nil
}

func (s *Session) LoadGoals(ctx context.Context) error {
	gen := s.Goals.Begin()
	list, err := s.svcs.Goals.LoadAll(ctx, s.user.ID)
	if err != nil {
		s.Goals.Fail(gen, err)
		return err
	}
	s.Goals.Complete(gen, list)
	return nil
}

func (s *Session) LoadSubscription(ctx context.Context) error {
	gen := s.Subscription.Begin()
	sub, err := s.svcs.Subscriptions.Fetch(ctx, s.user.ID)
	if err != nil {
		// Fetch falls back to the free tier; keep the fallback
		// readable but mark the cell failed.
		s.Subscription.Fail(gen, err)
		return err
	}
	s.Subscription.Complete(gen, sub)
	return nil
}

// Close tears the session down; in-flight loads that complete later
// are discarded by the resources themselves.
func (s *Session) Close() {
	s.Profile.Close()
	s.Goals.Close()
	s.Subscription.Close()
}

// Manager ties session lifecycle to auth-state transitions: sign-in
// builds a fresh session, sign-out closes it.
type Manager struct {
	svcs   Services
	logger *zap.Logger

	mu      sync.Mutex
	current *Session
}

func NewManager(svcs Services, logger *zap.Logger) *Manager {
	return &Manager{svcs: svcs, logger: logger}
}

// Bind subscribes the manager to auth-state changes and returns the
// subscription's disposal handle.
func (m *Manager) Bind(authSvc *auth.Service) func() {
	return authSvc.OnAuthStateChange(func(user *models.User) {
		m.mu.Lock()
		if m.current != nil {
			m.current.Close()
			m.current = nil
		}
		if user != nil {
			m.current = New(user, m.svcs, m.logger)
		}
		m.mu.Unlock()

		if user != nil {
			m.logger.Debug("session started", zap.String("user_id", user.ID))
		} else {
			m.logger.Debug("session cleared")
		}
	})
}

// Current returns the active session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Start builds the session for an already signed-in user, for callers
// that restored identity from a persisted session rather than an
// interactive sign-in.
func (m *Manager) Start(user *models.User) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Close()
	}
	m.current = New(user, m.svcs, m.logger)
	return m.current
}
