package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/store"
)

func newService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()

	provider := store.NewJSONStore(filepath.Join(dir, "kaizen.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("store Init failed: %v", err)
	}

	return New(
		provider,
		zap.NewNop(),
		filepath.Join(dir, "session"),
		filepath.Join(dir, "secret"),
	)
}

func TestSignUp_Validation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "", "longenough"); !models.IsValidation(err) {
		t.Errorf("blank email: expected validation error, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "no-at-sign", "longenough"); !models.IsValidation(err) {
		t.Errorf("malformed email: expected validation error, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "a@example.com", "short"); !models.IsValidation(err) {
		t.Errorf("short password: expected validation error, got %v", err)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("first SignUp failed: %v", err)
	}
	if _, err := svc.SignUp(ctx, "A@Example.com", "password2"); err == nil {
		t.Error("duplicate email (case-insensitive) should be rejected")
	}
}

func TestSignIn_And_CurrentUser(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "a@example.com", "password1")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	user, err := svc.SignIn(ctx, "a@example.com", "password1")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("signed-in user %s, want %s", user.ID, created.ID)
	}

	current, err := svc.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if current.ID != created.ID {
		t.Errorf("current user %s, want %s", current.ID, created.ID)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if _, err := svc.SignIn(ctx, "a@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCurrentUser_WithoutSession(t *testing.T) {
	svc := newService(t)

	if _, err := svc.CurrentUser(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if _, err := svc.SignIn(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	// A second service over the same paths stands in for a new process.
	restarted := New(svc.store, zap.NewNop(), svc.sessionPath, svc.secretPath)
	user, err := restarted.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser after restart failed: %v", err)
	}
	if user.Email != "a@example.com" {
		t.Errorf("restored user %q, want a@example.com", user.Email)
	}
}

func TestOnAuthStateChange_DeliveryAndUnsubscribe(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	var events []*models.User
	unsubscribe := svc.OnAuthStateChange(func(u *models.User) {
		events = append(events, u)
	})

	if _, err := svc.SignIn(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if err := svc.SignOut(); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 deliveries (sign-in, sign-out), got %d", len(events))
	}
	if events[0] == nil || events[1] != nil {
		t.Errorf("expected [user, nil], got [%v, %v]", events[0], events[1])
	}

	unsubscribe()
	unsubscribe() // second disposal is a no-op

	if _, err := svc.SignIn(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("watcher fired after unsubscribe: %d events", len(events))
	}
}

func TestSignOut_WhileSignedOut(t *testing.T) {
	svc := newService(t)

	var fired bool
	defer svc.OnAuthStateChange(func(*models.User) { fired = true })()

	if err := svc.SignOut(); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if fired {
		t.Error("sign-out without a session must not notify watchers")
	}
}
