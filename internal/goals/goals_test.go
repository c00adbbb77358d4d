package goals

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/store"
)

func newService(t *testing.T) *Service {
	t.Helper()

	provider := store.NewJSONStore(filepath.Join(t.TempDir(), "kaizen.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("store Init failed: %v", err)
	}
	return NewService(provider, zap.NewNop())
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", Input{Title: "  "}); !models.IsValidation(err) {
		t.Errorf("blank title: expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, "u1", Input{Title: "run", StartDate: "03/01/2024"}); err == nil {
		t.Error("malformed start date should be rejected")
	}
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	svc := newService(t)

	goal, err := svc.Create(context.Background(), "u1", Input{Title: "run daily", ThemeID: "th1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if goal.Status != models.GoalStatusDraft {
		t.Errorf("status = %s, want draft", goal.Status)
	}
	if goal.CreatedAt.IsZero() || goal.UpdatedAt.IsZero() {
		t.Error("goal should carry store-assigned timestamps")
	}
}

func TestCreate_ConvertsDatesToDayKeys(t *testing.T) {
	svc := newService(t)

	goal, err := svc.Create(context.Background(), "u1", Input{
		Title:     "marathon",
		StartDate: "2024-03-01",
		DueDate:   "2024-06-30",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if goal.StartDate != "2024-03-01" {
		t.Errorf("start date = %q, want 2024-03-01", goal.StartDate)
	}
	if goal.DueDate != "2024-06-30" {
		t.Errorf("due date = %q, want 2024-06-30", goal.DueDate)
	}
}

func TestLoadByTheme_FiltersAndSorts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	mk := func(title string, themeID string, status models.GoalStatus) *models.Goal {
		goal, err := svc.Create(ctx, "u1", Input{Title: title, ThemeID: themeID, Status: status})
		if err != nil {
			t.Fatalf("Create %s failed: %v", title, err)
		}
		// Store timestamps have sub-second resolution; keep writes apart.
		time.Sleep(5 * time.Millisecond)
		return goal
	}

	mk("draft goal", "th1", models.GoalStatusDraft)
	mk("done goal", "th1", models.GoalStatusCompleted)
	mk("paused goal", "th1", models.GoalStatusPaused)
	mk("other theme", "th2", models.GoalStatusActive)
	newest := mk("active goal", "th1", models.GoalStatusActive)

	loaded, err := svc.LoadByTheme(ctx, "u1", "th1")
	if err != nil {
		t.Fatalf("LoadByTheme failed: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 surfaced goals (draft+active), got %d", len(loaded))
	}
	if loaded[0].ID != newest.ID {
		t.Errorf("expected newest-updated goal first, got %q", loaded[0].Title)
	}
	for _, g := range loaded {
		if g.Status != models.GoalStatusDraft && g.Status != models.GoalStatusActive {
			t.Errorf("status %s should not be surfaced by theme query", g.Status)
		}
		if g.ThemeID != "th1" {
			t.Errorf("goal from wrong theme: %s", g.ThemeID)
		}
	}
}

func TestLoadAll_IncludesEveryStatus(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	statuses := []models.GoalStatus{
		models.GoalStatusDraft,
		models.GoalStatusActive,
		models.GoalStatusCompleted,
		models.GoalStatusPaused,
		models.GoalStatusCancelled,
	}
	for _, st := range statuses {
		if _, err := svc.Create(ctx, "u1", Input{Title: string(st), Status: st}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := svc.LoadAll(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != len(statuses) {
		t.Errorf("expected %d goals, got %d", len(statuses), len(all))
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	goal, err := svc.Create(ctx, "u1", Input{Title: "run"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, "u1", goal.ID, models.GoalStatusActive)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.GoalStatusActive {
		t.Errorf("status = %s, want active", updated.Status)
	}
}

func TestSMART_RoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	goal, err := svc.Create(ctx, "u1", Input{Title: "run"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	missing, err := svc.GetSMART(ctx, "u1", goal.ID)
	if err != nil {
		t.Fatalf("GetSMART failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil SMART before set, got %+v", missing)
	}

	smart := models.SMARTGoal{
		GoalID:     goal.ID,
		Specific:   "run 5km",
		Measurable: "distance logged",
		TimeBound:  "by June",
	}
	if err := svc.SetSMART(ctx, "u1", smart); err != nil {
		t.Fatalf("SetSMART failed: %v", err)
	}

	got, err := svc.GetSMART(ctx, "u1", goal.ID)
	if err != nil {
		t.Fatalf("GetSMART failed: %v", err)
	}
	if got == nil || got.Specific != "run 5km" {
		t.Errorf("unexpected SMART: %+v", got)
	}
}

func TestCreateTheme(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.CreateTheme(ctx, "u1", " "); !models.IsValidation(err) {
		t.Errorf("blank name: expected validation error, got %v", err)
	}

	if _, err := svc.CreateTheme(ctx, "u1", "health"); err != nil {
		t.Fatalf("CreateTheme failed: %v", err)
	}
	if _, err := svc.CreateTheme(ctx, "u1", "career"); err != nil {
		t.Fatalf("CreateTheme failed: %v", err)
	}

	themes, err := svc.ListThemes(ctx, "u1")
	if err != nil {
		t.Fatalf("ListThemes failed: %v", err)
	}
	if len(themes) != 2 || themes[0].Name != "career" {
		t.Errorf("expected name-sorted themes [career health], got %+v", themes)
	}
}
