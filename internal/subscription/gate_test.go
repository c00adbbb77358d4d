package subscription

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tyamagishi/kaizen/internal/auth"
	"github.com/tyamagishi/kaizen/internal/models"
)

func subOnTier(t *testing.T, tier models.PlanTier) *models.Subscription {
	t.Helper()
	matrix, err := MatrixFor(tier)
	if err != nil {
		t.Fatalf("MatrixFor(%s) failed: %v", tier, err)
	}
	return &models.Subscription{
		ID:       "sub-1",
		UserID:   "u1",
		Plan:     tier,
		Features: matrix,
	}
}

func TestCanUse_NilSubscription(t *testing.T) {
	features := []models.Feature{
		models.FeaturePDCAEntry,
		models.FeatureAIComment,
		models.FeatureCoachMeeting,
		models.FeatureGoalSetting,
		models.FeatureMonthlyReport,
		models.FeatureDataExport,
	}
	for _, f := range features {
		if CanUse(nil, f) {
			t.Errorf("CanUse(nil, %s) = true, want false", f)
		}
	}
}

func TestCanUse_ByTier(t *testing.T) {
	cases := []struct {
		tier    models.PlanTier
		feature models.Feature
		want    bool
	}{
		{models.PlanFree, models.FeatureAIComment, false},
		{models.PlanPremium, models.FeatureAIComment, true},
		{models.PlanStandard, models.FeatureAIComment, true}, // trial grants access
		{models.PlanFree, models.FeaturePDCAEntry, true},     // limited grants access
		{models.PlanFree, models.FeatureCoachMeeting, false},
		{models.PlanPremium, models.FeatureCoachMeeting, true},
	}

	for _, tc := range cases {
		if got := CanUse(subOnTier(t, tc.tier), tc.feature); got != tc.want {
			t.Errorf("CanUse(%s, %s) = %v, want %v", tc.tier, tc.feature, got, tc.want)
		}
	}
}

func TestCanUse_UnknownLevel(t *testing.T) {
	sub := subOnTier(t, models.PlanFree)
	sub.Features[models.FeatureAIComment] = "sometimes"

	if CanUse(sub, models.FeatureAIComment) {
		t.Error("unrecognized feature level must not grant access")
	}
	if CanUse(sub, "noSuchFeature") {
		t.Error("absent feature key must not grant access")
	}
}

func TestTrialDaysRemaining(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	sub := subOnTier(t, models.PlanStandard)
	if got := TrialDaysRemaining(sub, now); got != 0 {
		t.Errorf("no trial end date: got %d, want 0", got)
	}

	end := now.Add(36 * time.Hour) // 1.5 days -> rounds up to 2
	sub.TrialEndDate = &end
	if got := TrialDaysRemaining(sub, now); got != 2 {
		t.Errorf("36h remaining: got %d, want 2", got)
	}

	exact := now.Add(48 * time.Hour)
	sub.TrialEndDate = &exact
	if got := TrialDaysRemaining(sub, now); got != 2 {
		t.Errorf("exactly 48h remaining: got %d, want 2", got)
	}

	past := now.Add(-24 * time.Hour)
	sub.TrialEndDate = &past
	if got := TrialDaysRemaining(sub, now); got != 0 {
		t.Errorf("expired trial: got %d, want 0 (never negative)", got)
	}

	if got := TrialDaysRemaining(nil, now); got != 0 {
		t.Errorf("nil subscription: got %d, want 0", got)
	}
}

func TestMeetingCredits(t *testing.T) {
	if got := MeetingCredits(nil); got != 0 {
		t.Errorf("nil subscription: got %d, want 0", got)
	}

	sub := subOnTier(t, models.PlanPremium)
	sub.MeetingCredits = 3
	if got := MeetingCredits(sub); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestUpgrade_ReplacesMatrixWholesale(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	free := subOnTier(t, models.PlanFree)
	// A stray custom level must not survive the upgrade.
	free.Features[models.FeatureDataExport] = "sometimes"

	upgraded, err := Upgrade("u1", free, models.PlanStandard, now)
	if err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}

	canonical, _ := MatrixFor(models.PlanStandard)
	if diff := cmp.Diff(canonical, upgraded.Features); diff != "" {
		t.Errorf("upgraded matrix is not the canonical standard matrix (-want +got):\n%s", diff)
	}
	if upgraded.Plan != models.PlanStandard {
		t.Errorf("plan = %s, want standard", upgraded.Plan)
	}
	if !upgraded.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt not refreshed: %v", upgraded.UpdatedAt)
	}
	if upgraded.ID != free.ID {
		t.Errorf("upgrade must keep the subscription identity, got %s", upgraded.ID)
	}

	// Input must be untouched.
	if free.Plan != models.PlanFree {
		t.Error("Upgrade mutated its input")
	}
}

func TestUpgrade_RequiresUser(t *testing.T) {
	_, err := Upgrade("", subOnTier(t, models.PlanFree), models.PlanPremium, time.Now())
	if !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestUpgrade_UnknownTier(t *testing.T) {
	if _, err := Upgrade("u1", nil, "platinum", time.Now()); err == nil {
		t.Error("unknown tier should fail")
	}
}

func TestUpgrade_FromNothing(t *testing.T) {
	upgraded, err := Upgrade("u1", nil, models.PlanPremium, time.Now())
	if err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	if upgraded.UserID != "u1" || upgraded.Plan != models.PlanPremium {
		t.Errorf("unexpected subscription: %+v", upgraded)
	}
	if upgraded.MeetingCredits != 2 {
		t.Errorf("premium grant = %d, want 2", upgraded.MeetingCredits)
	}
}

func TestMatrixFor_Complete(t *testing.T) {
	// Every tier must define every capability key.
	keys := []models.Feature{
		models.FeaturePDCAEntry,
		models.FeatureAIComment,
		models.FeatureCoachMeeting,
		models.FeatureGoalSetting,
		models.FeatureMonthlyReport,
		models.FeatureDataExport,
	}
	for _, tier := range Tiers() {
		matrix, err := MatrixFor(tier)
		if err != nil {
			t.Fatalf("MatrixFor(%s) failed: %v", tier, err)
		}
		for _, key := range keys {
			if _, ok := matrix[key]; !ok {
				t.Errorf("tier %s is missing capability %s", tier, key)
			}
		}
	}
}

func TestMatrixFor_ReturnsCopy(t *testing.T) {
	a, _ := MatrixFor(models.PlanFree)
	a[models.FeatureAIComment] = models.FeatureOn

	b, _ := MatrixFor(models.PlanFree)
	if b[models.FeatureAIComment] != models.FeatureOff {
		t.Error("MatrixFor must return a fresh copy, not the shared canonical map")
	}
}
