// Package subscription holds the plan feature gate: canonical per-tier
// feature matrices and the queries the rest of the app asks of them.
package subscription

import (
	"time"

	"github.com/google/uuid"

	"github.com/tyamagishi/kaizen/internal/auth"
	"github.com/tyamagishi/kaizen/internal/models"
)

// CanUse reports whether the subscription grants access to a feature.
// A missing subscription grants nothing. The "limited" level grants
// access; any quantitative allowance is the caller's to enforce.
func CanUse(sub *models.Subscription, feature models.Feature) bool {
	if sub == nil {
		return false
	}

	switch sub.Features[feature] {
	case models.FeatureOn, models.FeatureLimited, models.FeatureFull, models.FeatureTrial:
		return true
	default:
		// Off, absent key, or an unrecognized level.
		return false
	}
}

// TrialDaysRemaining returns the whole days left of the trial, rounded
// up, never negative. Without a trial end date it is zero.
func TrialDaysRemaining(sub *models.Subscription, now time.Time) int {
	if sub == nil || sub.TrialEndDate == nil {
		return 0
	}

	remaining := sub.TrialEndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// MeetingCredits returns the stored credit balance, or zero without a
// subscription.
func MeetingCredits(sub *models.Subscription) int {
	if sub == nil {
		return 0
	}
	return sub.MeetingCredits
}

// Upgrade produces the subscription as it would be on the target tier:
// the canonical target matrix replaces the old one wholesale and
// UpdatedAt is refreshed. The input is not mutated; persisting the
// result is the caller's job. userID must belong to a signed-in user.
func Upgrade(userID string, sub *models.Subscription, target models.PlanTier, now time.Time) (*models.Subscription, error) {
	if userID == "" {
		return nil, auth.ErrNotAuthenticated
	}

	matrix, err := MatrixFor(target)
	if err != nil {
		return nil, err
	}

	upgraded := &models.Subscription{
		ID:             uuid.NewString(),
		UserID:         userID,
		Plan:           target,
		Features:       matrix,
		MeetingCredits: meetingGrants[target],
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if sub != nil {
		upgraded.ID = sub.ID
		upgraded.CreatedAt = sub.CreatedAt
		upgraded.TrialEndDate = sub.TrialEndDate
		// Credits carry over; the new tier's grant is a floor.
		if sub.MeetingCredits > upgraded.MeetingCredits {
			upgraded.MeetingCredits = sub.MeetingCredits
		}
	}

	return upgraded, nil
}
