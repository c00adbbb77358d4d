package models

import "time"

type PlanTier string

const (
	PlanFree     PlanTier = "free"
	PlanStandard PlanTier = "standard"
	PlanPremium  PlanTier = "premium"
)

// Feature names a gated capability.
type Feature string

const (
	FeaturePDCAEntry     Feature = "pdcaEntry"
	FeatureAIComment     Feature = "aiComment"
	FeatureCoachMeeting  Feature = "coachMeeting"
	FeatureGoalSetting   Feature = "goalSetting"
	FeatureMonthlyReport Feature = "monthlyReport"
	FeatureDataExport    Feature = "dataExport"
)

// FeatureValue is a capability level. Boolean capabilities use On/Off;
// tri-state capabilities use Limited/Full/Trial.
type FeatureValue string

const (
	FeatureOff     FeatureValue = "off"
	FeatureOn      FeatureValue = "on"
	FeatureLimited FeatureValue = "limited"
	FeatureFull    FeatureValue = "full"
	FeatureTrial   FeatureValue = "trial"
)

// FeatureMatrix maps every capability key to its level. Every plan tier
// defines every key; partial matrices are invalid.
type FeatureMatrix map[Feature]FeatureValue

// Subscription is a user's active plan. Exactly one per user; upgrades
// replace the whole Features matrix with the target tier's canonical
// matrix, never a field-by-field merge.
type Subscription struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Plan           PlanTier      `json:"plan"`
	Features       FeatureMatrix `json:"features"`
	TrialEndDate   *time.Time    `json:"trial_end_date,omitempty"`
	MeetingCredits int           `json:"meeting_credits,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
