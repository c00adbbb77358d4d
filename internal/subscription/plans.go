package subscription

import (
	"fmt"

	"github.com/tyamagishi/kaizen/internal/models"
)

// Canonical feature matrices per plan tier. Every tier defines every
// capability key; an upgrade installs one of these wholesale.
var planMatrices = map[models.PlanTier]models.FeatureMatrix{
	models.PlanFree: {
		models.FeaturePDCAEntry:     models.FeatureLimited,
		models.FeatureAIComment:     models.FeatureOff,
		models.FeatureCoachMeeting:  models.FeatureOff,
		models.FeatureGoalSetting:   models.FeatureLimited,
		models.FeatureMonthlyReport: models.FeatureOff,
		models.FeatureDataExport:    models.FeatureOff,
	},
	models.PlanStandard: {
		models.FeaturePDCAEntry:     models.FeatureFull,
		models.FeatureAIComment:     models.FeatureTrial,
		models.FeatureCoachMeeting:  models.FeatureOff,
		models.FeatureGoalSetting:   models.FeatureFull,
		models.FeatureMonthlyReport: models.FeatureOn,
		models.FeatureDataExport:    models.FeatureOn,
	},
	models.PlanPremium: {
		models.FeaturePDCAEntry:     models.FeatureFull,
		models.FeatureAIComment:     models.FeatureOn,
		models.FeatureCoachMeeting:  models.FeatureOn,
		models.FeatureGoalSetting:   models.FeatureFull,
		models.FeatureMonthlyReport: models.FeatureOn,
		models.FeatureDataExport:    models.FeatureOn,
	},
}

// DefaultFreeEntryLimit is the free tier's PDCA entries-per-day
// allowance behind the "limited" level. The gate only reports it;
// enforcement belongs to callers.
// TODO: confirm the allowance with product before it is enforced
// anywhere; 1/day is the working default and config can override it.
const DefaultFreeEntryLimit = 1

// entryLimits maps each tier to its entries-per-day allowance.
// Zero means unlimited.
var entryLimits = map[models.PlanTier]int{
	models.PlanFree:     DefaultFreeEntryLimit,
	models.PlanStandard: 0,
	models.PlanPremium:  0,
}

// MeetingCreditsFor is the monthly meeting credit grant per tier.
var meetingGrants = map[models.PlanTier]int{
	models.PlanFree:     0,
	models.PlanStandard: 0,
	models.PlanPremium:  2,
}

// MatrixFor returns a fresh copy of the canonical matrix for tier.
func MatrixFor(tier models.PlanTier) (models.FeatureMatrix, error) {
	canonical, ok := planMatrices[tier]
	if !ok {
		return nil, fmt.Errorf("unknown plan tier: %s", tier)
	}

	matrix := make(models.FeatureMatrix, len(canonical))
	for feature, value := range canonical {
		matrix[feature] = value
	}
	return matrix, nil
}

// EntryLimitPerDay reports the tier's daily PDCA entry allowance;
// zero means unlimited.
func EntryLimitPerDay(tier models.PlanTier) int {
	return entryLimits[tier]
}

// Tiers lists the known plan tiers from lowest to highest.
func Tiers() []models.PlanTier {
	return []models.PlanTier{models.PlanFree, models.PlanStandard, models.PlanPremium}
}
