package strategy

import "taxrecon/internal/domain"

// interactionRules supplements each named recommendation with related
// analyzers it commonly interacts with, without overwriting references
// an analyzer already populated itself.
var interactionRules = map[string][]string{
	"Retirement-account maximization": {"Incentive-option exercise", "Surtax threshold management"},
	"Health-savings-account maximization": {"Retirement-account maximization"},
	"Incentive-option exercise": {"Minimum-tax-credit use", "Estimated-payment safe harbor"},
	"Tax-loss harvesting": {"Wash-sale avoidance"},
	"Restricted-unit loss harvest": {"Wash-sale avoidance"},
	"Surtax threshold management": {"Retirement-account maximization"},
	"Specific identification": {"Holding-period ripening"},
}

// flagInteractions appends rule-based cross-references onto each
// recommendation's RelatedAnalyzers, de-duplicating against entries an
// analyzer already set directly.
func flagInteractions(all []domain.StrategyRecommendation) []domain.StrategyRecommendation {
	for i := range all {
		extra, ok := interactionRules[all[i].Name]
		if !ok {
			continue
		}
		seen := make(map[string]bool, len(all[i].RelatedAnalyzers))
		for _, r := range all[i].RelatedAnalyzers {
			seen[r] = true
		}
		for _, e := range extra {
			if e == all[i].Name || seen[e] {
				continue
			}
			all[i].RelatedAnalyzers = append(all[i].RelatedAnalyzers, e)
			seen[e] = true
		}
	}
	return all
}
