package guard

import "gitlab.com/navguard/navguard"

// MapPolicy maps a risk category onto the presentation policy. Pure and
// total: unknown or absent categories fail open as allow, but keep the
// UNKNOWN tier so the event log can tell them apart from a true SAFE.
func MapPolicy(category navguard.RiskCategory) navguard.UXPolicy {
	switch category {
	case navguard.RiskSafe:
		return navguard.UXPolicy{
			Tier:        navguard.TierSafe,
			Action:      navguard.ActionAllow,
			DisplayRisk: navguard.RiskSafe,
		}
	case navguard.RiskSuspicious:
		return navguard.UXPolicy{
			Tier:        navguard.TierMedium,
			Action:      navguard.ActionOverlay,
			DisplayRisk: navguard.RiskSuspicious,
		}
	case navguard.RiskDangerous, navguard.RiskHigh:
		return navguard.UXPolicy{
			Tier:        navguard.TierHigh,
			Action:      navguard.ActionOverlay,
			DisplayRisk: navguard.RiskDangerous,
		}
	}
	return navguard.UXPolicy{
		Tier:        navguard.TierUnknown,
		Action:      navguard.ActionAllow,
		DisplayRisk: navguard.RiskSafe,
	}
}
