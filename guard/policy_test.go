package guard_test

import (
	"testing"

	"gitlab.com/navguard/guard"
	"gitlab.com/navguard/navguard"
)

func TestMapPolicy(t *testing.T) {
	var inputs = []struct {
		category    navguard.RiskCategory
		tier        navguard.UXTier
		action      navguard.UXAction
		displayRisk navguard.RiskCategory
	}{
		{navguard.RiskSafe, navguard.TierSafe, navguard.ActionAllow, navguard.RiskSafe},
		{navguard.RiskSuspicious, navguard.TierMedium, navguard.ActionOverlay, navguard.RiskSuspicious},
		{navguard.RiskDangerous, navguard.TierHigh, navguard.ActionOverlay, navguard.RiskDangerous},
		{navguard.RiskHigh, navguard.TierHigh, navguard.ActionOverlay, navguard.RiskDangerous},
		{navguard.RiskUnknown, navguard.TierUnknown, navguard.ActionAllow, navguard.RiskSafe},
	}
	for _, in := range inputs {
		got := guard.MapPolicy(in.category)
		if got.Tier != in.tier {
			t.Fatalf("%s: expected tier %s got %s\n", in.category, in.tier, got.Tier)
		}
		if got.Action != in.action {
			t.Fatalf("%s: expected action %s got %s\n", in.category, in.action, got.Action)
		}
		if got.DisplayRisk != in.displayRisk {
			t.Fatalf("%s: expected display %s got %s\n", in.category, in.displayRisk, got.DisplayRisk)
		}
	}
}

func TestMapPolicyTotal(t *testing.T) {
	// any unrecognized string degrades to the unknown tier, never panics
	for _, raw := range []string{"", "banana", "safe-ish", "DANGER"} {
		got := guard.MapPolicy(navguard.RiskCategoryFromString(raw))
		if got.Tier != navguard.TierUnknown || got.Action != navguard.ActionAllow {
			t.Fatalf("%q: expected unknown/allow got %s/%s\n", raw, got.Tier, got.Action)
		}
	}
}
