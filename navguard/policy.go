package navguard

// UXTier buckets a risk category for presentation
type UXTier int8

const (
	// TierSafe no prompt
	TierSafe UXTier = iota + 1
	// TierMedium confirmation overlay
	TierMedium
	// TierHigh confirmation overlay with the strongest wording
	TierHigh
	// TierUnknown fail-open, distinguishable from TierSafe in the event log
	TierUnknown
)

var tierNames = map[UXTier]string{
	TierSafe:    "SAFE",
	TierMedium:  "MEDIUM",
	TierHigh:    "HIGH",
	TierUnknown: "UNKNOWN",
}

func (t UXTier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// UXAction is what the engine does with an analyzed attempt
type UXAction int8

const (
	// ActionAllow resume immediately, no prompt
	ActionAllow UXAction = iota + 1
	// ActionOverlay present the risk overlay and await the user
	ActionOverlay
)

func (a UXAction) String() string {
	if a == ActionOverlay {
		return "OVERLAY"
	}
	return "ALLOW"
}

// UXPolicy is the deterministic presentation policy for a risk category.
// DisplayRisk is what the user sees, which may differ from the raw category
// (HIGH is displayed as DANGEROUS, UNKNOWN as SAFE).
type UXPolicy struct {
	Tier        UXTier
	Action      UXAction
	DisplayRisk RiskCategory
}
