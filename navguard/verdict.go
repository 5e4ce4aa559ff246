package navguard

import "strings"

// Verdict is the terminal decision for a destination
type Verdict int8

const (
	// VerdictAllow navigation may proceed
	VerdictAllow Verdict = iota + 1
	// VerdictBlock the user declined to proceed
	VerdictBlock
)

func (v Verdict) String() string {
	if v == VerdictAllow {
		return "ALLOW"
	}
	return "BLOCK"
}

// DecisionOrigin records how a cached decision came to be
type DecisionOrigin int8

const (
	// OriginCacheHit decision applied from a prior programmatic allow
	OriginCacheHit DecisionOrigin = iota + 1
	// OriginUserOverride the user explicitly chose through a prompt
	OriginUserOverride
)

func (o DecisionOrigin) String() string {
	if o == OriginUserOverride {
		return "USER_OVERRIDE"
	}
	return "CACHE_HIT"
}

// CachedDecision is a session-scoped verdict for a decision key. Entries
// only ever change through the engine after a user choice or programmatic
// allow; the whole cache is purged when configuration changes.
type CachedDecision struct {
	Key     string
	Verdict Verdict
	Origin  DecisionOrigin
}

// RiskCategory as reported by the remote analysis service
type RiskCategory int8

const (
	// RiskUnknown unrecognized, absent or unparseable verdicts
	RiskUnknown RiskCategory = iota
	// RiskSafe no suspicious patterns found
	RiskSafe
	// RiskSuspicious some suspicious signals
	RiskSuspicious
	// RiskDangerous strong phishing/malware signals
	RiskDangerous
	// RiskHigh alias severity some service versions report
	RiskHigh
)

var riskCategoryNames = map[RiskCategory]string{
	RiskUnknown:    "UNKNOWN",
	RiskSafe:       "SAFE",
	RiskSuspicious: "SUSPICIOUS",
	RiskDangerous:  "DANGEROUS",
	RiskHigh:       "HIGH",
}

func (r RiskCategory) String() string {
	if s, ok := riskCategoryNames[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// RiskCategoryFromString normalizes whatever string the service sent into a
// category. Total: anything unrecognized is RiskUnknown, never an error.
func RiskCategoryFromString(s string) RiskCategory {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SAFE":
		return RiskSafe
	case "SUSPICIOUS":
		return RiskSuspicious
	case "DANGEROUS":
		return RiskDangerous
	case "HIGH":
		return RiskHigh
	}
	return RiskUnknown
}

// AnalysisResult is the normalized verdict for a single attempt. Not
// persisted; the engine consumes it and throws it away.
type AnalysisResult struct {
	Category     RiskCategory
	Explanations []string
	Score        *float64 // optional, nil when the service omitted it
}

// Outcome is a terminal engine state for an attempt
type Outcome int8

const (
	// OutcomeNavigate resume the suspended navigation
	OutcomeNavigate Outcome = iota + 1
	// OutcomeStay suppress the navigation, nothing further happens
	OutcomeStay
)

func (o Outcome) String() string {
	if o == OutcomeNavigate {
		return "NAVIGATE"
	}
	return "STAY"
}
