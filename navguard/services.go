package navguard

import "context"

// Engine resolves intercepted navigation attempts to a terminal outcome
type Engine interface {
	Decide(ctx context.Context, attempt *NavigationAttempt) Outcome
}

// Analyzer asks the remote analysis service for a verdict on a URL. It
// never returns both; on error the result is nil and the error is a
// classified *AnalysisError (possibly wrapped). At most one outbound call
// per invocation, no retries.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL, flowID string) (*AnalysisResult, error)
}

// DecisionCache is the session-scoped verdict cache keyed by DecisionKey
type DecisionCache interface {
	// Lookup never blocks on anything but its own lock
	Lookup(key string) (CachedDecision, bool)
	// Store overwrites any prior entry for key
	Store(key string, verdict Verdict, origin DecisionOrigin)
	// InvalidateAll clears every entry, logged with reason
	InvalidateAll(reason string)
}

// ScopeService decides whether a destination is guarded at all
type ScopeService interface {
	AddTrusted(hosts []string)
	AddBlocked(hosts []string)
	Check(rawURL string) Scope
}

// Scope of a destination host
type Scope int8

const (
	// ScopeGuarded run the attempt through the decision engine
	ScopeGuarded Scope = iota + 1
	// ScopeTrusted resume without consulting the engine
	ScopeTrusted
	// ScopeBlocked suppress without consulting the engine
	ScopeBlocked
)
