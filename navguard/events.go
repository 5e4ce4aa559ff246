package navguard

import "time"

// Event names emitted by the engine and the interception layer. Consumers
// correlate by flow id across components.
const (
	EvtIntercepted      = "intercepted"
	EvtDecisionApplied  = "decision_applied"
	EvtAnalysisOK       = "analysis_ok"
	EvtAnalysisFailed   = "analysis_failed"
	EvtPromptShown      = "prompt_shown"
	EvtPromptResolved   = "prompt_resolved"
	EvtCacheInvalidated = "cache_invalidated"
	EvtNavigate         = "navigate"
	EvtStay             = "stay"
	EvtScopeApplied     = "scope_applied"
)

// Event is one structured transition record
type Event struct {
	FlowID  string                 `json:"flow_id"`
	Name    string                 `json:"event"`
	TS      time.Time              `json:"ts"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// EventSink receives every transition. Implementations must be safe for
// concurrent use; attempts run in parallel.
type EventSink interface {
	Emit(evt Event)
}

// NopSink discards events
type NopSink struct{}

// Emit does nothing
func (NopSink) Emit(Event) {}
