package guard

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.com/navguard/navguard"
)

// DecisionEngine owns the per-attempt flow: cache check, remote analysis,
// policy evaluation and prompt resolution. One engine is shared by every
// attempt; attempts run concurrently and only touch shared state through
// the cache and the analyzer, both of which guard their own locks.
type DecisionEngine struct {
	cache    navguard.DecisionCache
	analyzer navguard.Analyzer
	prompter navguard.Prompter
	events   navguard.EventSink
}

// NewDecisionEngine wires the collaborators together
func NewDecisionEngine(cache navguard.DecisionCache, analyzer navguard.Analyzer, prompter navguard.Prompter, events navguard.EventSink) *DecisionEngine {
	if events == nil {
		events = navguard.NopSink{}
	}
	return &DecisionEngine{cache: cache, analyzer: analyzer, prompter: prompter, events: events}
}

// Decide resolves one intercepted attempt to NAVIGATE or STAY
func (e *DecisionEngine) Decide(ctx context.Context, attempt *navguard.NavigationAttempt) navguard.Outcome {
	key := navguard.DecisionKey(attempt.DestinationURL)
	e.emit(attempt.FlowID, navguard.EvtIntercepted, map[string]interface{}{
		"url": attempt.DestinationURL,
		"key": key,
	})

	if dec, ok := e.cache.Lookup(key); ok {
		return e.applyCached(ctx, attempt, key, dec)
	}

	result, err := e.analyzer.Analyze(ctx, attempt.DestinationURL, attempt.FlowID)
	if err != nil {
		return e.resolveFailure(ctx, attempt, err)
	}

	e.emit(attempt.FlowID, navguard.EvtAnalysisOK, map[string]interface{}{
		"category":     result.Category.String(),
		"explanations": len(result.Explanations),
	})
	return e.applyPolicy(ctx, attempt, key, result)
}

// applyCached resumes on a cached allow; a cached block is a reminder, not
// a silent suppression, so the user gets a lightweight re-prompt every time.
func (e *DecisionEngine) applyCached(ctx context.Context, attempt *navguard.NavigationAttempt, key string, dec navguard.CachedDecision) navguard.Outcome {
	if dec.Verdict == navguard.VerdictAllow {
		e.emit(attempt.FlowID, navguard.EvtDecisionApplied, map[string]interface{}{
			"verdict": dec.Verdict.String(),
			"origin":  dec.Origin.String(),
		})
		return e.terminal(attempt, navguard.OutcomeNavigate)
	}

	choice := e.present(ctx, &navguard.PromptRequest{
		Kind:           navguard.PromptReminder,
		FlowID:         attempt.FlowID,
		DestinationURL: attempt.DestinationURL,
	})
	if choice == navguard.ChoiceProceed {
		e.cache.Store(key, navguard.VerdictAllow, navguard.OriginUserOverride)
		return e.terminal(attempt, navguard.OutcomeNavigate)
	}
	// entry stays BLOCK so the next attempt reminds again
	return e.terminal(attempt, navguard.OutcomeStay)
}

// resolveFailure classifies an analysis failure. Config/auth/transport
// failures get the explicit bypass choice; anything unclassifiable fails
// open silently. Failures are never cached.
func (e *DecisionEngine) resolveFailure(ctx context.Context, attempt *navguard.NavigationAttempt, err error) navguard.Outcome {
	kind := navguard.ClassifiedKind(err)
	e.emit(attempt.FlowID, navguard.EvtAnalysisFailed, map[string]interface{}{
		"kind":  kind.String(),
		"error": err.Error(),
	})

	if navguard.SafeFallback(err) {
		choice := e.present(ctx, &navguard.PromptRequest{
			Kind:           navguard.PromptConfigBypass,
			FlowID:         attempt.FlowID,
			DestinationURL: attempt.DestinationURL,
			Detail:         err.Error(),
		})
		if choice == navguard.ChoiceProceed {
			return e.terminal(attempt, navguard.OutcomeNavigate)
		}
		return e.terminal(attempt, navguard.OutcomeStay)
	}

	log.Warn().Str("flow_id", attempt.FlowID).Err(err).Msg("unclassified analysis failure, failing open")
	e.emit(attempt.FlowID, navguard.EvtDecisionApplied, map[string]interface{}{
		"reason": "error_fail_open",
	})
	return e.terminal(attempt, navguard.OutcomeNavigate)
}

func (e *DecisionEngine) applyPolicy(ctx context.Context, attempt *navguard.NavigationAttempt, key string, result *navguard.AnalysisResult) navguard.Outcome {
	policy := MapPolicy(result.Category)

	if policy.Action == navguard.ActionAllow {
		reason := "safe_allow"
		if policy.Tier == navguard.TierUnknown {
			reason = "unknown_fail_open"
		}
		e.emit(attempt.FlowID, navguard.EvtDecisionApplied, map[string]interface{}{
			"reason": reason,
			"tier":   policy.Tier.String(),
		})
		return e.terminal(attempt, navguard.OutcomeNavigate)
	}

	choice := e.present(ctx, &navguard.PromptRequest{
		Kind:           navguard.PromptRiskOverlay,
		FlowID:         attempt.FlowID,
		DestinationURL: attempt.DestinationURL,
		DisplayRisk:    policy.DisplayRisk,
		Explanations:   result.Explanations,
	})
	if choice == navguard.ChoiceProceed {
		e.cache.Store(key, navguard.VerdictAllow, navguard.OriginUserOverride)
		return e.terminal(attempt, navguard.OutcomeNavigate)
	}
	e.cache.Store(key, navguard.VerdictBlock, navguard.OriginUserOverride)
	return e.terminal(attempt, navguard.OutcomeStay)
}

// present shows a prompt and awaits the choice. A prompt surface error
// means the prompt was abandoned, which resolves as cancel.
func (e *DecisionEngine) present(ctx context.Context, req *navguard.PromptRequest) navguard.Choice {
	e.emit(req.FlowID, navguard.EvtPromptShown, map[string]interface{}{
		"kind": req.Kind.String(),
	})
	choice, err := e.prompter.Present(ctx, req)
	if err != nil {
		log.Debug().Str("flow_id", req.FlowID).Err(err).Msg("prompt abandoned, treating as cancel")
		choice = navguard.ChoiceCancel
	}
	e.emit(req.FlowID, navguard.EvtPromptResolved, map[string]interface{}{
		"kind":   req.Kind.String(),
		"choice": choice.String(),
	})
	return choice
}

func (e *DecisionEngine) terminal(attempt *navguard.NavigationAttempt, outcome navguard.Outcome) navguard.Outcome {
	name := navguard.EvtNavigate
	if outcome == navguard.OutcomeStay {
		name = navguard.EvtStay
	}
	e.emit(attempt.FlowID, name, map[string]interface{}{
		"url": attempt.DestinationURL,
	})
	return outcome
}

func (e *DecisionEngine) emit(flowID, name string, details map[string]interface{}) {
	e.events.Emit(navguard.Event{
		FlowID:  flowID,
		Name:    name,
		TS:      time.Now(),
		Details: details,
	})
}
