package browser

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/navguard/navguard"
)

// Tab guards a single chromium tab. Every paused document request becomes
// a navigation attempt resolved in its own goroutine, so overlapping
// clicks each run the engine independently.
type Tab struct {
	t         *gcd.ChromeTarget
	engine    navguard.Engine
	scope     navguard.ScopeService
	events    navguard.EventSink
	crashedCh chan string
	exitCh    chan struct{}
}

// NewTab wraps a chrome target. The engine is attached separately because
// the in-page prompter the engine needs is itself built around the tab.
func NewTab(target *gcd.ChromeTarget, scope navguard.ScopeService, events navguard.EventSink) *Tab {
	if events == nil {
		events = navguard.NopSink{}
	}
	t := &Tab{
		t:         target,
		scope:     scope,
		events:    events,
		crashedCh: make(chan string),
		exitCh:    make(chan struct{}),
	}
	t.subscribeTargetCrashed()
	t.subscribeTargetDetached()
	return t
}

// SetEngine attaches the decision engine, must be called before Guard
func (t *Tab) SetEngine(engine navguard.Engine) {
	t.engine = engine
}

// Target exposes the underlying chrome target, used by the page prompter
func (t *Tab) Target() *gcd.ChromeTarget {
	return t.t
}

// Close stops the guard loop
func (t *Tab) Close() {
	close(t.exitCh)
}

// Navigate the tab somewhere, used for the optional start url
func (t *Tab) Navigate(url string) error {
	params := &gcdapi.PageNavigateParams{Url: url, TransitionType: "typed"}
	_, _, errText, err := t.t.Page.NavigateWithParams(params)
	if err != nil {
		return err
	}
	if errText != "" {
		return errors.New(errText)
	}
	return nil
}

// Guard enables document-request interception and blocks until the
// context ends or the tab goes away
func (t *Tab) Guard(ctx context.Context) error {
	if t.engine == nil {
		return errors.New("no engine attached")
	}
	t.t.Page.Enable()
	t.t.Fetch.EnableWithParams(&gcdapi.FetchEnableParams{
		Patterns: []*gcdapi.FetchRequestPattern{
			{UrlPattern: "*", ResourceType: "Document", RequestStage: "Request"},
		},
	})
	t.subscribeInterception(ctx)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.exitCh:
		return nil
	case reason := <-t.crashedCh:
		return errors.Wrap(ErrTabCrashed, reason)
	}
}

func (t *Tab) subscribeTargetCrashed() {
	t.t.Subscribe("Inspector.targetCrashed", func(target *gcd.ChromeTarget, payload []byte) {
		select {
		case t.crashedCh <- "crashed":
		case <-t.exitCh:
		}
	})
}

func (t *Tab) subscribeTargetDetached() {
	t.t.Subscribe("Inspector.detached", func(target *gcd.ChromeTarget, payload []byte) {
		header := &gcdapi.InspectorDetachedEvent{}
		reason := "detached"
		if err := json.Unmarshal(payload, header); err == nil {
			reason = header.Params.Reason
		}
		select {
		case t.crashedCh <- reason:
		case <-t.exitCh:
		}
	})
}

func (t *Tab) subscribeInterception(ctx context.Context) {
	t.t.Subscribe("Fetch.requestPaused", func(target *gcd.ChromeTarget, payload []byte) {
		message := &gcdapi.FetchRequestPausedEvent{}
		if err := json.Unmarshal(payload, message); err != nil {
			log.Error().Err(err).Msg("unable to decode Fetch.requestPaused event")
			return
		}
		go t.resolvePaused(ctx, message)
	})
}

// resolvePaused runs one paused request through scope and engine, then
// resumes or aborts it. Anything that is not a plain document navigation
// (sub-resources, form posts, resumed responses) passes through untouched.
func (t *Tab) resolvePaused(ctx context.Context, message *gcdapi.FetchRequestPausedEvent) {
	params := message.Params
	if !t.isNavigationRequest(message) {
		t.continueRequest(params.RequestId)
		return
	}

	destination := params.Request.Url
	switch t.scope.Check(destination) {
	case navguard.ScopeTrusted:
		t.emitScope(destination, "trusted")
		t.continueRequest(params.RequestId)
		return
	case navguard.ScopeBlocked:
		t.emitScope(destination, "blocked")
		t.failRequest(params.RequestId)
		return
	}

	attempt := navguard.NewNavigationAttempt(destination)
	attempt.OriginContext = params.FrameId

	outcome := t.engine.Decide(ctx, attempt)
	if outcome == navguard.OutcomeNavigate {
		t.continueRequest(params.RequestId)
		t.events.Emit(navguard.Event{
			FlowID: attempt.FlowID,
			Name:   "navigation_resumed",
			TS:     time.Now(),
		})
		return
	}
	t.failRequest(params.RequestId)
	t.events.Emit(navguard.Event{
		FlowID: attempt.FlowID,
		Name:   "navigation_suppressed",
		TS:     time.Now(),
	})
}

// isNavigationRequest filters to top-frame document GETs. Anything the
// user did that is not a plain navigation (posting a form, a modified
// click opening a download) passes through untouched.
func (t *Tab) isNavigationRequest(message *gcdapi.FetchRequestPausedEvent) bool {
	p := message.Params
	if p.ResponseHeaders != nil {
		// response-stage pause, never ours with a request-stage pattern
		return false
	}
	if p.ResourceType != "Document" {
		return false
	}
	return p.Request.Method == http.MethodGet
}

func (t *Tab) continueRequest(requestID string) {
	t.t.Fetch.ContinueRequestWithParams(&gcdapi.FetchContinueRequestParams{RequestId: requestID})
}

func (t *Tab) failRequest(requestID string) {
	t.t.Fetch.FailRequestWithParams(&gcdapi.FetchFailRequestParams{
		RequestId:   requestID,
		ErrorReason: "Aborted",
	})
}

func (t *Tab) emitScope(destination, scope string) {
	t.events.Emit(navguard.Event{
		Name: navguard.EvtScopeApplied,
		TS:   time.Now(),
		Details: map[string]interface{}{
			"url":   destination,
			"scope": scope,
		},
	})
}
