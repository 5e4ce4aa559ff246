// Package analysis talks to the remote URL risk-analysis service. It owns
// the shared analysis state: the last-seen configuration fingerprint and
// the auth-invalid flag, both behind one lock.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/navguard/navguard"
)

// AnalyzePath is the analysis endpoint relative to the backend address
const AnalyzePath = "/api/analyze-url"

// CredentialHeader carries the API key
const CredentialHeader = "X-API-Key"

// InvalidateFunc is called when a configuration change makes every cached
// decision stale
type InvalidateFunc func(reason string)

// Client issues at most one request per navigation attempt, classifies
// every outcome into the error taxonomy and normalizes whatever payload
// shape the service answers with. It never retries and sets no request
// deadline; the caller's context is the only bound.
type Client struct {
	store      navguard.ConfigStore
	httpClient *http.Client
	events     navguard.EventSink

	mu              sync.Mutex
	lastFingerprint string
	authInvalid     bool
	invalidate      InvalidateFunc
}

// NewClient reading configuration from store
func NewClient(store navguard.ConfigStore, events navguard.EventSink) *Client {
	if events == nil {
		events = navguard.NopSink{}
	}
	return &Client{
		store:      store,
		httpClient: &http.Client{},
		events:     events,
	}
}

// SetHTTPClient overrides the transport, used by tests
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// OnConfigChange registers the hook run when the fingerprint changes,
// normally the decision cache's InvalidateAll
func (c *Client) OnConfigChange(fn InvalidateFunc) {
	c.mu.Lock()
	c.invalidate = fn
	c.mu.Unlock()
}

// AuthInvalid reports whether the credential was rejected and the
// configuration has not changed since
func (c *Client) AuthInvalid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authInvalid
}

// Analyze a destination. Returns a normalized result or a classified
// *AnalysisError; it never raises anything else across this boundary.
func (c *Client) Analyze(ctx context.Context, rawURL, flowID string) (*navguard.AnalysisResult, error) {
	cfg, err := c.store.Get()
	if err != nil {
		return nil, &navguard.AnalysisError{
			Kind:   navguard.KindMissingConfig,
			Detail: "unable to read service configuration",
			Cause:  err,
		}
	}
	if !cfg.Configured() {
		return nil, &navguard.AnalysisError{
			Kind:   navguard.KindMissingConfig,
			Detail: "backend address or credential not configured",
		}
	}

	if err := c.observeFingerprint(cfg); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{"url": rawURL})
	if err != nil {
		return nil, &navguard.AnalysisError{Kind: navguard.KindUnknown, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BackendAddress, "/")+AnalyzePath, bytes.NewReader(body))
	if err != nil {
		return nil, &navguard.AnalysisError{Kind: navguard.KindUnknown, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CredentialHeader, cfg.Credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &navguard.AnalysisError{
			Kind:   navguard.KindNetwork,
			Detail: "no response from analysis service",
			Cause:  err,
		}
	}
	defer resp.Body.Close()

	payload, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &navguard.AnalysisError{Kind: navguard.KindNetwork, Detail: "failed reading response", Cause: err}
	}

	if resp.StatusCode >= 400 {
		return nil, c.classifyStatus(resp.StatusCode, payload, flowID)
	}

	result := normalizePayload(resp.Header.Get("Content-Type"), payload)
	log.Debug().Str("flow_id", flowID).Str("category", result.Category.String()).Msg("analysis complete")
	return result, nil
}

// observeFingerprint purges stale state on a config change and
// short-circuits when the credential is already known bad. Purging before
// the check means fixing the configuration is what clears the flag.
func (c *Client) observeFingerprint(cfg navguard.ServiceConfig) error {
	fp := cfg.Fingerprint()

	c.mu.Lock()
	changed := c.lastFingerprint != "" && c.lastFingerprint != fp
	c.lastFingerprint = fp
	if changed {
		c.authInvalid = false
	}
	authInvalid := c.authInvalid
	invalidate := c.invalidate
	c.mu.Unlock()

	if changed && invalidate != nil {
		invalidate("CONFIG_CHANGED")
	}
	if authInvalid {
		return &navguard.AnalysisError{
			Kind:   navguard.KindAuth,
			Detail: "credential previously rejected, not retrying until configuration changes",
		}
	}
	return nil
}

func (c *Client) classifyStatus(status int, payload []byte, flowID string) error {
	detail := serverDetail(payload)

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.mu.Lock()
		c.authInvalid = true
		invalidate := c.invalidate
		c.mu.Unlock()
		// nothing decided under the rejected credential may keep applying
		if invalidate != nil {
			invalidate("AUTH_INVALID")
		}
		log.Warn().Str("flow_id", flowID).Int("status", status).Msg("analysis credential rejected")
		if detail == "" {
			detail = "credential rejected"
		}
		return &navguard.AnalysisError{Kind: navguard.KindAuth, StatusCode: status, Detail: detail}
	}

	if detail == "" {
		detail = errors.Errorf("%d %s", status, http.StatusText(status)).Error()
	}
	return &navguard.AnalysisError{Kind: navguard.KindHTTP, StatusCode: status, Detail: detail}
}

// serverDetail extracts the service's own failure message; FastAPI-style
// backends use "detail", others "message"
func serverDetail(payload []byte) string {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	for _, field := range []string{"detail", "message"} {
		if s, ok := body[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// normalizePayload turns whatever the service sent into a typed result.
// Total: a non-JSON content type, a malformed body or a non-object payload
// all degrade to an UNKNOWN verdict with no explanations rather than
// failing the attempt.
func normalizePayload(contentType string, payload []byte) *navguard.AnalysisResult {
	result := &navguard.AnalysisResult{
		Category:     navguard.RiskUnknown,
		Explanations: []string{},
	}

	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return result
	}

	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return result
	}

	// the service has used several names for the category across versions
	for _, field := range []string{"risk_category", "riskCategory", "category", "verdict"} {
		if s, ok := body[field].(string); ok && s != "" {
			result.Category = navguard.RiskCategoryFromString(s)
			break
		}
	}

	if raw, ok := body["explanations"].([]interface{}); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok {
				result.Explanations = append(result.Explanations, s)
			}
		}
	}

	if n, ok := body["score"].(float64); ok {
		result.Score = &n
	}

	return result
}

// Ping checks the backend health endpoint without spending an analysis
// call. Used by the configure command.
func (c *Client) Ping(ctx context.Context) error {
	cfg, err := c.store.Get()
	if err != nil || cfg.BackendAddress == "" {
		return errors.New("backend address not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(cfg.BackendAddress, "/")+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "health check failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}
