package navguard

import (
	"net/url"
	"strings"

	uuid "github.com/satori/go.uuid"
)

// NavigationAttempt is one intercepted navigation. It lives from the moment
// the interception layer suspends a document request until the engine
// resolves it; nothing about it is persisted.
type NavigationAttempt struct {
	FlowID          string // correlation token for the event log
	DestinationURL  string
	WantsNewContext bool   // the gesture asked for a new tab/window
	OriginContext   string // opaque, the frame/target the gesture came from
}

// NewNavigationAttempt with a fresh flow id
func NewNavigationAttempt(destinationURL string) *NavigationAttempt {
	return &NavigationAttempt{
		FlowID:         uuid.NewV4().String(),
		DestinationURL: destinationURL,
	}
}

// DecisionKey normalizes a destination to the key cached verdicts are
// stored under: the lowercased hostname only. All paths on a host share one
// decision. If the destination has no parseable host we fall back to the
// lowercased raw string so the attempt still gets a usable (if odd) key.
func DecisionKey(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return strings.ToLower(strings.TrimSpace(rawURL))
	}
	return strings.ToLower(u.Hostname())
}
