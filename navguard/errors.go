package navguard

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies why an analysis attempt failed
type ErrorKind int8

const (
	// KindUnknown anything unclassifiable
	KindUnknown ErrorKind = iota
	// KindMissingConfig backend address or credential absent, no call made
	KindMissingConfig
	// KindNetwork transport failure, no response received
	KindNetwork
	// KindAuth the service rejected our credential (401/403)
	KindAuth
	// KindHTTP the service answered with a non-auth failure status
	KindHTTP
)

var errorKindNames = map[ErrorKind]string{
	KindUnknown:       "UNKNOWN_ERROR",
	KindMissingConfig: "MISSING_CONFIG",
	KindNetwork:       "NETWORK_ERROR",
	KindAuth:          "AUTH_ERROR",
	KindHTTP:          "HTTP_ERROR",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "UNKNOWN_ERROR"
}

// AnalysisError is the only error type the analysis client returns across
// its boundary. Detail carries the server-provided message when one exists.
type AnalysisError struct {
	Kind       ErrorKind
	StatusCode int // 0 when no response was received
	Detail     string
	Cause      error
}

func (e *AnalysisError) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap for errors.Cause/As chains
func (e *AnalysisError) Unwrap() error { return e.Cause }

// ClassifiedKind extracts the taxonomy kind from an error chain,
// KindUnknown when the error did not come from the analysis client.
func ClassifiedKind(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	if ae, ok := errors.Cause(err).(*AnalysisError); ok {
		return ae.Kind
	}
	return KindUnknown
}

// SafeFallback reports whether a failed analysis must surface the explicit
// "service unavailable or misconfigured" choice instead of silently failing
// open. All classified kinds qualify; so does any unclassified error that
// carries a 401/403 anywhere in its text, so a broken credential can never
// masquerade as a silent allow.
func SafeFallback(err error) bool {
	if err == nil {
		return false
	}
	switch ClassifiedKind(err) {
	case KindMissingConfig, KindNetwork, KindAuth, KindHTTP:
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "401") || strings.Contains(msg, "403")
}
