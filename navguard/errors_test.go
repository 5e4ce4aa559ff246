package navguard_test

import (
	"testing"

	"github.com/pkg/errors"
	"gitlab.com/navguard/navguard"
)

func TestSafeFallbackClassifiedKinds(t *testing.T) {
	var inputs = []struct {
		kind     navguard.ErrorKind
		expected bool
	}{
		{navguard.KindMissingConfig, true},
		{navguard.KindNetwork, true},
		{navguard.KindAuth, true},
		{navguard.KindHTTP, true},
		{navguard.KindUnknown, false},
	}
	for _, in := range inputs {
		err := &navguard.AnalysisError{Kind: in.kind}
		if got := navguard.SafeFallback(err); got != in.expected {
			t.Fatalf("%s: expected %v got %v\n", in.kind, in.expected, got)
		}
	}
}

func TestSafeFallbackWrapped(t *testing.T) {
	err := errors.Wrap(&navguard.AnalysisError{Kind: navguard.KindNetwork}, "analyze")
	if !navguard.SafeFallback(err) {
		t.Fatalf("wrapped network error should be safe-fallback\n")
	}
}

func TestSafeFallbackEmbeddedAuthStatus(t *testing.T) {
	// unclassified errors that smell like an auth failure still get the
	// explicit bypass choice
	if !navguard.SafeFallback(errors.New("upstream said 401 unauthorized")) {
		t.Fatalf("embedded 401 should be safe-fallback\n")
	}
	if !navguard.SafeFallback(errors.New("proxy returned 403")) {
		t.Fatalf("embedded 403 should be safe-fallback\n")
	}
	if navguard.SafeFallback(errors.New("something else entirely")) {
		t.Fatalf("plain error should fail open\n")
	}
	if navguard.SafeFallback(nil) {
		t.Fatalf("nil error is not a fallback\n")
	}
}

func TestClassifiedKind(t *testing.T) {
	err := errors.Wrap(&navguard.AnalysisError{Kind: navguard.KindAuth, StatusCode: 401}, "analyze")
	if navguard.ClassifiedKind(err) != navguard.KindAuth {
		t.Fatalf("expected auth kind\n")
	}
	if navguard.ClassifiedKind(errors.New("nope")) != navguard.KindUnknown {
		t.Fatalf("expected unknown kind\n")
	}
}

func TestRiskCategoryFromString(t *testing.T) {
	var inputs = []struct {
		in       string
		expected navguard.RiskCategory
	}{
		{"SAFE", navguard.RiskSafe},
		{"safe", navguard.RiskSafe},
		{" Suspicious ", navguard.RiskSuspicious},
		{"DANGEROUS", navguard.RiskDangerous},
		{"HIGH", navguard.RiskHigh},
		{"banana", navguard.RiskUnknown},
		{"", navguard.RiskUnknown},
	}
	for _, in := range inputs {
		if got := navguard.RiskCategoryFromString(in.in); got != in.expected {
			t.Fatalf("%q: expected %s got %s\n", in.in, in.expected, got)
		}
	}
}

func TestFingerprintChangesWithConfig(t *testing.T) {
	a := navguard.ServiceConfig{BackendAddress: "http://localhost:8000", Credential: "key-1"}
	b := navguard.ServiceConfig{BackendAddress: "http://localhost:8000", Credential: "key-2"}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("credential change must change the fingerprint\n")
	}
	if a.Fingerprint() != a.Fingerprint() {
		t.Fatalf("fingerprint must be deterministic\n")
	}
}
