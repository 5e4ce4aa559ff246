package navguard_test

import (
	"testing"

	"gitlab.com/navguard/navguard"
)

func TestDecisionKey(t *testing.T) {
	var inputs = []struct {
		in       string
		expected string
	}{
		{"https://Example.COM/login?next=/", "example.com"},
		{"http://example.com", "example.com"},
		{"https://sub.Example.com/a/b/c", "sub.example.com"},
		{"https://example.com:8443/path", "example.com"},
		{"  https://example.com  ", "example.com"},
		{"not a url", "not a url"},
		{"", ""},
	}
	for _, in := range inputs {
		if got := navguard.DecisionKey(in.in); got != in.expected {
			t.Fatalf("%s: expected %s got %s\n", in.in, in.expected, got)
		}
	}
}

func TestDecisionKeySharedAcrossPaths(t *testing.T) {
	a := navguard.DecisionKey("https://example.com/login")
	b := navguard.DecisionKey("https://example.com/totally/other/page")
	if a != b {
		t.Fatalf("paths on the same host must share a key: %s != %s\n", a, b)
	}
}

func TestNewNavigationAttemptFlowIDs(t *testing.T) {
	a := navguard.NewNavigationAttempt("https://example.com")
	b := navguard.NewNavigationAttempt("https://example.com")
	if a.FlowID == "" || b.FlowID == "" {
		t.Fatalf("flow ids must not be empty")
	}
	if a.FlowID == b.FlowID {
		t.Fatalf("flow ids must be unique per attempt")
	}
}
