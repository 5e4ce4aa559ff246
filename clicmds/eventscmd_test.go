package clicmds

import "testing"

func TestFormatDetails(t *testing.T) {
	details := map[string]interface{}{
		"url":     "https://example.com",
		"reason":  "safe_allow",
		"dropped": 2,
	}
	want := " dropped=2 reason=safe_allow url=https://example.com"
	for i := 0; i < 10; i++ {
		if got := formatDetails(details); got != want {
			t.Fatalf("expected %q got %q\n", want, got)
		}
	}
}

func TestFormatDetailsEmpty(t *testing.T) {
	if got := formatDetails(nil); got != "" {
		t.Fatalf("expected empty string got %q\n", got)
	}
	if got := formatDetails(map[string]interface{}{}); got != "" {
		t.Fatalf("expected empty string got %q\n", got)
	}
}
