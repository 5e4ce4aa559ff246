package navguard

import "context"

// PromptKind distinguishes the three user-facing choices
type PromptKind int8

const (
	// PromptReminder lightweight re-prompt for a host the user blocked earlier
	PromptReminder PromptKind = iota + 1
	// PromptConfigBypass "service unavailable or misconfigured, continue anyway?"
	PromptConfigBypass
	// PromptRiskOverlay the full risk overlay with category and explanations
	PromptRiskOverlay
)

var promptKindNames = map[PromptKind]string{
	PromptReminder:     "REMINDER",
	PromptConfigBypass: "CONFIG_BYPASS",
	PromptRiskOverlay:  "RISK_OVERLAY",
}

func (k PromptKind) String() string {
	if s, ok := promptKindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Choice is the user's answer
type Choice int8

const (
	// ChoiceProceed continue the navigation
	ChoiceProceed Choice = iota + 1
	// ChoiceCancel stay on the current page
	ChoiceCancel
)

func (c Choice) String() string {
	if c == ChoiceProceed {
		return "PROCEED"
	}
	return "CANCEL"
}

// PromptRequest carries everything a prompt surface needs to render
type PromptRequest struct {
	Kind           PromptKind
	FlowID         string
	DestinationURL string
	DisplayRisk    RiskCategory // overlay only
	Explanations   []string     // overlay only
	Detail         string       // bypass only, the classified failure text
}

// Prompter presents a blocking choice and awaits the answer. It must always
// resolve; abandonment (dialog dismissed, tab gone, read failure) is the
// surface's concern and is reported as an error, which callers treat as
// ChoiceCancel.
type Prompter interface {
	Present(ctx context.Context, req *PromptRequest) (Choice, error)
}
