package browser

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/navguard/guard/prompt"
	"gitlab.com/navguard/navguard"
)

// PagePrompter presents choices inside the guarded tab itself by
// evaluating a confirm() dialog. The evaluation blocks until the user
// answers, which is exactly the await-a-choice semantic the engine wants;
// dismissing the dialog reads as cancel.
type PagePrompter struct {
	tab *Tab
}

// NewPagePrompter bound to a guarded tab
func NewPagePrompter(tab *Tab) *PagePrompter {
	return &PagePrompter{tab: tab}
}

// Present renders the prompt body and raises it in-page. Any evaluation
// failure (tab gone, dialog suppressed) is abandonment and surfaces as an
// error the engine treats as cancel.
func (p *PagePrompter) Present(ctx context.Context, req *navguard.PromptRequest) (navguard.Choice, error) {
	body := prompt.Render(req)
	params := &gcdapi.RuntimeEvaluateParams{
		Expression:    "confirm(" + strconv.Quote(body) + ")",
		ObjectGroup:   "navguard",
		Silent:        true,
		ReturnByValue: true,
		UserGesture:   true,
		// no Timeout: prompts are open-ended, the user answers when they answer
	}

	r, exp, err := p.tab.Target().Runtime.EvaluateWithParams(params)
	if err != nil {
		return navguard.ChoiceCancel, errors.Wrap(err, "failed to present prompt")
	}
	if exp != nil {
		log.Warn().Str("flow_id", req.FlowID).Msg("prompt evaluation raised in page")
		return navguard.ChoiceCancel, errors.New("prompt evaluation raised")
	}

	if accepted, ok := r.Value.(bool); ok && accepted {
		return navguard.ChoiceProceed, nil
	}
	return navguard.ChoiceCancel, nil
}
