package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"gitlab.com/navguard/navguard"
)

// TerminalPrompter presents choices on a terminal, used by the check
// command. Reads y/yes as proceed, anything else as cancel.
type TerminalPrompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter reading from in and writing to out
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// Present the prompt and block for an answer. EOF or a read failure is
// abandonment and resolves as cancel via the returned error.
func (p *TerminalPrompter) Present(ctx context.Context, req *navguard.PromptRequest) (navguard.Choice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "\n%s [y/N]: ", Render(req))
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return navguard.ChoiceCancel, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return navguard.ChoiceProceed, nil
	}
	return navguard.ChoiceCancel, nil
}
