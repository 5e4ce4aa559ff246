// Package prompt renders the user-facing choice text shared by every
// prompt surface.
package prompt

import (
	"bytes"
	"text/template"

	"gitlab.com/navguard/navguard"
)

var reminderTmpl = template.Must(template.New("reminder").Parse(
	`You previously chose not to visit {{.DestinationURL}}.

Proceed anyway?`))

var bypassTmpl = template.Must(template.New("bypass").Parse(
	`The link checking service is unavailable or misconfigured, so {{.DestinationURL}} could not be checked.

{{if .Detail}}Reason: {{.Detail}}

{{end}}Continue to the site anyway?`))

var overlayTmpl = template.Must(template.New("overlay").Parse(
	`Warning: {{.DestinationURL}} was rated {{.DisplayRisk}}.
{{range .Explanations}}
 - {{.}}{{end}}

Proceed to this site?`))

// Render the body for a prompt request. Unknown kinds fall back to the
// bypass wording; a render failure degrades to the bare destination so the
// surface still has something to show.
func Render(req *navguard.PromptRequest) string {
	var tmpl *template.Template
	switch req.Kind {
	case navguard.PromptReminder:
		tmpl = reminderTmpl
	case navguard.PromptRiskOverlay:
		tmpl = overlayTmpl
	default:
		tmpl = bypassTmpl
	}

	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, req); err != nil {
		return "Proceed to " + req.DestinationURL + "?"
	}
	return buf.String()
}
