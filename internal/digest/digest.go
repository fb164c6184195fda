// Package digest composes the plain-text report body sent to a user
// following up on DIDs they follow (§4.9).
package digest

import (
	"strings"
	"text/template"

	"github.com/scicat/catalog/internal/types"
)

const bodyTemplate = `You have {{len .Events}} update{{if ne (len .Events) 1}}s{{end}} on followed data:
{{range .Events}}
  - {{.Scope}}:{{.Name}} ({{.Type}}): {{.EventType}}
{{- end}}
`

var tmpl = template.Must(template.New("digest").Parse(bodyTemplate))

// Compose renders the digest body for one account's batch of follow
// events.
func Compose(events []types.FollowEvent) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, struct{ Events []types.FollowEvent }{events}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Subject returns the report's subject line for a digest of n events.
func Subject(n int) string {
	if n == 1 {
		return "1 update on your followed data"
	}
	return "Updates on your followed data"
}
