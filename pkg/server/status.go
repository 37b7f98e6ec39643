package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/health"
)

var statusPage = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>Sentry Status</title>
  </head>
  <body>
{{ .Body }}
  </body>
</html>
`))

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// StatusMarkdown describes the running deployment. It lists where values
// came from but never the secret values themselves.
func StatusMarkdown(cfg *config.SentryConfig, report health.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sentry\n\n")
	if report.OK() {
		fmt.Fprintf(&b, "Your Sentry install is running!\n\n")
	} else {
		fmt.Fprintf(&b, "Some dependencies are **unreachable**.\n\n")
	}

	fmt.Fprintf(&b, "## Health\n\n| Check | Status |\n|---|---|\n")
	for _, res := range report.Checks {
		fmt.Fprintf(&b, "| %s | %s |\n", res.Name, res.Status)
	}

	fmt.Fprintf(&b, "\n## Web\n\n")
	fmt.Fprintf(&b, "- URL prefix: %s\n", cfg.System.URLPrefix)
	fmt.Fprintf(&b, "- Workers: %d (%s)\n", cfg.Web.Options.Workers, cfg.Web.Options.WorkerClass)
	fmt.Fprintf(&b, "- Single organization: %t\n", cfg.General.SingleOrganization)

	fmt.Fprintf(&b, "\n## Backends\n\n| Role | Backend | Source |\n|---|---|---|\n")
	for _, role := range config.Roles {
		key := config.BackendSetting(role)
		fmt.Fprintf(&b, "| %s | `%s` | %s |\n", role, cfg.Backends.ForRole(role).Path(), cfg.Source(key))
	}

	fmt.Fprintf(&b, "\n## Security\n\n")
	fmt.Fprintf(&b, "- HSTS: %d seconds, include subdomains %t\n", cfg.Security.HSTSSeconds, cfg.Security.HSTSIncludeSubdomains)
	fmt.Fprintf(&b, "- SSL redirect: %t\n", cfg.Security.SSLRedirect)
	fmt.Fprintf(&b, "- Frame deny: %t\n", cfg.Security.FrameDeny)
	return b.String()
}

func handleStatus(cfg *config.SentryConfig, checker *health.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := checker.Check(r.Context())

		var body bytes.Buffer
		if err := markdown.Convert([]byte(StatusMarkdown(cfg, report)), &body); err != nil {
			log.WithFields(log.Fields{"err": err}).Error("Rendering status page")
			http.Error(w, "failed to render status page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = statusPage.Execute(w, struct{ Body template.HTML }{template.HTML(body.String())})
	}
}
