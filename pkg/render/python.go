package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
)

type setting struct {
	Name  string
	Value string
}

type pythonView struct {
	Database           string
	UseBigInts         string
	SingleOrganization string
	Debug              string
	Backends           []setting
	BrokerURL          string
	WebHost            string
	WebPort            string
	WebOptions         string
	Options            []setting
	AWS                []setting
	Features           []setting
	InstalledApps      string
	Middleware         string
	Security           []setting
	BcryptMigrate      string
	GoogleAuth         []setting
}

var pythonTemplate = template.Must(template.New("sentry.conf.py").Parse(`# Generated by sentryctl. Local edits are overwritten on the next render.
from sentry.conf.server import *  # NOQA

import os.path

CONF_ROOT = os.path.dirname(__file__)

DATABASES = {
    'default': {{ .Database }}
}

# You should not change this setting after your database has been created
# unless you have altered all schemas first
SENTRY_USE_BIG_INTS = {{ .UseBigInts }}

###########
# General #
###########

SENTRY_SINGLE_ORGANIZATION = {{ .SingleOrganization }}
DEBUG = {{ .Debug }}

############
# Backends #
############
{{ range .Backends }}
{{ .Name }} = {{ .Value }}
{{- end }}

#########
# Queue #
#########

BROKER_URL = {{ .BrokerURL }}

##############
# Web Server #
##############

SENTRY_WEB_HOST = {{ .WebHost }}
SENTRY_WEB_PORT = {{ .WebPort }}
SENTRY_WEB_OPTIONS = {{ .WebOptions }}

##################
# Sentry Options #
##################
{{ range .Options }}
SENTRY_OPTIONS[{{ .Name }}] = {{ .Value }}
{{- end }}
{{ range .AWS }}
{{ .Name }} = {{ .Value }}
{{- end }}

###################
# Sentry Features #
###################
{{ range .Features }}
SENTRY_FEATURES[{{ .Name }}] = {{ .Value }}
{{- end }}

############
# Security #
############

INSTALLED_APPS += {{ .InstalledApps }}
MIDDLEWARE_CLASSES += {{ .Middleware }}
{{ range .Security }}
{{ .Name }} = {{ .Value }}
{{- end }}

##########
# Bcrypt #
##########

BCRYPT_MIGRATE = {{ .BcryptMigrate }}

###############
# Google Auth #
###############
{{ range .GoogleAuth }}
{{ .Name }} = {{ .Value }}
{{- end }}
`))

// optionOrder is the order SENTRY_OPTIONS assignments are written in.
var optionOrder = []string{
	config.KeySecretKey,
	config.KeyURLPrefix,
	config.KeyAdminEmail,
	config.KeyFilestore,
	config.KeyFilestoreOpts,
	config.KeyRedisClusters,
	config.KeyMailBackend,
	config.KeyMailHost,
	config.KeyMailUsername,
	config.KeyMailPassword,
	config.KeyMailPort,
	config.KeyMailUseTLS,
	config.KeyMailFrom,
	config.KeyMailgunAPIKey,
}

// Python writes a sentry.conf.py settings module for cfg.
func Python(w io.Writer, cfg *config.SentryConfig) error {
	view := pythonView{
		Database:           pyLiteral(databaseDict(cfg.Database)),
		UseBigInts:         pyLiteral(cfg.General.UseBigInts),
		SingleOrganization: pyLiteral(cfg.General.SingleOrganization),
		Debug:              pyLiteral(cfg.General.Debug),
		BrokerURL:          pyLiteral(cfg.BrokerURL),
		WebHost:            pyLiteral(cfg.Web.Host),
		WebPort:            pyLiteral(cfg.Web.Port),
		WebOptions: pyLiteral(map[string]any{
			"secure_scheme_headers": cfg.Web.Options.SecureSchemeHeaders,
			"worker_class":          cfg.Web.Options.WorkerClass,
			"workers":               cfg.Web.Options.Workers,
		}),
		InstalledApps: pyTuple(cfg.InstalledApps),
		Middleware:    pyTuple(cfg.Middleware),
		BcryptMigrate: pyLiteral(cfg.Bcrypt.Migrate),
	}

	for _, role := range config.Roles {
		if role == config.RoleFilestore || role == config.RoleMail {
			continue
		}
		view.Backends = append(view.Backends, setting{
			Name:  config.BackendSetting(role),
			Value: pyLiteral(cfg.Backends.ForRole(role).Path()),
		})
	}

	options := cfg.Options()
	for _, key := range optionOrder {
		if value, ok := options[key]; ok {
			view.Options = append(view.Options, setting{Name: pyLiteral(key), Value: pyLiteral(value)})
		}
	}

	view.AWS = []setting{
		{Name: config.KeyAWSAccessKeyID, Value: pyLiteral(cfg.AWS.AccessKeyID)},
		{Name: config.KeyAWSSecretAccessKey, Value: pyLiteral(cfg.AWS.SecretAccessKey)},
		{Name: config.KeyAWSStorageBucketName, Value: pyLiteral(cfg.AWS.StorageBucketName)},
		{Name: "AWS_DEFAULT_ACL", Value: pyLiteral(cfg.AWS.DefaultACL)},
	}

	for _, name := range sortedKeys(cfg.Features) {
		view.Features = append(view.Features, setting{Name: pyLiteral(name), Value: pyLiteral(cfg.Features[name])})
	}

	s := cfg.Security
	view.Security = []setting{
		{Name: "SECURE_PROXY_SSL_HEADER", Value: pyTuple(s.ProxySSLHeader[:])},
		{Name: "SESSION_COOKIE_HTTPONLY", Value: pyLiteral(s.SessionCookieHTTPOnly)},
		{Name: "SESSION_COOKIE_SECURE", Value: pyLiteral(s.SessionCookieSecure)},
		{Name: "SECURE_CONTENT_TYPE_NOSNIFF", Value: pyLiteral(s.ContentTypeNosniff)},
		{Name: "SECURE_BROWSER_XSS_FILTER", Value: pyLiteral(s.BrowserXSSFilter)},
		{Name: "SECURE_FRAME_DENY", Value: pyLiteral(s.FrameDeny)},
		{Name: "SECURE_HSTS_SECONDS", Value: pyLiteral(s.HSTSSeconds)},
		{Name: "SECURE_HSTS_INCLUDE_SUBDOMAINS", Value: pyLiteral(s.HSTSIncludeSubdomains)},
		{Name: "SECURE_SSL_REDIRECT", Value: pyLiteral(s.SSLRedirect)},
	}

	view.GoogleAuth = []setting{
		{Name: config.KeyGoogleClientID, Value: pyLiteral(cfg.GoogleAuth.ClientID)},
		{Name: config.KeyGoogleClientSecret, Value: pyLiteral(cfg.GoogleAuth.ClientSecret)},
	}

	return pythonTemplate.Execute(w, view)
}

// databaseDict mirrors the mapping dj_database_url produces; an unset
// database renders as an empty dict.
func databaseDict(db config.DatabaseSettings) map[string]any {
	if !db.IsSet() {
		return map[string]any{}
	}
	d := map[string]any{
		"ENGINE":   db.Engine,
		"NAME":     db.Name,
		"USER":     db.User,
		"PASSWORD": db.Password,
		"HOST":     db.Host,
		"PORT":     "",
	}
	if db.Port != 0 {
		d["PORT"] = db.Port
	}
	if len(db.Options) > 0 {
		d["OPTIONS"] = db.Options
	}
	return d
}

// pyLiteral formats v as a Python literal. Map keys are sorted so the
// output is stable.
func pyLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case *string:
		if v == nil {
			return "None"
		}
		return pyString(*v)
	case string:
		return pyString(v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = val
		}
		return pyLiteral(m)
	case map[string]any:
		parts := make([]string, 0, len(v))
		for _, k := range sortedKeys(v) {
			parts = append(parts, pyString(k)+": "+pyLiteral(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case map[int]any:
		keys := make([]int, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, strconv.Itoa(k)+": "+pyLiteral(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []string:
		return pyTuple(v)
	default:
		return pyString(fmt.Sprint(v))
	}
}

func pyTuple(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = pyString(item)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

var pyEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func pyString(s string) string {
	return "'" + pyEscaper.Replace(s) + "'"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
