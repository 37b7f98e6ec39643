package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

const (
	EnginePostgres = "django.db.backends.postgresql_psycopg2"
	EnginePostGIS  = "django.contrib.gis.db.backends.postgis"
	EngineMySQL    = "django.db.backends.mysql"
	EngineSQLite   = "django.db.backends.sqlite3"
)

var databaseSchemes = map[string]string{
	"postgres":   EnginePostgres,
	"postgresql": EnginePostgres,
	"pgsql":      EnginePostgres,
	"postgis":    EnginePostGIS,
	"mysql":      EngineMySQL,
	"mysql2":     EngineMySQL,
	"sqlite":     EngineSQLite,
}

// DatabaseSettings is the "default" entry of the framework's DATABASES mapping.
type DatabaseSettings struct {
	URL      string
	Engine   string
	Name     string
	User     string
	Password string
	Host     string
	// Port is 0 when the URL carries none
	Port    int
	Options map[string]string
}

// ParseDatabaseURL splits a database URL into framework settings.
func ParseDatabaseURL(rawURL string) (DatabaseSettings, error) {
	if rawURL == "sqlite://:memory:" {
		return DatabaseSettings{URL: rawURL, Engine: EngineSQLite, Name: ":memory:"}, nil
	}

	cleaned, socket, err := splitSocketHost(rawURL)
	if err != nil {
		return DatabaseSettings{}, err
	}
	u, err := url.Parse(cleaned)
	if err != nil {
		return DatabaseSettings{}, err
	}
	engine, ok := databaseSchemes[u.Scheme]
	if !ok {
		return DatabaseSettings{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	settings := DatabaseSettings{
		URL:    rawURL,
		Engine: engine,
		Name:   strings.TrimPrefix(u.Path, "/"),
		Host:   u.Hostname(),
	}
	if socket != "" {
		settings.Host = socket
	}
	if u.Scheme == "sqlite" && settings.Name == "" {
		settings.Name = ":memory:"
	}
	if u.User != nil {
		settings.User = u.User.Username()
		settings.Password, _ = u.User.Password()
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return DatabaseSettings{}, fmt.Errorf("invalid port %q: %w", p, err)
		}
		settings.Port = port
	}
	if query := u.Query(); len(query) > 0 {
		settings.Options = make(map[string]string, len(query))
		for key := range query {
			settings.Options[key] = query.Get(key)
		}
	}

	return settings, nil
}

// IsSet reports whether DATABASE_URL provided any settings.
func (d DatabaseSettings) IsSet() bool {
	return d.Engine != ""
}

// IsPostgres reports whether the engine speaks the Postgres protocol.
func (d DatabaseSettings) IsPostgres() bool {
	return d.Engine == EnginePostgres || d.Engine == EnginePostGIS
}

// DSN converts the URL into a libpq key/value connection string.
func (d DatabaseSettings) DSN() (string, error) {
	if !d.IsPostgres() {
		return "", fmt.Errorf("engine %s is not a postgres engine", d.Engine)
	}
	cleaned, socket, err := splitSocketHost(d.URL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(cleaned)
	if err != nil {
		return "", err
	}
	u.Scheme = "postgres"
	dsn, err := pq.ParseURL(u.String())
	if err != nil {
		return "", err
	}
	if socket != "" {
		// later keys win in a libpq connection string
		dsn += " host=" + dsnQuote(socket)
	}
	return dsn, nil
}

// splitSocketHost pulls a percent-encoded unix socket directory such as
// %2Fvar%2Frun%2Fpostgresql out of the URL authority, which url.Parse
// rejects, and swaps in localhost so the remainder parses.
func splitSocketHost(rawURL string) (cleaned, socket string, err error) {
	schemeEnd := strings.Index(rawURL, "://")
	if schemeEnd < 0 {
		return rawURL, "", nil
	}
	start := schemeEnd + len("://")
	end := len(rawURL)
	if i := strings.IndexAny(rawURL[start:], "/?#"); i >= 0 {
		end = start + i
	}
	authority := rawURL[start:end]

	userinfo, hostport := "", authority
	if at := strings.LastIndex(authority, "@"); at >= 0 {
		userinfo, hostport = authority[:at+1], authority[at+1:]
	}
	if !strings.Contains(strings.ToLower(hostport), "%2f") {
		return rawURL, "", nil
	}

	host, port := hostport, ""
	if colon := strings.LastIndex(hostport, ":"); colon >= 0 {
		host, port = hostport[:colon], hostport[colon:]
	}
	socket, err = url.PathUnescape(host)
	if err != nil {
		return "", "", fmt.Errorf("invalid socket host %q: %w", host, err)
	}
	return rawURL[:start] + userinfo + "localhost" + port + rawURL[end:], socket, nil
}

func dsnQuote(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}
