package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/sentry"
	ConfigFileName    = "sentryctl.yml"

	DefaultWebPort     = 3000
	DefaultMailFrom    = "root@localhost"
	DefaultHSTSSeconds = 31536000
)

const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// SentryConfig holds every setting handed to the Sentry framework. A loaded
// value is never mutated; Reload publishes a new one.
type SentryConfig struct {
	General    GeneralSettings
	Database   DatabaseSettings
	Redis      RedisSettings
	BrokerURL  string
	Backends   Backends
	Web        WebSettings
	System     SystemSettings
	Filestore  FilestoreSettings
	Mail       MailSettings
	AWS        AWSSettings
	Features   map[string]bool
	Security   SecuritySettings
	Bcrypt     BcryptSettings
	GoogleAuth GoogleAuthSettings

	// InstalledApps and Middleware are appended to the framework defaults
	InstalledApps []string
	Middleware    []string

	// sources tracks where each value came from
	sources map[string]string

	configFilePath string
}

// GeneralSettings are install-wide switches.
type GeneralSettings struct {
	SingleOrganization bool
	Debug              bool
	// UseBigInts must not change after the database has been created
	UseBigInts bool
}

// RedisSettings holds the raw REDIS_URL and the cluster descriptor derived from it.
type RedisSettings struct {
	URL      string
	Clusters map[string]RedisCluster
}

// WebSettings configures the Sentry web workers.
type WebSettings struct {
	Host    string
	Port    int
	Options WebOptions
}

// WebOptions is passed through to the worker process manager.
type WebOptions struct {
	SecureSchemeHeaders map[string]string
	WorkerClass         string
	Workers             int
}

// SystemSettings are the system.* Sentry options.
type SystemSettings struct {
	SecretKey  string
	URLPrefix  string
	AdminEmail string
}

// FilestoreSettings are the filestore.* Sentry options besides the backend.
type FilestoreSettings struct {
	Options map[string]string
}

// MailSettings are the mail.* Sentry options. Host, Username and Password
// are only set when MAILJET_HOST is present.
type MailSettings struct {
	Host          *string
	Username      *string
	Password      *string
	Port          int
	UseTLS        bool
	From          string
	MailgunAPIKey string
}

// AWSSettings are read by the S3 storage driver.
type AWSSettings struct {
	AccessKeyID       *string
	SecretAccessKey   *string
	StorageBucketName *string
	DefaultACL        string
}

// SecuritySettings drive the security middleware. They are always enabled.
type SecuritySettings struct {
	ProxySSLHeader        [2]string
	SessionCookieHTTPOnly bool
	SessionCookieSecure   bool
	ContentTypeNosniff    bool
	BrowserXSSFilter      bool
	FrameDeny             bool
	HSTSSeconds           int
	HSTSIncludeSubdomains bool
	SSLRedirect           bool
}

// BcryptSettings configure password hash migration.
type BcryptSettings struct {
	Migrate bool
}

// GoogleAuthSettings are passed to the Google login plugin.
type GoogleAuthSettings struct {
	ClientID     *string
	ClientSecret *string
}

// fileConfig is the optional YAML overlay. Pointers distinguish unset keys.
type fileConfig struct {
	Backends map[Role]Backend `yaml:"backends"`
	Web      struct {
		WorkerClass *string `yaml:"worker_class"`
		Workers     *int    `yaml:"workers"`
	} `yaml:"web"`
	Features   map[string]bool `yaml:"features"`
	AdminEmail *string         `yaml:"admin_email"`
	MailFrom   *string         `yaml:"mail_from"`
}

// Global singleton config
var (
	globalConfig *SentryConfig
	configMu     sync.RWMutex
)

// Get returns the process-wide configuration, loading it on first use.
func Get() (*SentryConfig, error) {
	configMu.RLock()
	if globalConfig != nil {
		defer configMu.RUnlock()
		return globalConfig, nil
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			return nil, err
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// Reload loads the configuration again and publishes it. The previous value
// stays in place if loading fails.
func Reload() (*SentryConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

// newDefault returns a config with the deployment's fixed values
func newDefault() *SentryConfig {
	return &SentryConfig{
		General: GeneralSettings{
			SingleOrganization: true,
			Debug:              false,
			UseBigInts:         true,
		},
		Redis:    RedisSettings{Clusters: map[string]RedisCluster{}},
		Backends: defaultBackends(),
		Web: WebSettings{
			Host: "0.0.0.0",
			Port: DefaultWebPort,
			Options: WebOptions{
				SecureSchemeHeaders: map[string]string{"X-FORWARDED-PROTO": "https"},
				WorkerClass:         "gevent",
				Workers:             3,
			},
		},
		Filestore: FilestoreSettings{Options: map[string]string{}},
		Mail: MailSettings{
			Port:   587,
			UseTLS: true,
			From:   DefaultMailFrom,
		},
		AWS:      AWSSettings{DefaultACL: "private"},
		Features: map[string]bool{"auth:register": false},
		Security: SecuritySettings{
			ProxySSLHeader:        [2]string{"HTTP_X_FORWARDED_PROTO", "https"},
			SessionCookieHTTPOnly: true,
			SessionCookieSecure:   true,
			ContentTypeNosniff:    true,
			BrowserXSSFilter:      true,
			FrameDeny:             true,
			HSTSSeconds:           DefaultHSTSSeconds,
			HSTSIncludeSubdomains: true,
			SSLRedirect:           true,
		},
		Bcrypt:        BcryptSettings{Migrate: true},
		InstalledApps: []string{"djangosecure", "django_bcrypt"},
		Middleware:    []string{"djangosecure.middleware.SecurityMiddleware"},
		sources:       make(map[string]string),
	}
}

// Load builds the configuration from defaults, the optional overlay file and
// the environment. Environment variables take precedence over file values.
func Load() (*SentryConfig, error) {
	config := newDefault()

	configPath := os.Getenv("SENTRY_CONF")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		if err := config.applyFileConfig(&file); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", config.configFilePath, err)
		}
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *SentryConfig) applyFileConfig(file *fileConfig) error {
	for role, backend := range file.Backends {
		if backend.Role() != role {
			return fmt.Errorf("backend %s cannot be used as %s", backend, role)
		}
		c.Backends.set(role, backend)
		c.sources[backendKey(role)] = SourceFile
	}
	if file.Web.WorkerClass != nil {
		c.Web.Options.WorkerClass = *file.Web.WorkerClass
		c.sources[KeyWebOptions] = SourceFile
	}
	if file.Web.Workers != nil {
		c.Web.Options.Workers = *file.Web.Workers
		c.sources[KeyWebOptions] = SourceFile
	}
	for name, enabled := range file.Features {
		c.Features[name] = enabled
		c.sources[KeyFeatures] = SourceFile
	}
	if file.AdminEmail != nil {
		c.System.AdminEmail = *file.AdminEmail
		c.sources[KeyAdminEmail] = SourceFile
	}
	if file.MailFrom != nil {
		c.Mail.From = *file.MailFrom
		c.sources[KeyMailFrom] = SourceFile
	}
	return nil
}

func (c *SentryConfig) applyEnvConfig() error {
	var missing []string
	require := func(name string) string {
		val, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
		}
		return val
	}

	redisURL := require("REDIS_URL")
	secretKey := require("SECRET_KEY")
	urlPrefix := require("SENTRY_URL_PREFIX")

	var mailjetKey, mailjetSecret string
	mailjetHost, hasMailjet := os.LookupEnv("MAILJET_HOST")
	if hasMailjet {
		mailjetKey = require("MAILJET_API_KEY")
		mailjetSecret = require("MAILJET_PRIVATE_KEY")
	}

	if len(missing) > 0 {
		return &MissingEnvError{Names: missing}
	}

	if val := os.Getenv("DATABASE_URL"); val != "" {
		db, err := ParseDatabaseURL(val)
		if err != nil {
			return fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		c.Database = db
		c.sources[KeyDatabase] = SourceEnvironment
	}

	cluster, err := ParseRedisCluster(redisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	c.Redis.URL = redisURL
	c.Redis.Clusters["default"] = cluster
	c.BrokerURL = redisURL + "/0"
	c.sources[KeyRedisClusters] = SourceEnvironment
	c.sources[KeyBrokerURL] = SourceEnvironment

	for _, role := range Roles {
		name := BackendEnvVar(role)
		if val := os.Getenv(name); val != "" {
			backend, err := ParseBackend(role, val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
			c.Backends.set(role, backend)
			c.sources[backendKey(role)] = SourceEnvironment
		}
	}

	if val, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", val, err)
		}
		c.Web.Port = port
		c.sources[KeyWebPort] = SourceEnvironment
	}
	if val := os.Getenv("SENTRY_WEB_WORKERS"); val != "" {
		workers, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid SENTRY_WEB_WORKERS %q: %w", val, err)
		}
		c.Web.Options.Workers = workers
		c.sources[KeyWebOptions] = SourceEnvironment
	}

	c.System.SecretKey = secretKey
	c.sources[KeySecretKey] = SourceEnvironment
	c.System.URLPrefix = urlPrefix
	c.sources[KeyURLPrefix] = SourceEnvironment
	if val, ok := os.LookupEnv("SENTRY_ADMIN_EMAIL"); ok {
		c.System.AdminEmail = val
		c.sources[KeyAdminEmail] = SourceEnvironment
	}

	if hasMailjet {
		c.Mail.Host = &mailjetHost
		c.Mail.Username = &mailjetKey
		c.Mail.Password = &mailjetSecret
		c.sources[KeyMailHost] = SourceEnvironment
		c.sources[KeyMailUsername] = SourceEnvironment
		c.sources[KeyMailPassword] = SourceEnvironment
	}
	if val, ok := os.LookupEnv("SERVER_EMAIL"); ok {
		c.Mail.From = val
		c.sources[KeyMailFrom] = SourceEnvironment
	}
	if val, ok := os.LookupEnv("MAILGUN_API_KEY"); ok {
		c.Mail.MailgunAPIKey = val
		c.sources[KeyMailgunAPIKey] = SourceEnvironment
	}

	c.AWS.AccessKeyID = c.optionalEnv("AWS_ACCESS_KEY_ID", KeyAWSAccessKeyID)
	c.AWS.SecretAccessKey = c.optionalEnv("AWS_SECRET_ACCESS_KEY", KeyAWSSecretAccessKey)
	c.AWS.StorageBucketName = c.optionalEnv("AWS_STORAGE_BUCKET_NAME", KeyAWSStorageBucketName)

	c.GoogleAuth.ClientID = c.optionalEnv("GOOGLE_CLIENT_ID", KeyGoogleClientID)
	c.GoogleAuth.ClientSecret = c.optionalEnv("GOOGLE_CLIENT_SECRET", KeyGoogleClientSecret)

	return nil
}

func (c *SentryConfig) optionalEnv(name, key string) *string {
	val, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	c.sources[key] = SourceEnvironment
	return &val
}

// BackendEnvVar returns the environment variable overriding the backend for role.
func BackendEnvVar(role Role) string {
	return "SENTRY_" + strings.ToUpper(string(role)) + "_BACKEND"
}

// ConfigFilePath returns the path of the overlay file, whether or not it exists.
func (c *SentryConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *SentryConfig) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// DefaultCluster returns the cluster every Redis-backed service uses.
func (c *SentryConfig) DefaultCluster() (RedisCluster, bool) {
	cluster, ok := c.Redis.Clusters["default"]
	return cluster, ok
}
