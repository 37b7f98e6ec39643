package config

// Top-level framework settings.
const (
	KeyDatabase             = "DATABASES"
	KeyBrokerURL            = "BROKER_URL"
	KeyWebHost              = "SENTRY_WEB_HOST"
	KeyWebPort              = "SENTRY_WEB_PORT"
	KeyWebOptions           = "SENTRY_WEB_OPTIONS"
	KeyFeatures             = "SENTRY_FEATURES"
	KeyAWSAccessKeyID       = "AWS_ACCESS_KEY_ID"
	KeyAWSSecretAccessKey   = "AWS_SECRET_ACCESS_KEY"
	KeyAWSStorageBucketName = "AWS_STORAGE_BUCKET_NAME"
	KeyGoogleClientID       = "GOOGLE_CLIENT_ID"
	KeyGoogleClientSecret   = "GOOGLE_CLIENT_SECRET"
)

// SENTRY_OPTIONS keys.
const (
	KeySecretKey     = "system.secret-key"
	KeyURLPrefix     = "system.url-prefix"
	KeyAdminEmail    = "system.admin-email"
	KeyFilestore     = "filestore.backend"
	KeyFilestoreOpts = "filestore.options"
	KeyRedisClusters = "redis.clusters"
	KeyMailBackend   = "mail.backend"
	KeyMailHost      = "mail.host"
	KeyMailUsername  = "mail.username"
	KeyMailPassword  = "mail.password"
	KeyMailPort      = "mail.port"
	KeyMailUseTLS    = "mail.use-tls"
	KeyMailFrom      = "mail.from"
	KeyMailgunAPIKey = "mail.mailgun-api-key"
)

// backendKey returns the top-level setting a role is assigned through.
// Filestore and mail backends are Sentry options instead.
func backendKey(role Role) string {
	switch role {
	case RoleCache:
		return "SENTRY_CACHE"
	case RoleRateLimiter:
		return "SENTRY_RATELIMITER"
	case RoleBuffer:
		return "SENTRY_BUFFER"
	case RoleQuotas:
		return "SENTRY_QUOTAS"
	case RoleTSDB:
		return "SENTRY_TSDB"
	case RoleDigests:
		return "SENTRY_DIGESTS"
	case RoleFilestore:
		return KeyFilestore
	default:
		return KeyMailBackend
	}
}

// BackendSetting returns the setting name role is assigned through.
func BackendSetting(role Role) string {
	return backendKey(role)
}

// Options returns the SENTRY_OPTIONS mapping. Mail host, username and
// password are absent unless MAILJET_HOST was set.
func (c *SentryConfig) Options() map[string]any {
	options := map[string]any{
		KeySecretKey:     c.System.SecretKey,
		KeyURLPrefix:     c.System.URLPrefix,
		KeyAdminEmail:    c.System.AdminEmail,
		KeyFilestore:     c.Backends.Filestore.Path(),
		KeyFilestoreOpts: copyStrings(c.Filestore.Options),
		KeyRedisClusters: c.clusterOptions(),
		KeyMailBackend:   c.Backends.Mail.Path(),
		KeyMailPort:      c.Mail.Port,
		KeyMailUseTLS:    c.Mail.UseTLS,
		KeyMailFrom:      c.Mail.From,
		KeyMailgunAPIKey: c.Mail.MailgunAPIKey,
	}
	if c.Mail.Host != nil {
		options[KeyMailHost] = *c.Mail.Host
	}
	if c.Mail.Username != nil {
		options[KeyMailUsername] = *c.Mail.Username
	}
	if c.Mail.Password != nil {
		options[KeyMailPassword] = *c.Mail.Password
	}
	return options
}

func (c *SentryConfig) clusterOptions() map[string]any {
	clusters := make(map[string]any, len(c.Redis.Clusters))
	for name, cluster := range c.Redis.Clusters {
		hosts := make(map[int]any, len(cluster.Hosts))
		for i, h := range cluster.Hosts {
			hosts[i] = map[string]any{
				"host":     nilIfEmpty(h.Host),
				"port":     nilIfZero(h.Port),
				"password": derefOrNil(h.Password),
				"db":       h.DB,
			}
		}
		clusters[name] = map[string]any{"hosts": hosts}
	}
	return clusters
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilIfZero(i int) any {
	if i == 0 {
		return nil
	}
	return i
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func copyStrings(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
