package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for values the framework would reject
// or silently misuse.
func (c *SentryConfig) Validate() error {
	var errs []error

	for _, role := range Roles {
		b := c.Backends.ForRole(role)
		if !b.IsABackend() {
			errs = append(errs, fmt.Errorf("%s: unknown backend %d", role, int(b)))
			continue
		}
		if b.Role() != role {
			errs = append(errs, fmt.Errorf("%s: backend %s cannot be used as %s", backendKey(role), b, role))
		}
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s: port %d out of range", KeyWebPort, c.Web.Port))
	}
	if c.Web.Options.Workers < 1 {
		errs = append(errs, fmt.Errorf("%s: workers must be at least 1", KeyWebOptions))
	}

	if c.System.SecretKey == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeySecretKey))
	}
	if u, err := url.Parse(c.System.URLPrefix); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%s must be an absolute http(s) URL, got %q", KeyURLPrefix, c.System.URLPrefix))
	}

	if _, ok := c.DefaultCluster(); !ok {
		errs = append(errs, fmt.Errorf("%s: missing default cluster", KeyRedisClusters))
	}

	if c.Mail.Host != nil && (c.Mail.Username == nil || c.Mail.Password == nil) {
		errs = append(errs, fmt.Errorf("%s is set without credentials", KeyMailHost))
	}

	return errors.Join(errs...)
}

// Warnings reports settings that are accepted but probably wrong.
func (c *SentryConfig) Warnings() []string {
	var warnings []string
	if c.Backends.Filestore == BackendS3BotoStorage && c.AWS.StorageBucketName == nil {
		warnings = append(warnings, "filestore uses S3 but AWS_STORAGE_BUCKET_NAME is not set")
	}
	if c.Backends.Mail == BackendSMTPMail && c.Mail.Host == nil {
		warnings = append(warnings, "mail uses SMTP but MAILJET_HOST is not set; the framework default host applies")
	}
	if !c.Database.IsSet() {
		warnings = append(warnings, "DATABASE_URL is not set; the framework default database applies")
	}
	return warnings
}
