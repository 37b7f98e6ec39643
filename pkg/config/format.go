package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const maskedValue = "********"

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Attributes returns every setting with its value and source. Secrets are masked.
func (c *SentryConfig) Attributes() []Attribute {
	attrs := []Attribute{
		{Name: KeyDatabase, Value: redactURL(c.Database.URL), Source: c.Source(KeyDatabase)},
		{Name: KeyBrokerURL, Value: redactURL(c.BrokerURL), Source: c.Source(KeyBrokerURL)},
	}
	for _, role := range Roles {
		if role == RoleFilestore || role == RoleMail {
			continue
		}
		key := backendKey(role)
		attrs = append(attrs, Attribute{Name: key, Value: c.Backends.ForRole(role).Path(), Source: c.Source(key)})
	}

	attrs = append(attrs,
		Attribute{Name: KeyWebHost, Value: c.Web.Host, Source: c.Source(KeyWebHost)},
		Attribute{Name: KeyWebPort, Value: strconv.Itoa(c.Web.Port), Source: c.Source(KeyWebPort)},
		Attribute{Name: KeyWebOptions, Value: fmt.Sprintf("worker_class=%s workers=%d", c.Web.Options.WorkerClass, c.Web.Options.Workers), Source: c.Source(KeyWebOptions)},
		Attribute{Name: KeySecretKey, Value: mask(c.System.SecretKey), Source: c.Source(KeySecretKey)},
		Attribute{Name: KeyURLPrefix, Value: c.System.URLPrefix, Source: c.Source(KeyURLPrefix)},
		Attribute{Name: KeyAdminEmail, Value: c.System.AdminEmail, Source: c.Source(KeyAdminEmail)},
		Attribute{Name: KeyFilestore, Value: c.Backends.Filestore.Path(), Source: c.Source(KeyFilestore)},
		Attribute{Name: KeyRedisClusters, Value: c.formatClusters(), Source: c.Source(KeyRedisClusters)},
		Attribute{Name: KeyMailBackend, Value: c.Backends.Mail.Path(), Source: c.Source(KeyMailBackend)},
		Attribute{Name: KeyMailHost, Value: deref(c.Mail.Host), Source: c.Source(KeyMailHost)},
		Attribute{Name: KeyMailUsername, Value: deref(c.Mail.Username), Source: c.Source(KeyMailUsername)},
		Attribute{Name: KeyMailPassword, Value: mask(deref(c.Mail.Password)), Source: c.Source(KeyMailPassword)},
		Attribute{Name: KeyMailPort, Value: strconv.Itoa(c.Mail.Port), Source: c.Source(KeyMailPort)},
		Attribute{Name: KeyMailUseTLS, Value: strconv.FormatBool(c.Mail.UseTLS), Source: c.Source(KeyMailUseTLS)},
		Attribute{Name: KeyMailFrom, Value: c.Mail.From, Source: c.Source(KeyMailFrom)},
		Attribute{Name: KeyMailgunAPIKey, Value: mask(c.Mail.MailgunAPIKey), Source: c.Source(KeyMailgunAPIKey)},
		Attribute{Name: KeyAWSAccessKeyID, Value: deref(c.AWS.AccessKeyID), Source: c.Source(KeyAWSAccessKeyID)},
		Attribute{Name: KeyAWSSecretAccessKey, Value: mask(deref(c.AWS.SecretAccessKey)), Source: c.Source(KeyAWSSecretAccessKey)},
		Attribute{Name: KeyAWSStorageBucketName, Value: deref(c.AWS.StorageBucketName), Source: c.Source(KeyAWSStorageBucketName)},
		Attribute{Name: KeyFeatures, Value: c.formatFeatures(), Source: c.Source(KeyFeatures)},
		Attribute{Name: KeyGoogleClientID, Value: deref(c.GoogleAuth.ClientID), Source: c.Source(KeyGoogleClientID)},
		Attribute{Name: KeyGoogleClientSecret, Value: mask(deref(c.GoogleAuth.ClientSecret)), Source: c.Source(KeyGoogleClientSecret)},
		Attribute{Name: "SECURE_HSTS_SECONDS", Value: strconv.Itoa(c.Security.HSTSSeconds), Source: SourceDefault},
		Attribute{Name: "SECURE_SSL_REDIRECT", Value: strconv.FormatBool(c.Security.SSLRedirect), Source: SourceDefault},
	)
	return attrs
}

func (c *SentryConfig) formatClusters() string {
	names := make([]string, 0, len(c.Redis.Clusters))
	for name := range c.Redis.Clusters {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		h, ok := c.Redis.Clusters[name].Primary()
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s db=%d", name, h.Addr(), h.DB))
	}
	return strings.Join(parts, ",")
}

func (c *SentryConfig) formatFeatures() string {
	names := make([]string, 0, len(c.Features))
	for name := range c.Features {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%t", name, c.Features[name]))
	}
	return strings.Join(parts, ",")
}

// FormatText returns a text representation of the configuration
func (c *SentryConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-26s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-26s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-26s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *SentryConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return maskedValue
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return maskedValue
	}
	return u.Redacted()
}
