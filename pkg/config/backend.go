package config

import "fmt"

//go:generate go run github.com/dmarkham/enumer -type Backend -trimprefix Backend -transform lower -yaml -output backend.gen.go

// Backend names a pluggable implementation the Sentry framework instantiates
// at startup. The implementations themselves live in Sentry; only the import
// path is selected here.
type Backend int

const (
	BackendRedisCache Backend = iota
	BackendDjangoCache
	BackendRedisRateLimiter
	BackendBaseRateLimiter
	BackendRedisBuffer
	BackendInProcessBuffer
	BackendRedisQuota
	BackendBaseQuota
	BackendRedisTSDB
	BackendDummyTSDB
	BackendRedisDigests
	BackendDummyDigests
	BackendS3BotoStorage
	BackendFilesystem
	BackendSMTPMail
	BackendConsoleMail
	BackendDummyMail
)

// Role is the framework setting a Backend can be assigned to.
type Role string

const (
	RoleCache       Role = "cache"
	RoleRateLimiter Role = "ratelimiter"
	RoleBuffer      Role = "buffer"
	RoleQuotas      Role = "quotas"
	RoleTSDB        Role = "tsdb"
	RoleDigests     Role = "digests"
	RoleFilestore   Role = "filestore"
	RoleMail        Role = "mail"
)

// Roles lists every role in the order settings are rendered.
var Roles = []Role{
	RoleCache, RoleRateLimiter, RoleBuffer, RoleQuotas,
	RoleTSDB, RoleDigests, RoleFilestore, RoleMail,
}

type backendInfo struct {
	role Role
	path string
}

var backendTable = map[Backend]backendInfo{
	BackendRedisCache:       {RoleCache, "sentry.cache.redis.RedisCache"},
	BackendDjangoCache:      {RoleCache, "sentry.cache.django.DjangoCache"},
	BackendRedisRateLimiter: {RoleRateLimiter, "sentry.ratelimits.redis.RedisRateLimiter"},
	BackendBaseRateLimiter:  {RoleRateLimiter, "sentry.ratelimits.base.RateLimiter"},
	BackendRedisBuffer:      {RoleBuffer, "sentry.buffer.redis.RedisBuffer"},
	BackendInProcessBuffer:  {RoleBuffer, "sentry.buffer.base.Buffer"},
	BackendRedisQuota:       {RoleQuotas, "sentry.quotas.redis.RedisQuota"},
	BackendBaseQuota:        {RoleQuotas, "sentry.quotas.base.Quota"},
	BackendRedisTSDB:        {RoleTSDB, "sentry.tsdb.redis.RedisTSDB"},
	BackendDummyTSDB:        {RoleTSDB, "sentry.tsdb.dummy.DummyTSDB"},
	BackendRedisDigests:     {RoleDigests, "sentry.digests.backends.redis.RedisBackend"},
	BackendDummyDigests:     {RoleDigests, "sentry.digests.backends.dummy.DummyBackend"},
	BackendS3BotoStorage:    {RoleFilestore, "storages.backends.s3boto.S3BotoStorage"},
	BackendFilesystem:       {RoleFilestore, "filesystem"},
	BackendSMTPMail:         {RoleMail, "django.core.mail.backends.smtp.EmailBackend"},
	BackendConsoleMail:      {RoleMail, "django.core.mail.backends.console.EmailBackend"},
	BackendDummyMail:        {RoleMail, "django.core.mail.backends.dummy.EmailBackend"},
}

// Role returns the setting this backend can fill.
func (b Backend) Role() Role {
	return backendTable[b].role
}

// Path returns the identifier the framework resolves, usually a dotted
// Python import path.
func (b Backend) Path() string {
	if info, ok := backendTable[b]; ok {
		return info.path
	}
	return ""
}

// ParseBackend parses a backend name and checks it can fill role.
func ParseBackend(role Role, name string) (Backend, error) {
	b, err := BackendString(name)
	if err != nil {
		return 0, err
	}
	if b.Role() != role {
		return 0, fmt.Errorf("backend %s cannot be used as %s", b, role)
	}
	return b, nil
}

// Backends holds the selected implementation for every role.
type Backends struct {
	Cache       Backend `yaml:"cache" json:"cache"`
	RateLimiter Backend `yaml:"ratelimiter" json:"ratelimiter"`
	Buffer      Backend `yaml:"buffer" json:"buffer"`
	Quotas      Backend `yaml:"quotas" json:"quotas"`
	TSDB        Backend `yaml:"tsdb" json:"tsdb"`
	Digests     Backend `yaml:"digests" json:"digests"`
	Filestore   Backend `yaml:"filestore" json:"filestore"`
	Mail        Backend `yaml:"mail" json:"mail"`
}

func defaultBackends() Backends {
	return Backends{
		Cache:       BackendRedisCache,
		RateLimiter: BackendRedisRateLimiter,
		Buffer:      BackendRedisBuffer,
		Quotas:      BackendRedisQuota,
		TSDB:        BackendRedisTSDB,
		Digests:     BackendRedisDigests,
		Filestore:   BackendS3BotoStorage,
		Mail:        BackendSMTPMail,
	}
}

// ForRole returns the backend selected for role.
func (b Backends) ForRole(role Role) Backend {
	return *b.slot(role)
}

func (b *Backends) set(role Role, backend Backend) {
	*b.slot(role) = backend
}

func (b *Backends) slot(role Role) *Backend {
	switch role {
	case RoleCache:
		return &b.Cache
	case RoleRateLimiter:
		return &b.RateLimiter
	case RoleBuffer:
		return &b.Buffer
	case RoleQuotas:
		return &b.Quotas
	case RoleTSDB:
		return &b.TSDB
	case RoleDigests:
		return &b.Digests
	case RoleFilestore:
		return &b.Filestore
	default:
		return &b.Mail
	}
}
