// internal/config/model.go
//
// Typed configuration model for Sitegate.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            dotenv values,
//   • `conf/global.yaml`                         primary static file,
//   • `SITEGATE_`-prefixed environment overrides highest precedence.
//
// Any string value beginning with `vault:` is resolved through Vault
// before unmarshalling, so the model only ever holds plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`; Koanf ignores `yaml` tags.
//   • Durations accept Go syntax ("250ms", "30m").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import (
	"time"

	"github.com/yanizio/sitegate/internal/routing"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

//
// Database section
//

// Database selects the content store.  Fixtures, when set, replaces MySQL
// with an in-memory repository loaded from YAML.
type Database struct {
	DSN            string `koanf:"dsn"             validate:"required_without=Fixtures"`
	Fixtures       string `koanf:"fixtures"`
	MaxOpen        int    `koanf:"max_open"        validate:"gte=0"`
	MaxIdle        int    `koanf:"max_idle"        validate:"gte=0"`
	LocalhostAlias string `koanf:"localhost_alias" validate:"omitempty,hostname"`
}

//
// Small sections
//

// Forms points at shared form definitions.
type Forms struct {
	Dir string `koanf:"dir"`
}

// Log controls the zap logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

// Geo enables MaxMind lookups when DatabasePath is set.
type Geo struct {
	DatabasePath string `koanf:"database_path"`
}

// Tenant tunes the host → tenant cache.  CacheMaxAge bounds how long a
// resolution is trusted regardless of traffic.
type Tenant struct {
	CacheTTL        time.Duration `koanf:"cache_ttl"         validate:"gte=0"`
	CacheMaxAge     time.Duration `koanf:"cache_max_age"     validate:"gte=0"`
	CacheMaxEntries int           `koanf:"cache_max_entries" validate:"gte=0"`
}

//
// Render section
//

// Render holds the prerender policies.
type Render struct {
	SystemDomains        []string      `koanf:"system_domains"         validate:"dive,hostname"`
	AppOrigin            string        `koanf:"app_origin"             validate:"omitempty,url"`
	PassThrough          string        `koanf:"pass_through"           validate:"oneof=redirect proxy"`
	CustomDomainVisitors string        `koanf:"custom_domain_visitors" validate:"oneof=shell app"`
	UnknownDomain        string        `koanf:"unknown_domain"         validate:"oneof=fallback not_found"`
	LookupTimeout        time.Duration `koanf:"lookup_timeout"         validate:"gte=0"`
	CacheControl         string        `koanf:"cache_control"`
	DiagnosticHeader     string        `koanf:"diagnostic_header"`
	DiagnosticToken      string        `koanf:"diagnostic_token"`
	DiagnosticQuery      bool          `koanf:"diagnostic_query"`
	DebugHeaders         bool          `koanf:"debug_headers"`
	FullBody             bool          `koanf:"full_body"`
	DocumentCacheSize    int           `koanf:"document_cache_size"    validate:"gte=0"`
	DefaultDescription   string        `koanf:"default_description"`
	DefaultLocale        string        `koanf:"default_locale"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // SITEGATE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP          `koanf:"http"`
	Database Database      `koanf:"database"`
	Forms    Forms         `koanf:"forms"`
	Log      Log           `koanf:"log"`
	Geo      Geo           `koanf:"geo"`
	Render   Render        `koanf:"render"`
	Routes   routing.Rules `koanf:"routes"`
	Tenant   Tenant        `koanf:"tenant"`
	Paths    Paths         `koanf:"-"`
}

// applyDefaults fills zero values that have a sensible default.
func (c *Config) applyDefaults() {
	setDur := func(d *time.Duration, v time.Duration) {
		if *d == 0 {
			*d = v
		}
	}
	setStr := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}

	setStr(&c.HTTP.ListenAddr, ":8080")
	setDur(&c.HTTP.ReadTimeout, 10*time.Second)
	setDur(&c.HTTP.WriteTimeout, 15*time.Second)
	setDur(&c.HTTP.IdleTimeout, 60*time.Second)
	setDur(&c.HTTP.ShutdownTimeout, 10*time.Second)

	if c.Database.MaxOpen == 0 {
		c.Database.MaxOpen = 15
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}

	setStr(&c.Log.Level, "info")

	setStr(&c.Render.PassThrough, "redirect")
	setStr(&c.Render.CustomDomainVisitors, "shell")
	setStr(&c.Render.UnknownDomain, "fallback")
	setDur(&c.Render.LookupTimeout, 250*time.Millisecond)

	setDur(&c.Tenant.CacheTTL, 30*time.Minute)
	setDur(&c.Tenant.CacheMaxAge, 5*time.Minute)
	if c.Tenant.CacheMaxEntries == 0 {
		c.Tenant.CacheMaxEntries = 1000
	}

	c.Routes = c.Routes.WithDefaults()
}
