// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `<root>/conf/.env` file.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `SITEGATE_`, where `__` maps to "."
     (e.g., `SITEGATE_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, string leaves of the form `vault:<path>#<key>` are
swapped for their secret values, the tree is unmarshalled into typed
structs, defaulted, validated, enriched with the runtime root path, and
cached in an `atomic.Pointer` for lock-free reads.  `Reload()` calls
`Load()` again and swaps the pointer.

Instrumentation
---------------
  • DEBUG: root discovery, YAML read, secret references resolved.
  • ERROR: YAML parse, env overlay, unmarshal, validation failures.
  • INFO:  final "config loaded" with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • The Vault client is created only when a reference is present.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/sitegate/internal/vault"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "SITEGATE_"

// secretTimeout bounds the whole reference-resolution pass.
const secretTimeout = 10 * time.Second

var current atomic.Pointer[Config]

// SecretSource resolves `vault:` references.  *vault.Client satisfies it.
type SecretSource interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves SITEGATE_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to executable heuristic for
// production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves Vault references,
// validates, and caches Config.
func Load() (*Config, error) {
	return LoadWith(rootDir(), &lazyVault{})
}

// LoadWith is Load with an explicit root and secret source.  A nil
// secrets rejects any `vault:` reference.
func LoadWith(root string, secrets SecretSource) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: SITEGATE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(k, secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.applyDefaults()
	cfg.Paths.Root = root
	if cfg.Forms.Dir != "" && !filepath.IsAbs(cfg.Forms.Dir) {
		cfg.Forms.Dir = filepath.Join(root, cfg.Forms.Dir)
	}
	if cfg.Database.Fixtures != "" && !filepath.IsAbs(cfg.Database.Fixtures) {
		cfg.Database.Fixtures = filepath.Join(root, cfg.Database.Fixtures)
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"fixtures", cfg.Database.Fixtures != "",
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps SITEGATE_RENDER__APP_ORIGIN to render.app_origin.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

/*──────────────────────────── secrets ─────────────────────────────────────*/

// resolveSecrets replaces every `vault:` string leaf in k.
func resolveSecrets(k *koanf.Koanf, secrets SecretSource) error {
	all := k.All()
	keys := make([]string, 0, len(all))
	for key, val := range all {
		if s, ok := val.(string); ok && vault.IsRef(s) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if secrets == nil {
		return fmt.Errorf("config: %s holds a vault reference but no secret source is configured", keys[0])
	}
	sort.Strings(keys)

	ctx, cancel := context.WithTimeout(context.Background(), secretTimeout)
	defer cancel()

	for _, key := range keys {
		val, err := secrets.Resolve(ctx, k.String(key))
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return err
		}
		zap.S().Debugw("config secret resolved", "key", key)
	}
	return nil
}

// lazyVault dials Vault on first use.  The client's renewer lives for
// the process.
type lazyVault struct {
	once sync.Once
	cli  *vault.Client
	err  error
}

func (l *lazyVault) Resolve(ctx context.Context, ref string) (string, error) {
	l.once.Do(func() { l.cli, l.err = vault.New(context.Background()) })
	if l.err != nil {
		return "", l.err
	}
	return l.cli.Resolve(ctx, ref)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
