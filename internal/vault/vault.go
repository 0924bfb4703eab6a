// internal/vault/vault.go
//
// Vault client for configuration secrets.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK behind a concurrency-safe Client.
//   - Resolves `vault:<mount/path>#<key>` references found in the config
//     tree (database DSN, diagnostic token) against KV-v2 secrets.
//   - Keeps the token alive with a background renewer and caches values
//     per path#key for a caller-chosen TTL.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                 // only when a reference exists.
//  2. val, err := cli.Resolve(ctx, "vault:secret/sitegate#dsn")
//
// Environment: VAULT_ADDR and VAULT_TOKEN, read by the SDK.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// Prefix marks a config value as a Vault reference.
const Prefix = "vault:"

// DefaultTTL is how long Resolve caches a value.
const DefaultTTL = 5 * time.Minute

// ErrBadRef is returned for references that do not parse.
var ErrBadRef = errors.New("vault: malformed reference, want vault:<mount/path>#<key>")

//
// SECTION 1.  Reference parsing
//

// IsRef reports whether s is a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, Prefix) }

// ParseRef splits "vault:secret/app#dsn" into ("secret/app", "dsn").
func ParseRef(ref string) (path, key string, err error) {
	if !IsRef(ref) {
		return "", "", ErrBadRef
	}
	path, key, ok := strings.Cut(strings.TrimPrefix(ref, Prefix), "#")
	path = strings.Trim(path, "/")
	if !ok || key == "" || !strings.Contains(path, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	return path, key, nil
}

//
// SECTION 2.  Client
//

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // path#key → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New builds a client from the VAULT_* environment and starts token
// renewal, which stops when ctx is cancelled.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	c := &Client{api: apiCli, cache: make(map[string]cached)}
	go c.renewLoop(ctx)
	return c, nil
}

// Resolve returns the secret a reference points at.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	path, key, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return c.GetKV(ctx, path, key, DefaultTTL)
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result
// is cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		cv, ok := c.cache[canonical]
		c.cacheMu.RUnlock()
		if ok && time.Now().Before(cv.exp) {
			return cv.val, nil
		}
	}

	mount, rel, _ := strings.Cut(secretPath, "/")
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	sval, ok := sec.Data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: %s#%s missing or not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return sval, nil
}

//
// SECTION 3.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	log := zap.S().With("component", "vault")
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			log.Warnw("token renew self failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token is not renewable, sleeping")
			sleep(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
		if err != nil {
			log.Warnw("lifetime watcher init failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		c.watch(ctx, watcher, log)
	}
}

// watch blocks until the watcher finishes or ctx ends.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher, log *zap.SugaredLogger) {
	go w.Start()
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				log.Warnw("token renewal stopped", "err", err)
			}
			sleep(ctx, 15*time.Second)
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				log.Debugw("token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
