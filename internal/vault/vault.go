// internal/vault/vault.go
//
// Vault client wrapper used to resolve `vault:` references in configuration.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK with a KV-v2 reader and a per-key TTL
//     cache, safe for concurrent use.
//   - Secrets are read once during boot (database password), so no token
//     renewal loop runs here; the token only needs to outlive startup.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(log)                         // during boot.
//  2. pw,  err := cli.Resolve(ctx, "vault:secret/app#pw") // anywhere.
//
// Environment expectations
// ------------------------
//   - VAULT_ADDR  - scheme and host of the Vault server.
//   - VAULT_TOKEN - token (falls back to ~/.vault-token via the SDK).
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

// Prefix marks a configuration value as a Vault reference.
const Prefix = "vault:"

// Ref is a parsed `vault:<mount>/<path>#<key>` reference.
type Ref struct {
	Mount string
	Path  string
	Key   string
}

// IsRef reports whether s should be resolved through Vault.
func IsRef(s string) bool { return strings.HasPrefix(s, Prefix) }

// ParseRef splits a reference into mount, path, and key.
func ParseRef(s string) (Ref, error) {
	if !IsRef(s) {
		return Ref{}, fmt.Errorf("vault ref %q: missing %q prefix", s, Prefix)
	}
	body := strings.TrimPrefix(s, Prefix)
	loc, key, ok := strings.Cut(body, "#")
	if !ok || key == "" {
		return Ref{}, fmt.Errorf("vault ref %q: missing #key", s)
	}
	mount, path, ok := strings.Cut(loc, "/")
	if !ok || mount == "" || path == "" {
		return Ref{}, fmt.Errorf("vault ref %q: want <mount>/<path>", s)
	}
	return Ref{Mount: mount, Path: path, Key: key}, nil
}

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger
	ttl time.Duration

	mu    sync.RWMutex
	cache map[Ref]cached
}

type cached struct {
	val string
	exp time.Time
}

// New builds a client from the VAULT_* environment.  Resolved values are
// cached for five minutes.
func New(log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.S()
	}
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	return &Client{
		api:   apiCli,
		log:   log,
		ttl:   5 * time.Minute,
		cache: make(map[Ref]cached),
	}, nil
}

// Resolve parses ref and returns the secret it points to.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return c.GetKV(ctx, r)
}

// GetKV fetches one string key from a KV-v2 secret, honouring the cache.
func (c *Client) GetKV(ctx context.Context, r Ref) (string, error) {
	c.mu.RLock()
	if cv, ok := c.cache[r]; ok && time.Now().Before(cv.exp) {
		c.mu.RUnlock()
		return cv.val, nil
	}
	c.mu.RUnlock()

	sec, err := c.api.KVv2(r.Mount).Get(ctx, r.Path)
	if err != nil {
		return "", fmt.Errorf("vault get %s/%s: %w", r.Mount, r.Path, err)
	}
	raw, ok := sec.Data[r.Key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %s/%s", r.Key, r.Mount, r.Path)
	}
	val, ok := raw.(string)
	if !ok {
		return "", errors.New("vault: value at " + r.Mount + "/" + r.Path + "#" + r.Key + " is not a string")
	}

	c.mu.Lock()
	c.cache[r] = cached{val: val, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	c.log.Debugw("vault secret resolved", "mount", r.Mount, "path", r.Path, "key", r.Key)
	return val, nil
}
