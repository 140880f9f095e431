// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `TUTORIALS_`, where `__` maps to "."
     (e.g., `TUTORIALS_HTTP__LISTEN_ADDR -> http.listen_addr`).

After merging, the tree is unmarshalled into typed structs, Vault
references are resolved, the result is validated, enriched with the runtime
root path, and cached in an `atomic.Pointer` for lock-free reads.
`Reload()` simply calls `Load()` again and swaps the pointer.

Instrumentation
---------------
  - DEBUG spans for root discovery and YAML read.
  - ERROR spans for YAML parse, env overlay, unmarshal, Vault, and
    validation failures.
  - INFO span for the final "config loaded" with key highlights.
  - Logs use the global sugared logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/tutorials/internal/vault"
)

const envPrefix = "TUTORIALS_"

var current atomic.Pointer[Config]

// resolveSecret turns a `vault:` reference into its value.  Tests swap it.
var resolveSecret = resolveVault

var (
	vaultMu  sync.Mutex
	vaultCli *vault.Client
)

// resolveVault reads through one process-wide client, built on first use, so
// Reload hits the client's TTL cache instead of Vault.
func resolveVault(ctx context.Context, ref string) (string, error) {
	vaultMu.Lock()
	if vaultCli == nil {
		cli, err := vault.New(zap.S())
		if err != nil {
			vaultMu.Unlock()
			return "", err
		}
		vaultCli = cli
	}
	cli := vaultCli
	vaultMu.Unlock()

	return cli.Resolve(ctx, ref)
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves TUTORIALS_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to the executable heuristic for a
// `<root>/bin/web` production layout.
func rootDir() string {
	if r := os.Getenv(envPrefix + "ROOT"); r != "" {
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

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load(ctx context.Context) (*Config, error) {
	root := rootDir()
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

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if vault.IsRef(cfg.Database.Password) {
		pw, err := resolveSecret(ctx, cfg.Database.Password)
		if err != nil {
			zap.S().Errorw("config vault lookup failed", "err", err)
			return nil, err
		}
		cfg.Database.Password = pw
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"driver", cfg.Database.Driver,
		"cache_size", cfg.Cache.Size,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }

func Reload(ctx context.Context) error { _, err := Load(ctx); return err }
