// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the tree that loader.go builds from
// three overlay layers:
//
//   - optional `conf/.env`                        - dotenv values,
//   - `conf/global.yaml`                          - primary static file,
//   - `TUTORIALS_`-prefixed environment overrides - highest precedence.
//
// A `database.password` of the form `vault:<mount>/<path>#<key>` is resolved
// through Vault before validation, so the model only ever holds the plain
// secret.
//
// Notes
// -----
//   - Struct tags use `koanf:"..."`, not `yaml:"..."`.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
package config

import "time"

// Store drivers accepted by database.driver.
const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

// Database selects the Record Store.  The DSN template lives in YAML; the
// password is kept apart so it can come from Vault or the environment.
type Database struct {
	Driver   string `koanf:"driver"   validate:"required,oneof=mysql memory"`
	DSN      string `koanf:"dsn"      validate:"required_if=Driver mysql"`
	Password string `koanf:"password"`
	MaxOpen  int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle  int    `koanf:"max_idle" validate:"gte=0"`
}

// Cache sizes the by-id LRU.  Zero disables it.
type Cache struct {
	Size int `koanf:"size" validate:"gte=0"`
}

// Log controls the zap logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Tee   bool   `koanf:"tee"`
}

// GeoIP points at an optional GeoLite2 database for the access log.
type GeoIP struct {
	Path string `koanf:"path"`
}

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // TUTORIALS_ROOT or discovered parent
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Cache    Cache    `koanf:"cache"`
	Log      Log      `koanf:"log"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Paths    Paths    `koanf:"-"`
}
