package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"
)

type Config struct {
	App  AppConfig  `koanf:"app" yaml:"app"`
	ORM  ORMConfig  `koanf:"orm" yaml:"orm"`
	Sync SyncConfig `koanf:"sync" yaml:"sync"`

	// Path of the config file that was loaded, empty when running on
	// defaults alone. Not part of the dumped config.
	Source string `koanf:"-" yaml:"-"`
}

type AppConfig struct {
	LogLevel     string            `koanf:"log_level" yaml:"log_level"`
	Debug        bool              `koanf:"debug" yaml:"debug"`
	DefaultOS    string            `koanf:"default_os" yaml:"default_os"`
	TemplateMap  map[string]string `koanf:"template_map" yaml:"template_map"`
	MaxPrefixes  MaxPrefixConfig   `koanf:"max_prefixes" yaml:"max_prefixes"`
	Cache        CacheConfig       `koanf:"cache" yaml:"cache"`
	PeerTemplate string            `koanf:"peer_template" yaml:"peer_template"`
	PeerPolicyV4 string            `koanf:"peer_policy_v4" yaml:"peer_policy_v4"`
	PeerPolicyV6 string            `koanf:"peer_policy_v6" yaml:"peer_policy_v6"`
	PeerSession  string            `koanf:"peer_session" yaml:"peer_session"`
	LockVersion  bool              `koanf:"lock_version" yaml:"lock_version"`
	IXTrim       bool              `koanf:"ix_trim" yaml:"ix_trim"`
	IXTrimWords  int               `koanf:"ix_trim_words" yaml:"ix_trim_words"`
}

type MaxPrefixConfig struct {
	V4        int    `koanf:"v4" yaml:"v4"`
	V6        int    `koanf:"v6" yaml:"v6"`
	Threshold int    `koanf:"threshold" yaml:"threshold"`
	Use       bool   `koanf:"use" yaml:"use"`
	Action    string `koanf:"action" yaml:"action"`
	Interval  int    `koanf:"interval" yaml:"interval"`
	Config    string `koanf:"config" yaml:"config"`
}

// Render expands the max-prefix option string, substituting the
// {threshold}, {action} and {interval} placeholders.
func (m MaxPrefixConfig) Render() string {
	r := strings.NewReplacer(
		"{threshold}", fmt.Sprintf("%d", m.Threshold),
		"{action}", m.Action,
		"{interval}", fmt.Sprintf("%d", m.Interval),
	)
	return r.Replace(m.Config)
}

type CacheConfig struct {
	Enabled    bool   `koanf:"enabled" yaml:"enabled"`
	Path       string `koanf:"path" yaml:"path"`
	TTLSeconds int    `koanf:"ttl_seconds" yaml:"ttl_seconds"`
}

type ORMConfig struct {
	Backend  string         `koanf:"backend" yaml:"backend"`
	Database DatabaseConfig `koanf:"database" yaml:"database"`
}

type DatabaseConfig struct {
	Engine   string `koanf:"engine" yaml:"engine"`
	Host     string `koanf:"host" yaml:"host"`
	Port     int    `koanf:"port" yaml:"port"`
	Name     string `koanf:"name" yaml:"name"`
	User     string `koanf:"user" yaml:"user"`
	Password string `koanf:"password" yaml:"password"`
	// Path is the database file for the sqlite engine.
	Path string `koanf:"path" yaml:"path"`
}

// DSN builds a pgx connection string for the postgres engine.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}

type SyncConfig struct {
	URL            string   `koanf:"url" yaml:"url"`
	User           string   `koanf:"user" yaml:"user"`
	Password       string   `koanf:"password" yaml:"password"`
	TimeoutSeconds int      `koanf:"timeout" yaml:"timeout"`
	Only           []string `koanf:"only" yaml:"only,omitempty"`
	StripTZ        bool     `koanf:"strip_tz" yaml:"strip_tz"`
	PageSize       int      `koanf:"page_size" yaml:"page_size"`
}

// searchPaths lists candidate config files in priority order, matching
// the locations the original tool probed.
func searchPaths() []string {
	paths := []string{"config.yaml", "config.yml", "ngen.yaml", "ngen.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".neighgen", "config.yaml"),
			filepath.Join(home, ".neighgen", "config.yml"),
			filepath.Join(home, ".ngen.yaml"),
			filepath.Join(home, ".ngen.yml"),
		)
	}
	return paths
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			LogLevel:  "warn",
			DefaultOS: "nxos",
			TemplateMap: map[string]string{
				"ios":  "neigh_ios.tmpl",
				"nxos": "neigh_nxos.tmpl",
			},
			MaxPrefixes: MaxPrefixConfig{
				V4:        10000,
				V6:        10000,
				Threshold: 90,
				Use:       true,
				Action:    "restart",
				Interval:  30,
				Config:    "{threshold} {action} {interval}",
			},
			Cache: CacheConfig{
				Enabled:    true,
				Path:       defaultCachePath(),
				TTLSeconds: 300,
			},
			PeerTemplate: "PEER",
			PeerPolicyV4: "PEER-V4",
			PeerPolicyV6: "PEER-V6",
			PeerSession:  "EBGP",
			LockVersion:  true,
			IXTrim:       false,
			IXTrimWords:  1,
		},
		ORM: ORMConfig{
			Backend: "sqlite",
			Database: DatabaseConfig{
				Engine: "sqlite",
				Host:   "localhost",
				Port:   5432,
				Name:   "peeringdb",
				User:   "peeringdb",
				Path:   defaultDBPath(),
			},
		},
		Sync: SyncConfig{
			URL:            "https://www.peeringdb.com/api",
			TimeoutSeconds: 120,
			StripTZ:        true,
			PageSize:       250,
		},
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "neighgen-cache.db"
	}
	return filepath.Join(home, ".neighgen", "cache.db")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "peeringdb.db"
	}
	return filepath.Join(home, ".neighgen", "peeringdb.db")
}

// Load builds the runtime config: defaults, then the first existing
// YAML file (an explicit path wins over NEIGHGEN_CONFIG and the search
// list), then a NEIGHGEN_ environment overlay where "__" separates
// sections, e.g. NEIGHGEN_ORM__DATABASE__PASSWORD → orm.database.password.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	if path == "" {
		path = os.Getenv("NEIGHGEN_CONFIG")
	}
	if path == "" {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.Source = path
	}

	if err := k.Load(env.Provider("NEIGHGEN_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "NEIGHGEN_")
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", ".")
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.DefaultOS == "" {
		return fmt.Errorf("config: app.default_os is required")
	}
	if _, ok := c.App.TemplateMap[c.App.DefaultOS]; !ok {
		return fmt.Errorf("config: app.default_os %q has no entry in app.template_map", c.App.DefaultOS)
	}
	if c.App.MaxPrefixes.V4 <= 0 || c.App.MaxPrefixes.V6 <= 0 {
		return fmt.Errorf("config: app.max_prefixes.v4/v6 must be > 0 (got %d/%d)",
			c.App.MaxPrefixes.V4, c.App.MaxPrefixes.V6)
	}
	if c.App.MaxPrefixes.Threshold <= 0 || c.App.MaxPrefixes.Threshold > 100 {
		return fmt.Errorf("config: app.max_prefixes.threshold must be 1..100 (got %d)", c.App.MaxPrefixes.Threshold)
	}
	if c.App.IXTrimWords <= 0 {
		return fmt.Errorf("config: app.ix_trim_words must be > 0 (got %d)", c.App.IXTrimWords)
	}
	switch c.ORM.Database.Engine {
	case "sqlite", "sqlite3":
		if c.ORM.Database.Path == "" {
			return fmt.Errorf("config: orm.database.path is required for the sqlite engine")
		}
	case "postgres", "postgresql":
		if c.ORM.Database.Host == "" || c.ORM.Database.Name == "" {
			return fmt.Errorf("config: orm.database.host and name are required for the postgres engine")
		}
	default:
		return fmt.Errorf("config: unsupported orm.database.engine %q", c.ORM.Database.Engine)
	}
	if c.Sync.URL == "" {
		return fmt.Errorf("config: sync.url is required")
	}
	if c.Sync.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: sync.timeout must be > 0 (got %d)", c.Sync.TimeoutSeconds)
	}
	if c.Sync.PageSize <= 0 {
		return fmt.Errorf("config: sync.page_size must be > 0 (got %d)", c.Sync.PageSize)
	}
	if c.App.Cache.Enabled && c.App.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("config: app.cache.ttl_seconds must be > 0 when the cache is enabled (got %d)", c.App.Cache.TTLSeconds)
	}
	return nil
}

// Dump renders the running config as YAML, suitable for dump-config.
func (c *Config) Dump() ([]byte, error) {
	out, err := goyaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}
