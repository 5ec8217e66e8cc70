// Package config carga la configuración YAML del servicio con
// overrides por variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// Stores: el par primario (legacy) / secundario (nuevo) de la
	// migración. Driver: "memory" | "postgres".
	Stores struct {
		Primary   StoreConfig `yaml:"primary"`
		Secondary StoreConfig `yaml:"secondary"`
	} `yaml:"stores"`

	Migration struct {
		// FlagSource: de dónde sale la config de flags.
		// Kind: "file" | "redis" | "http" | "static".
		FlagSource struct {
			Kind string `yaml:"kind"`
			Path string `yaml:"path"` // kind=file
			Redis struct {
				Addr     string `yaml:"addr"`
				Password string `yaml:"password"`
				DB       int    `yaml:"db"`
				Key      string `yaml:"key"`
			} `yaml:"redis"`
			HTTP struct {
				URL      string `yaml:"url"`
				Secret   string `yaml:"secret"`
				Issuer   string `yaml:"issuer"`
				Audience string `yaml:"audience"`
			} `yaml:"http"`
		} `yaml:"flag_source"`

		// CacheTTL de la config de flags. Default 30s.
		CacheTTL time.Duration `yaml:"cache_ttl"`
		// FetchTimeout del refresh en background. Default 5s.
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		// SecondaryTimeout presupuesto del secundario en shadow y
		// verify_read. Debe ser menor al SLA del caller. Default 2s.
		SecondaryTimeout time.Duration `yaml:"secondary_timeout"`
		// ShadowWorkers y ShadowQueue dimensionan el pool de
		// verificación en background.
		ShadowWorkers int `yaml:"shadow_workers"`
		ShadowQueue   int `yaml:"shadow_queue"`
		// SampleRate probabilidad [0,1] del diff profundo. Default 1.0.
		SampleRate float64 `yaml:"sample_rate"`
		// IgnoreFields extra para el verificador (además de los
		// defaults ID/CreatedAt/UpdatedAt).
		IgnoreFields []string `yaml:"ignore_fields"`
	} `yaml:"migration"`
}

// StoreConfig describe un backend de almacenamiento.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Load lee el YAML, aplica defaults y overrides de entorno.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parseando %s: %w", path, err)
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Stores.Primary.Driver == "" {
		c.Stores.Primary.Driver = "memory"
	}
	if c.Stores.Secondary.Driver == "" {
		c.Stores.Secondary.Driver = "memory"
	}
	if c.Migration.FlagSource.Kind == "" {
		c.Migration.FlagSource.Kind = "static"
	}
	if c.Migration.CacheTTL == 0 {
		c.Migration.CacheTTL = 30 * time.Second
	}
	if c.Migration.FetchTimeout == 0 {
		c.Migration.FetchTimeout = 5 * time.Second
	}
	if c.Migration.SecondaryTimeout == 0 {
		c.Migration.SecondaryTimeout = 2 * time.Second
	}
	if c.Migration.ShadowWorkers == 0 {
		c.Migration.ShadowWorkers = 4
	}
	if c.Migration.ShadowQueue == 0 {
		c.Migration.ShadowQueue = 256
	}
	if c.Migration.SampleRate == 0 {
		c.Migration.SampleRate = 1.0
	}

	c.applyEnvOverrides()

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("NIDO_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("NIDO_PRIMARY_DSN"); ok {
		c.Stores.Primary.Driver = "postgres"
		c.Stores.Primary.DSN = v
	}
	if v, ok := getEnvStr("NIDO_SECONDARY_DSN"); ok {
		c.Stores.Secondary.Driver = "postgres"
		c.Stores.Secondary.DSN = v
	}
	if v, ok := getEnvStr("NIDO_FLAGS_KIND"); ok {
		c.Migration.FlagSource.Kind = v
	}
	if v, ok := getEnvStr("NIDO_FLAGS_PATH"); ok {
		c.Migration.FlagSource.Path = v
	}
	if v, ok := getEnvStr("NIDO_FLAGS_REDIS_ADDR"); ok {
		c.Migration.FlagSource.Redis.Addr = v
	}
	if v, ok := getEnvStr("NIDO_FLAGS_HTTP_URL"); ok {
		c.Migration.FlagSource.HTTP.URL = v
	}
	if v, ok := getEnvStr("NIDO_FLAGS_HTTP_SECRET"); ok {
		c.Migration.FlagSource.HTTP.Secret = v
	}
	if v, ok := getEnvDur("NIDO_MIGRATION_CACHE_TTL"); ok {
		c.Migration.CacheTTL = v
	}
	if v, ok := getEnvDur("NIDO_MIGRATION_SECONDARY_TIMEOUT"); ok {
		c.Migration.SecondaryTimeout = v
	}
	if v, ok := getEnvInt("NIDO_MIGRATION_SHADOW_WORKERS"); ok {
		c.Migration.ShadowWorkers = v
	}
	if v, ok := getEnvInt("NIDO_MIGRATION_SHADOW_QUEUE"); ok {
		c.Migration.ShadowQueue = v
	}
}

func (c *Config) validate() error {
	switch c.Migration.FlagSource.Kind {
	case "static":
	case "file":
		if c.Migration.FlagSource.Path == "" {
			return fmt.Errorf("config: flag_source.path requerido con kind=file")
		}
	case "redis":
		if c.Migration.FlagSource.Redis.Addr == "" {
			return fmt.Errorf("config: flag_source.redis.addr requerido con kind=redis")
		}
	case "http":
		if c.Migration.FlagSource.HTTP.URL == "" {
			return fmt.Errorf("config: flag_source.http.url requerido con kind=http")
		}
	default:
		return fmt.Errorf("config: flag_source.kind desconocido %q", c.Migration.FlagSource.Kind)
	}
	if c.Migration.SampleRate < 0 || c.Migration.SampleRate > 1 {
		return fmt.Errorf("config: sample_rate %v fuera de [0,1]", c.Migration.SampleRate)
	}
	for _, s := range []StoreConfig{c.Stores.Primary, c.Stores.Secondary} {
		switch s.Driver {
		case "memory":
		case "postgres":
			if s.DSN == "" {
				return fmt.Errorf("config: dsn requerido con driver=postgres")
			}
		default:
			return fmt.Errorf("config: driver desconocido %q", s.Driver)
		}
	}
	return nil
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvDur(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
