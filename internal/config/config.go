package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod | test
		Env     string `yaml:"env"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		IdleTimeout        time.Duration `yaml:"idle_timeout"`
	} `yaml:"server"`

	Storage struct {
		Driver    string        `yaml:"driver"`
		DSN       string        `yaml:"dsn"`
		OpTimeout time.Duration `yaml:"op_timeout"`
		Mongo     struct {
			URI        string `yaml:"uri"`
			Database   string `yaml:"database"`
			Collection string `yaml:"collection"`
		} `yaml:"mongo"`
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"postgres"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
	} `yaml:"storage"`

	Users struct {
		// Campos que un cliente puede escribir. Vacío = cualquier nombre válido.
		MutableFields []string `yaml:"mutable_fields"`
	} `yaml:"users"`

	Rate struct {
		Enabled     bool          `yaml:"enabled"`
		MaxRequests int           `yaml:"max_requests"`
		Window      time.Duration `yaml:"window"`
	} `yaml:"rate"`

	Redis struct {
		Addr   string `yaml:"addr"`
		DB     int    `yaml:"db"`
		Prefix string `yaml:"prefix"`
	} `yaml:"redis"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Drivers soportados por storage.driver.
var knownDrivers = map[string]bool{
	"mongo":    true,
	"postgres": true,
	"sqlite":   true,
	"memory":   true,
	"noop":     true,
}

// Default retorna la configuración sin archivo ni entorno.
func Default() *Config {
	var c Config
	c.App.Env = "dev"
	c.App.Version = "dev"
	c.Log.Level = "info"
	c.Server.Addr = ":5000"
	c.Server.CORSAllowedOrigins = []string{"*"}
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Storage.Driver = "mongo"
	c.Storage.OpTimeout = 5 * time.Second
	c.Storage.Mongo.URI = "mongodb://localhost:27017/PracticeDB"
	// Database vacío: manda el path de la URI (PracticeDB en la default).
	c.Storage.Mongo.Collection = "users"
	c.Storage.Postgres.MaxOpenConns = 10
	c.Storage.Postgres.MaxIdleConns = 2
	c.Storage.SQLite.Path = "users.db"
	c.Rate.MaxRequests = 60
	c.Rate.Window = time.Minute
	c.Redis.Prefix = "rl:"
	c.Metrics.Enabled = true
	return &c
}

// Load lee el YAML (si existe), aplica overrides de entorno y valida.
// Un path vacío o un archivo inexistente equivalen a los defaults.
func Load(path string) (*Config, error) {
	c := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// sin archivo: defaults + entorno
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	c.normalize()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// StorageDSN retorna la cadena de conexión según el driver.
// storage.dsn tiene prioridad sobre los bloques específicos.
func (c *Config) StorageDSN() string {
	if c.Storage.DSN != "" {
		return c.Storage.DSN
	}
	switch c.Storage.Driver {
	case "mongo":
		return c.Storage.Mongo.URI
	case "sqlite":
		return c.Storage.SQLite.Path
	}
	return ""
}

func (c *Config) normalize() {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	d := strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch d {
	case "pg", "postgresql":
		d = "postgres"
	case "mongodb":
		d = "mongo"
	case "sqlite3":
		d = "sqlite"
	}
	c.Storage.Driver = d
	if c.Storage.Mongo.Collection == "" {
		c.Storage.Mongo.Collection = "users"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "rl:"
	}
}

func (c *Config) Validate() error {
	if !knownDrivers[c.Storage.Driver] {
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.StorageDSN() == "" {
		return fmt.Errorf("config: storage.dsn is required for postgres")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if c.Storage.OpTimeout < 0 {
		return fmt.Errorf("config: storage.op_timeout must be >= 0")
	}
	if c.Rate.Enabled {
		if c.Rate.MaxRequests <= 0 {
			return fmt.Errorf("config: rate.max_requests must be > 0")
		}
		if c.Rate.Window <= 0 {
			return fmt.Errorf("config: rate.window must be > 0")
		}
	}
	return nil
}

// ─── Entorno ───

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return i, true, nil
}

func getEnvBool(key string) (bool, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return false, false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, true, nil
}

func getEnvDur(key string) (time.Duration, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, true, nil
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

func (c *Config) applyEnvOverrides() error {
	str := map[string]*string{
		"APP_ENV":          &c.App.Env,
		"APP_VERSION":      &c.App.Version,
		"LOG_LEVEL":        &c.Log.Level,
		"STORAGE_DRIVER":   &c.Storage.Driver,
		"STORAGE_DSN":      &c.Storage.DSN,
		"MONGO_URI":        &c.Storage.Mongo.URI,
		"MONGO_DATABASE":   &c.Storage.Mongo.Database,
		"MONGO_COLLECTION": &c.Storage.Mongo.Collection,
		"SQLITE_PATH":      &c.Storage.SQLite.Path,
		"REDIS_ADDR":       &c.Redis.Addr,
		"REDIS_PREFIX":     &c.Redis.Prefix,
	}
	for key, dst := range str {
		if v, ok := getEnvStr(key); ok {
			*dst = v
		}
	}

	// PORT (estilo PaaS) primero; SERVER_ADDR gana si ambos están.
	if v, ok := getEnvStr("PORT"); ok {
		c.Server.Addr = ":" + strings.TrimPrefix(strings.TrimSpace(v), ":")
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvCSV("USERS_MUTABLE_FIELDS"); ok {
		c.Users.MutableFields = v
	}

	ints := map[string]*int{
		"POSTGRES_MAX_OPEN_CONNS": &c.Storage.Postgres.MaxOpenConns,
		"POSTGRES_MAX_IDLE_CONNS": &c.Storage.Postgres.MaxIdleConns,
		"RATE_MAX_REQUESTS":       &c.Rate.MaxRequests,
		"REDIS_DB":                &c.Redis.DB,
	}
	for key, dst := range ints {
		v, ok, err := getEnvInt(key)
		if err != nil {
			return err
		}
		if ok {
			*dst = v
		}
	}

	durs := map[string]*time.Duration{
		"SERVER_READ_TIMEOUT":  &c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT": &c.Server.WriteTimeout,
		"SERVER_IDLE_TIMEOUT":  &c.Server.IdleTimeout,
		"STORAGE_OP_TIMEOUT":   &c.Storage.OpTimeout,
		"RATE_WINDOW":          &c.Rate.Window,
	}
	for key, dst := range durs {
		v, ok, err := getEnvDur(key)
		if err != nil {
			return err
		}
		if ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"RATE_ENABLED":    &c.Rate.Enabled,
		"METRICS_ENABLED": &c.Metrics.Enabled,
	}
	for key, dst := range bools {
		v, ok, err := getEnvBool(key)
		if err != nil {
			return err
		}
		if ok {
			*dst = v
		}
	}
	return nil
}
