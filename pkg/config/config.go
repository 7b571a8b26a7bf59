package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de catálogo soportados.
const (
	CatalogSimulated = "simulated"
	CatalogHTTP      = "http"
)

// Drivers de persistencia soportados.
const (
	PersistMemory   = "memory"
	PersistSQLite   = "sqlite"
	PersistRedis    = "redis"
	PersistPostgres = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Catalog CatalogConfig
	Persist PersistConfig
	Redis   RedisConfig
	DB      DBConfig
	Profile ProfileConfig
	Notice  NoticeConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CatalogConfig origen de las páginas de productos.
type CatalogConfig struct {
	Driver         string        // simulated | http
	BaseURL        string        // solo http, ej. https://fakestoreapi.com
	Timeout        time.Duration // timeout del cliente http
	SimulatedDelay time.Duration // latencia artificial del generador
	MaxPages       int           // 0 = infinito (solo simulated)
	CacheTTL       time.Duration // >0 activa la caché Redis de páginas
	CachePrefix    string
}

// PersistConfig dónde se guarda el estado persistido (carrito + perfil).
type PersistConfig struct {
	Driver     string // memory | sqlite | redis | postgres
	Key        string // clave raíz del documento
	SQLitePath string
}

// RedisConfig conexión a Redis (persistencia y caché de catálogo).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// ProfileConfig simulación de subida de avatar y permisos del selector de imágenes.
type ProfileConfig struct {
	UploadTick        time.Duration
	CameraPermission  string // granted | denied | blocked
	GalleryPermission string
}

// NoticeConfig avisos transitorios (snackbar).
type NoticeConfig struct {
	TTL time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, CATALOG_DRIVER, PERSIST_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración desde una instancia de Viper ya cargada.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "shopfront"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Catalog: CatalogConfig{
			Driver:         strings.ToLower(getString(v, "CATALOG_DRIVER", CatalogSimulated)),
			BaseURL:        getString(v, "CATALOG_BASE_URL", "https://fakestoreapi.com"),
			Timeout:        getDuration(v, "CATALOG_TIMEOUT", 10*time.Second),
			SimulatedDelay: getDuration(v, "CATALOG_SIMULATED_DELAY", time.Second),
			MaxPages:       getInt(v, "CATALOG_MAX_PAGES", 0),
			CacheTTL:       getDuration(v, "CATALOG_CACHE_TTL", 0),
			CachePrefix:    getString(v, "CATALOG_CACHE_PREFIX", "catalog:"),
		},
		Persist: PersistConfig{
			Driver:     strings.ToLower(getString(v, "PERSIST_DRIVER", PersistSQLite)),
			Key:        getString(v, "PERSIST_KEY", "persist:root"),
			SQLitePath: getString(v, "SQLITE_PATH", "./shopfront.db"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "shopfront"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 5),
		},
		Profile: ProfileConfig{
			UploadTick:        getDuration(v, "UPLOAD_TICK", 10*time.Millisecond),
			CameraPermission:  strings.ToLower(getString(v, "CAMERA_PERMISSION", "granted")),
			GalleryPermission: strings.ToLower(getString(v, "GALLERY_PERMISSION", "granted")),
		},
		Notice: NoticeConfig{
			TTL: getDuration(v, "NOTICE_TTL", 2*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Driver {
	case CatalogSimulated, CatalogHTTP:
	default:
		return fmt.Errorf("CATALOG_DRIVER desconocido: %q", c.Catalog.Driver)
	}
	switch c.Persist.Driver {
	case PersistMemory, PersistSQLite, PersistRedis, PersistPostgres:
	default:
		return fmt.Errorf("PERSIST_DRIVER desconocido: %q", c.Persist.Driver)
	}
	if c.Catalog.Driver == CatalogHTTP && c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL requerido con driver http")
	}
	if c.Profile.UploadTick <= 0 {
		return fmt.Errorf("UPLOAD_TICK debe ser positivo")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getDuration acepta "250ms", "2s" o un entero en milisegundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
