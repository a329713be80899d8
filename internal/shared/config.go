package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv   string
	LogLevel string

	DBDriver   string
	DBHost     string
	DBPassword string
	MySQLDSN   string
	// SQLitePath is used by the api when DB_DRIVER=sqlite.
	SQLitePath  string
	AutoMigrate bool

	HTTPAddr    string
	MetricsAddr string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	NearbyRadius   float64
	RecentLimit    int
	BcryptCost     int
	LoginPerMinute int
}

// Load reads an optional .env file, then the process environment. Values
// already set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("ignoring unreadable .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		DBDriver:       strings.ToLower(env("DB_DRIVER", "mysql")),
		DBHost:         env("DB_HOST", "localhost"),
		DBPassword:     env("DB_PASSWORD", ""),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel?charset=utf8mb4&parseTime=true&loc=UTC"),
		SQLitePath:     env("SQLITE_PATH", "hotel.db"),
		AutoMigrate:    boolEnv("AUTO_MIGRATE", false),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		NearbyRadius:   floatEnv("NEARBY_RADIUS", 30),
		RecentLimit:    atoi("RECENT_LIMIT", 5),
		BcryptCost:     atoi("BCRYPT_COST", 10),
		LoginPerMinute: atoi("LOGIN_ATTEMPTS_PER_MINUTE", 10),
	}
	if c.RedisAddr == "" {
		log.Debug().Msg("REDIS_ADDR is empty, hotel directory is not cached")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func floatEnv(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}
