package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort  string
	LogLevel string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	DBMaxOpenConns int
	DBMaxIdleConns int
	AutoMigrate    bool

	RedisAddr     string
	RedisDB       int
	EventsChannel string

	IdempTTLSecs int

	JWTSecret string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "lending"),
		MySQLUser: getenv("MYSQL_USER", "lending"),
		MySQLPass: getenv("MYSQL_PASS", "lending"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		EventsChannel: getenv("EVENTS_CHANNEL", "loan-events"),
		IdempTTLSecs:  300,

		JWTSecret: os.Getenv("JWT_SECRET"),
	}
	c.RedisDB = getint("REDIS_DB", 0)
	c.IdempTTLSecs = getint("IDEMPOTENCY_TTL_SECONDS", c.IdempTTLSecs)
	c.DBMaxOpenConns = getint("DB_MAX_OPEN_CONNS", 0)
	c.DBMaxIdleConns = getint("DB_MAX_IDLE_CONNS", 0)
	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoMigrate = b
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0 {
		return errors.New("DB pool sizes must not be negative")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
