package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "DASHBOARD_CONFIG"

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Backend  BackendConfig  `yaml:"backend"`
	Auth     AuthConfig     `yaml:"auth"`
	Worker   WorkerConfig   `yaml:"worker"`
	Sheet    SheetConfig    `yaml:"sheet"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// BackendConfig points at the resume processing service.
type BackendConfig struct {
	URL              string        `yaml:"url"`
	Timeout          time.Duration `yaml:"timeout"`
	ShortlistRetries int           `yaml:"shortlistRetries"`
}

type AuthConfig struct {
	LoginDelay   time.Duration `yaml:"loginDelay"`
	SessionTTL   time.Duration `yaml:"sessionTTL"`
	CookieName   string        `yaml:"cookieName"`
	CookieSecure bool          `yaml:"cookieSecure"`
}

type WorkerConfig struct {
	Concurrency  int           `yaml:"concurrency"`
	QueueSize    int           `yaml:"queueSize"`
	PollInterval time.Duration `yaml:"pollInterval"`
	// StaleAfter is how long a run may sit in processing before the poller fails it.
	StaleAfter   time.Duration `yaml:"staleAfter"`
}

type SheetConfig struct {
	RequiredHost string `yaml:"requiredHost"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			log.Printf("⚠️  %v (falling back to defaults)", err)
		} else {
			cfg = merge(cfg, fileCfg)
		}
	}

	cfg.applyEnv()
	return cfg
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "3000",
			Env:  "development",
		},
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "hr_dashboard",
		},
		Backend: BackendConfig{
			URL:              "http://localhost:5000",
			Timeout:          30 * time.Second,
			ShortlistRetries: 1,
		},
		Auth: AuthConfig{
			LoginDelay: time.Second,
			SessionTTL: 24 * time.Hour,
			CookieName: "hr_session",
		},
		Worker: WorkerConfig{
			Concurrency:  2,
			QueueSize:    100,
			PollInterval: 10 * time.Second,
			StaleAfter:   2 * time.Minute,
		},
		Sheet: SheetConfig{
			RequiredHost: "docs.google.com/spreadsheets",
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Env = getEnv("ENV", c.Server.Env)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)

	c.Backend.URL = getEnv("BACKEND_URL", c.Backend.URL)
	c.Backend.Timeout = getEnvAsDuration("BACKEND_TIMEOUT", c.Backend.Timeout)
	c.Backend.ShortlistRetries = getEnvAsInt("SHORTLIST_RETRIES", c.Backend.ShortlistRetries)

	c.Auth.LoginDelay = getEnvAsDuration("LOGIN_DELAY", c.Auth.LoginDelay)
	c.Auth.SessionTTL = getEnvAsDuration("SESSION_TTL", c.Auth.SessionTTL)
	c.Auth.CookieName = getEnv("SESSION_COOKIE_NAME", c.Auth.CookieName)
	c.Auth.CookieSecure = getEnvAsBool("SESSION_COOKIE_SECURE", c.Auth.CookieSecure)

	c.Worker.Concurrency = getEnvAsInt("WORKER_CONCURRENCY", c.Worker.Concurrency)
	c.Worker.QueueSize = getEnvAsInt("WORKER_QUEUE_SIZE", c.Worker.QueueSize)
	c.Worker.PollInterval = getEnvAsDuration("WORKER_POLL_INTERVAL", c.Worker.PollInterval)
	c.Worker.StaleAfter = getEnvAsDuration("WORKER_STALE_AFTER", c.Worker.StaleAfter)

	c.Sheet.RequiredHost = getEnv("SHEET_REQUIRED_HOST", c.Sheet.RequiredHost)
}

func readFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
	}

	return &fileCfg, nil
}

// merge copies every non-zero value of override onto base.
func merge(base, override *Config) *Config {
	out := *base

	setString(&out.Server.Port, override.Server.Port)
	setString(&out.Server.Env, override.Server.Env)

	setString(&out.Database.Driver, override.Database.Driver)
	setString(&out.Database.Host, override.Database.Host)
	setString(&out.Database.Port, override.Database.Port)
	setString(&out.Database.User, override.Database.User)
	setString(&out.Database.Password, override.Database.Password)
	setString(&out.Database.DBName, override.Database.DBName)

	setString(&out.Backend.URL, override.Backend.URL)
	if override.Backend.Timeout > 0 {
		out.Backend.Timeout = override.Backend.Timeout
	}
	if override.Backend.ShortlistRetries > 0 {
		out.Backend.ShortlistRetries = override.Backend.ShortlistRetries
	}

	if override.Auth.LoginDelay > 0 {
		out.Auth.LoginDelay = override.Auth.LoginDelay
	}
	if override.Auth.SessionTTL > 0 {
		out.Auth.SessionTTL = override.Auth.SessionTTL
	}
	setString(&out.Auth.CookieName, override.Auth.CookieName)
	if override.Auth.CookieSecure {
		out.Auth.CookieSecure = true
	}

	if override.Worker.Concurrency > 0 {
		out.Worker.Concurrency = override.Worker.Concurrency
	}
	if override.Worker.QueueSize > 0 {
		out.Worker.QueueSize = override.Worker.QueueSize
	}
	if override.Worker.PollInterval > 0 {
		out.Worker.PollInterval = override.Worker.PollInterval
	}
	if override.Worker.StaleAfter > 0 {
		out.Worker.StaleAfter = override.Worker.StaleAfter
	}

	setString(&out.Sheet.RequiredHost, override.Sheet.RequiredHost)

	return &out
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
