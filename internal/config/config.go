package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Storage  StorageConfig  `envPrefix:"STORAGE_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Seed     SeedConfig     `envPrefix:"SEED_"`
}

type ServerConfig struct {
	Addr        string   `env:"ADDR" envDefault:":5000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*"`
}

type DatabaseConfig struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"complaint-registry"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	AuthDB   string `env:"AUTH_DB" envDefault:"admin"`
}

type AuthConfig struct {
	JWTSecret   string   `env:"JWT_SECRET,required,notEmpty"`
	Issuer      string   `env:"ISSUER" envDefault:"complaint-registry"`
	SignupRoles []string `env:"SIGNUP_ROLES" envDefault:"customer,agent,admin"`
	BcryptCost  int      `env:"BCRYPT_COST" envDefault:"10"`
}

// RedisConfig backs auth throttling. An empty Addr disables it.
type RedisConfig struct {
	Addr        string        `env:"ADDR"`
	Password    string        `env:"PASSWORD"`
	DB          int           `env:"DB" envDefault:"0"`
	AuthLimit   int           `env:"AUTH_LIMIT" envDefault:"10"`
	AuthWindow  time.Duration `env:"AUTH_WINDOW" envDefault:"1m"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"2s"`
}

// StorageConfig points at an S3 compatible store. An empty Endpoint disables attachments.
type StorageConfig struct {
	Endpoint  string        `env:"ENDPOINT"`
	AccessKey string        `env:"ACCESS_KEY"`
	SecretKey string        `env:"SECRET_KEY"`
	Bucket    string        `env:"BUCKET" envDefault:"complaint-attachments"`
	Region    string        `env:"REGION" envDefault:"us-east-1"`
	UseSSL    bool          `env:"USE_SSL" envDefault:"false"`
	MaxBytes  int64         `env:"MAX_BYTES" envDefault:"10485760"`
	URLExpiry time.Duration `env:"URL_EXPIRY" envDefault:"15m"`
}

type KafkaConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"false"`
	Brokers []string      `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string        `env:"TOPIC" envDefault:"complaint-events"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// SeedConfig controls the default staff accounts created on startup.
// Seeding is skipped when Password is empty.
type SeedConfig struct {
	Password string `env:"PASSWORD"`
}

func Load() (*Config, error) {
	// a missing .env file is fine, the environment wins either way
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return nil, fmt.Errorf("AUTH_BCRYPT_COST out of range: %d", cfg.Auth.BcryptCost)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}
	return cfg
}
