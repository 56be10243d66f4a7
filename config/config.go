package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	BaseURL    string `env:"API_BASE_URL" envDefault:"/api/v1"`
	CorsOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	DB    DBConfig
	JWT   JWTConfig
	Redis RedisConfig
	AI    AIConfig
	S3    S3Config
	OTel  OTelConfig

	IDWorkerNode int64 `env:"ID_WORKER_NODE" envDefault:"1"`
	BcryptCost   int   `env:"BCRYPT_COST" envDefault:"12"`
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`
	URL    string `env:"DB_URL,required,notEmpty"`
	Seed   bool   `env:"DB_SEED" envDefault:"false"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET,required,notEmpty"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"2h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type AIConfig struct {
	BaseURL string `env:"AI_OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1/"`
	APIKey  string `env:"AI_OPENAI_API_KEY"`
	Model   string `env:"AI_OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
}

type S3Config struct {
	Endpoint       string `env:"S3_ENDPOINT"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKey      string `env:"S3_ACCESS_KEY"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Bucket         string `env:"S3_BUCKET" envDefault:"artifact-images"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"true"`
	PublicBaseURL  string `env:"S3_PUBLIC_BASE_URL"`
}

type OTelConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"hogwarts-artifacts-online"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.IDWorkerNode < 0 || cfg.IDWorkerNode > 1023 {
		return nil, fmt.Errorf("ID_WORKER_NODE must be between 0 and 1023, got %d", cfg.IDWorkerNode)
	}
	return &cfg, nil
}
