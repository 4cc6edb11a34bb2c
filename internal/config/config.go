package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	PaymentGateway    string `env:"PAYMENT_GATEWAY" envDefault:"razorpay"`
	RazorpayKeyID     string `env:"RAZORPAY_KEY_ID,required,notEmpty"`
	RazorpayKeySecret string `env:"RAZORPAY_KEY_SECRET,required,notEmpty"`

	AdminKey      string        `env:"ADMIN_KEY,required,notEmpty"`
	AdminTokenTTL time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"12h"`

	Storage Storage `envPrefix:"STORAGE_"`

	MaxUploadBytes      int64         `env:"MAX_UPLOAD_BYTES" envDefault:"104857600"`
	OrphanSweepInterval time.Duration `env:"ORPHAN_SWEEP_INTERVAL" envDefault:"15m"`
	OrphanGrace         time.Duration `env:"ORPHAN_GRACE" envDefault:"1h"`
	CORSAllowOrigins    []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
}

type Storage struct {
	Bucket        string `env:"BUCKET,required,notEmpty"`
	Endpoint      string `env:"ENDPOINT" envDefault:"storage.googleapis.com"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	UseSSL        bool   `env:"USE_SSL" envDefault:"true"`
	Region        string `env:"REGION"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// Load reads the environment (and .env, if present). Missing critical
// settings are reported as an error so the process can exit at startup.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.PaymentGateway {
	case "razorpay", "mock":
	default:
		return nil, fmt.Errorf("config: PAYMENT_GATEWAY must be razorpay or mock, got %q", cfg.PaymentGateway)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.OrphanSweepInterval > 0 && cfg.OrphanGrace <= 0 {
		return nil, fmt.Errorf("config: ORPHAN_GRACE must be positive while ORPHAN_SWEEP_INTERVAL is set, got %s", cfg.OrphanGrace)
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
