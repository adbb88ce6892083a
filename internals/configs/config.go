package configs

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Config dibaca sekali saat startup lalu di-inject ke semua komponen.
type Config struct {
	Port            string `env:"PORT" envDefault:"3000"`
	ReadTimeoutSec  int    `env:"HTTP_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSec int    `env:"HTTP_WRITE_TIMEOUT" envDefault:"30"`
	IdleTimeoutSec  int    `env:"HTTP_IDLE_TIMEOUT" envDefault:"90"`
	RequestTimeout  int    `env:"HTTP_REQUEST_TIMEOUT" envDefault:"5"`
	CORSOrigins     string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`

	JWTSecret string `env:"JWT_SECRET,required"`

	DB DBConfig

	MidtransServerKey  string `env:"MIDTRANS_SERVER_KEY"`
	MidtransProduction bool   `env:"MIDTRANS_PRODUCTION" envDefault:"false"`
	// Dipakai sebagai finish redirect Snap
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	SMTP SMTPConfig
	OSS  OSSConfig

	RedisURL      string `env:"REDIS_URL"`
	RateLimitMax  int    `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitSecs int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`

	SweeperSpec string `env:"SWEEPER_CRON" envDefault:"@every 10m"`

	Log LogConfig
}

type DBConfig struct {
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	User         string `env:"DB_USER" envDefault:"postgres"`
	Password     string `env:"DB_PASSWORD"`
	Name         string `env:"DB_NAME" envDefault:"letme"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	AutoMigrate  bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// DSN untuk gorm postgres; statement_timeout selaras dengan request timeout.
func (d DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=letme&options=-c statement_timeout=5000",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"no-reply@letme.id"`
}

func (s SMTPConfig) Enabled() bool { return strings.TrimSpace(s.Host) != "" }

type OSSConfig struct {
	Endpoint   string `env:"ALI_OSS_ENDPOINT"`
	AccessKey  string `env:"ALI_OSS_ACCESS_KEY"`
	SecretKey  string `env:"ALI_OSS_SECRET_KEY"`
	Bucket     string `env:"ALI_OSS_BUCKET"`
	PublicBase string `env:"ALI_OSS_PUBLIC_BASE"`
	Prefix     string `env:"ALI_OSS_PREFIX" envDefault:"contracts"`
}

func (o OSSConfig) Enabled() bool {
	return o.Endpoint != "" && o.AccessKey != "" && o.SecretKey != "" && o.Bucket != ""
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	Output     string `env:"LOG_OUTPUT" envDefault:"stdout"` // stdout, file, both
	Path       string `env:"LOG_PATH" envDefault:"./logs"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
	SQL        bool   `env:"LOG_SQL" envDefault:"false"`
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() (*Config, error) {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env tidak ditemukan, pakai ENV dari sistem")
		}
	}

	cfg := &Config{}
	// sub-config (struct value) tidak ikut di-parse otomatis
	for _, dst := range []any{cfg, &cfg.DB, &cfg.SMTP, &cfg.OSS, &cfg.Log} {
		if err := env.Parse(dst); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg, nil
}

func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
