package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type PayConfig struct {
	Env            string `yaml:"env" env:"PAY_ENV" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	GRPCServer     `yaml:"grpc_server"`
	PayDB          `yaml:"pay_db"`
	LogConfig      `yaml:"log_config"`
	Gateway        `yaml:"gateway"`
	App            `yaml:"app"`
	KafkaService   `yaml:"kafka-service"`
	Redis          `yaml:"redis"`
	Callback       `yaml:"callback"`
	CatalogPath    string `yaml:"catalog_path" env:"PAY_CATALOG_PATH" env-default:"config/catalog.yaml"`
	PromoPath      string `yaml:"promo_path" env:"PAY_PROMO_PATH" env-default:"promocodes.json"`
	MigrationsPath string `yaml:"migrations_path" env:"PAY_MIGRATIONS_PATH"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"PAY_HTTP_HOST" env-default:"127.0.0.1"`
	Port         string        `yaml:"port" env:"PAY_HTTP_PORT" env-default:"5000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"PAY_GRPC_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"PAY_GRPC_PORT" env-default:"50071"`
}

type PayDB struct {
	Dsn string `yaml:"dsn" env:"PAY_DB_DSN"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"PAY_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"PAY_LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"PAY_LOG_OUTPUT" env-default:"stdout"`
}

// Gateway holds acquiring terminal credentials.
type Gateway struct {
	BaseURL            string        `yaml:"base_url" env:"PAY_GATEWAY_URL" env-default:"https://securepay.tinkoff.ru/v2/"`
	TerminalKey        string        `yaml:"terminal_key" env:"PAY_TERMINAL_KEY"`
	Secret             string        `yaml:"secret" env:"PAY_TERMINAL_SECRET"`
	Timeout            time.Duration `yaml:"timeout" env:"PAY_GATEWAY_TIMEOUT" env-default:"10s"`
	VerifyNotification bool          `yaml:"verify_notification" env:"PAY_VERIFY_NOTIFICATION" env-default:"true"`
}

type App struct {
	BaseURL        string        `yaml:"base_url" env:"PAY_APP_BASE_URL"`
	Description    string        `yaml:"description" env-default:"Lecture recordings and/or merchandise"`
	OrderIDFloor   int64         `yaml:"order_id_floor" env-default:"100"`
	PendingTTL     time.Duration `yaml:"pending_ttl" env-default:"24h"`
	SweepInterval  time.Duration `yaml:"sweep_interval" env-default:"5m"`
	SweepBatch     int           `yaml:"sweep_batch" env-default:"50"`
	OutboxInterval time.Duration `yaml:"outbox_interval" env-default:"30s"`
}

type KafkaService struct {
	Host    string `yaml:"host" env:"PAY_KAFKA_HOST"`
	Port    string `yaml:"port" env:"PAY_KAFKA_PORT" env-default:"9092"`
	Topic   string `yaml:"topic" env-default:"order-events"`
	GroupID string `yaml:"group_id" env-default:"acquiring-cli"`
}

type Redis struct {
	Addr       string        `yaml:"addr" env:"PAY_REDIS_ADDR"`
	Password   string        `yaml:"password" env:"PAY_REDIS_PASSWORD"`
	DB         int           `yaml:"db" env-default:"0"`
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"72h"`
}

// Callback is the presentation-layer endpoint notified about finalized orders.
type Callback struct {
	URL     string        `yaml:"url" env:"PAY_CALLBACK_URL"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

func (k KafkaService) Brokers() []string {
	if k.Host == "" {
		return nil
	}
	return []string{fmt.Sprintf("%s:%s", k.Host, k.Port)}
}

func (h HTTPServer) Addr() string {
	return fmt.Sprintf("%s:%s", h.Host, h.Port)
}

func (g GRPCServer) Addr() string {
	return fmt.Sprintf("%s:%s", g.Host, g.Port)
}

// Load reads the YAML file at path and applies env overrides.
func Load(path string) (*PayConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg PayConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *PayConfig {
	// Processing env config variable and file
	configPath := os.Getenv("PAY_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("PAY_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return cfg
}

func (c *PayConfig) validate() error {
	if c.Gateway.TerminalKey == "" || c.Gateway.Secret == "" {
		return fmt.Errorf("gateway terminal_key and secret are required")
	}
	if c.App.BaseURL == "" {
		return fmt.Errorf("app base_url is required to build callback urls")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}
	return nil
}
