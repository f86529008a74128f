package config

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

// Config is shared by every service binary. Values come from defaults,
// an optional config file, a .env file and the process environment, in
// increasing order of precedence.
type Config struct {
	AppEnv   string `mapstructure:"app_env"`
	HTTPAddr string `mapstructure:"http_addr"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBName     string `mapstructure:"db_name"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`

	RedisHost string `mapstructure:"redis_host"`
	RedisPort string `mapstructure:"redis_port"`

	KafkaBroker   string `mapstructure:"kafka_broker"`
	OrdersTopic   string `mapstructure:"orders_topic"`
	ConsumerGroup string `mapstructure:"consumer_group"`

	JWTSecret         string        `mapstructure:"jwt_secret"`
	DefaultLocationID int           `mapstructure:"default_location_id"`
	MenuCacheTTL      time.Duration `mapstructure:"menu_cache_ttl"`
	QRBaseURL         string        `mapstructure:"qr_base_url"`

	POSSvcURL       string `mapstructure:"pos_svc_url"`
	DashboardSvcURL string `mapstructure:"dashboard_svc_url"`
}

const defaultJWTSecret = "tpv-secret"

var keys = map[string]interface{}{
	"app_env":             "production",
	"http_addr":           ":8081",
	"db_host":             "localhost",
	"db_port":             "5432",
	"db_name":             "tpv",
	"db_user":             "postgres",
	"db_password":         "",
	"redis_host":          "localhost",
	"redis_port":          "6379",
	"kafka_broker":        "localhost:9092",
	"orders_topic":        "orders",
	"consumer_group":      "agg-svc-consumer",
	"jwt_secret":          defaultJWTSecret,
	"default_location_id": 1,
	"menu_cache_ttl":      "5m",
	"qr_base_url":         "http://localhost:8080",
	"pos_svc_url":         "http://localhost:8081",
	"dashboard_svc_url":   "http://localhost:8083",
}

// Load reads the configuration. A missing config file or .env is not an
// error; defaults are used instead.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	for key, value := range keys {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that are only acceptable on a developer machine.
// Outside development the token signing secret must be set explicitly.
func (c *Config) Validate() error {
	if c.IsDevelopment() {
		return nil
	}
	if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set when APP_ENV=%q", c.AppEnv)
	}
	return nil
}

// MustLoad is Load for main packages.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		GetLogger().Fatalf("load config: %v", err)
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func MustInitPostgres(cfg *Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		GetLogger().Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.Ping(); err != nil {
		GetLogger().Fatalf("Failed to ping database: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		GetLogger().Fatalf("Failed to connect to Redis: %v", err)
	}

	return client
}

func NewKafkaReader(cfg *Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg *Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		// Writes are synchronous on the request path; do not wait for a batch to fill.
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	}
}
