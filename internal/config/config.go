// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	PaymentProvider         `yaml:"payment_provider"`
	CORS                    `yaml:"cors"`
	AMQP                    `yaml:"amqp"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// PaymentProvider структура для настройки клиента платёжного провайдера.
// Секретный ключ передаётся только через окружение и не хранится в yaml.
type PaymentProvider struct {
	BaseURL   string        `yaml:"base_url" env-default:"https://api.paystack.co"`
	SecretKey string        `yaml:"secret_key" env:"PAYSTACK_SECRET_KEY"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
}

// CORS список разрешённых origin для браузерных клиентов.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AMQP структура для настройки публикации событий о зачислениях.
// Пустой URL отключает публикацию.
type AMQP struct {
	URL        string `yaml:"url" env:"AMQP_URL"`
	Exchange   string `yaml:"exchange" env-default:"payments"`
	RoutingKey string `yaml:"routing_key" env-default:"payment.credited"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.PaymentProvider.SecretKey == "" {
		log.Fatal("PAYSTACK_SECRET_KEY is not set")
	}
	return &cfg
}
