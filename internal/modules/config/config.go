package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configDirENV      = "CONFIG_DIR"
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	webhookURLENV     = "WUNDERTRADING_WEBHOOK_URL"
	checkIntervalENV  = "CHECK_INTERVAL"
	cooldownENV       = "COOLDOWN"
	pairsFileENV      = "PAIRS_FILE"
	portENV           = "PORT"
	logLevelENV       = "LOG_LEVEL"
	binanceKeyENV     = "BINANCE_API_KEY"
	binanceSecretENV  = "BINANCE_API_SECRET"
	exchangeENV       = "EXCHANGE"
	triggerENV        = "TRIGGER"
)

const (
	ExchangeBinance = "binance"
	ExchangeOKX     = "okx"

	TriggerInterval = "interval"
	TriggerStream   = "stream"
)

// Config ...
type Config struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Service struct {
		Name      string `yaml:"name"`
		Host      string `yaml:"host"`
		AdminPort int    `yaml:"admin_port"`
	} `yaml:"service"`

	DB string `yaml:"db_dsn"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Webhook struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"webhook"`

	Exchange struct {
		Name      string        `yaml:"name"`
		BaseURL   string        `yaml:"base_url"`
		WSURL     string        `yaml:"ws_url"`
		APIKey    string        `yaml:"api_key"`
		APISecret string        `yaml:"api_secret"`
		Limit     int           `yaml:"limit"`
		Timeout   time.Duration `yaml:"timeout"`
		Retries   int           `yaml:"retries"`
	} `yaml:"exchange"`

	Engine struct {
		CheckInterval time.Duration `yaml:"check_interval"`
		Cooldown      time.Duration `yaml:"cooldown"`
		Trigger       string        `yaml:"trigger"`
	} `yaml:"engine"`

	Pairs struct {
		File string `yaml:"file"`
	} `yaml:"pairs"`

	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`
}

func Default() Config {
	var c Config
	c.Log.Level = "info"
	c.Service.Name = "wunder_bot"
	c.Service.AdminPort = 8080
	c.Webhook.Timeout = 10 * time.Second
	c.Exchange.Name = ExchangeBinance
	c.Exchange.Limit = 200
	c.Exchange.Timeout = 10 * time.Second
	c.Exchange.Retries = 2
	c.Engine.CheckInterval = 60 * time.Second
	c.Engine.Cooldown = 90 * time.Second
	c.Engine.Trigger = TriggerInterval
	c.Pairs.File = "pairs.json"
	c.Tracing.Port = 6831
	return c
}

// NewConfig: .env -> configs/$CONFIG_FILE поверх дефолтов -> переменные окружения.
// Отсутствие yaml-файла не ошибка: хватает дефолтов и env.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := getenvDefault(configFilePathENV, "values_local.yaml")
	path := filepath.Join(getenvDefault(configDirENV, "configs"), configFileName)

	config := Default()
	if err := decodeFile(path, &config); err != nil {
		return nil, err
	}
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func decodeFile(path string, config *Config) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	if err = yaml.NewDecoder(file).Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Log.Level = getenvDefault(logLevelENV, c.Log.Level)
	c.Service.AdminPort = intFromEnv(portENV, c.Service.AdminPort)
	c.DB = getenvDefault(databaseDSN, c.DB)

	c.Telegram.Token = getenvDefault(tokenTelegramENV, c.Telegram.Token)
	c.Telegram.ChatID = int64FromEnv(chatTelegramENV, c.Telegram.ChatID)

	c.Webhook.URL = getenvDefault(webhookURLENV, c.Webhook.URL)

	c.Exchange.Name = strings.ToLower(getenvDefault(exchangeENV, c.Exchange.Name))
	c.Exchange.APIKey = getenvDefault(binanceKeyENV, c.Exchange.APIKey)
	c.Exchange.APISecret = getenvDefault(binanceSecretENV, c.Exchange.APISecret)

	// CHECK_INTERVAL в секундах, как в исходном боте; "1m" тоже понимаем
	c.Engine.CheckInterval = secondsFromEnv(checkIntervalENV, c.Engine.CheckInterval)
	c.Engine.Cooldown = secondsFromEnv(cooldownENV, c.Engine.Cooldown)
	c.Engine.Trigger = strings.ToLower(getenvDefault(triggerENV, c.Engine.Trigger))

	c.Pairs.File = getenvDefault(pairsFileENV, c.Pairs.File)
}

func (c *Config) Validate() error {
	switch c.Exchange.Name {
	case ExchangeBinance, ExchangeOKX:
	default:
		return fmt.Errorf("unknown exchange %q", c.Exchange.Name)
	}
	switch c.Engine.Trigger {
	case TriggerInterval, TriggerStream:
	default:
		return fmt.Errorf("unknown trigger %q", c.Engine.Trigger)
	}
	if c.Engine.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive, got %s", c.Engine.CheckInterval)
	}
	if c.Exchange.Limit <= 0 {
		return fmt.Errorf("exchange.limit must be positive, got %d", c.Exchange.Limit)
	}
	return nil
}

func (c *Config) AdminAddr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.AdminPort)
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func int64FromEnv(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func secondsFromEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
