package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EngineNative = "native"
	EngineGoCV   = "gocv"

	defaultConfigFile = "config.yaml"
)

type Config struct {
	TelegramToken  string   `yaml:"telegram_token"`
	HTTPAddr       string   `yaml:"http_addr"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	Engine         string   `yaml:"engine"`
	Log            Log      `yaml:"log"`
	Defaults       Defaults `yaml:"defaults"`
}

type Log struct {
	Level string `yaml:"level"`
	Human bool   `yaml:"human"`
}

// Defaults значения параметров, которые клиент не передал
type Defaults struct {
	Threshold  int    `yaml:"threshold"`
	MinArea    int    `yaml:"min_area"`
	MaxArea    int    `yaml:"max_area"`
	ColorLower string `yaml:"color_lower"`
	ColorUpper string `yaml:"color_upper"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		HTTPAddr:       ":5001",
		MaxUploadBytes: 16 << 20,
		Engine:         EngineNative,
		Log:            Log{Level: "info"},
		Defaults: Defaults{
			Threshold:  200,
			MinArea:    100,
			MaxArea:    50000,
			ColorLower: "#c8c8c8",
			ColorUpper: "#ffffff",
		},
	}
}

// Load собирает конфигурацию: .env, YAML-файл (CONFIG_FILE или config.yaml), переменные окружения.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = Parse(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает YAML поверх значений по умолчанию.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Validate проверяет значения, без которых сервис не запустится.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineNative, EngineGoCV:
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.HTTPAddr == "" && c.TelegramToken == "" {
		return errors.New("either http_addr or TELEGRAM_TOKEN is required")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("TELEGRAM_TOKEN"); ok {
		cfg.TelegramToken = v
	}
	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := os.LookupEnv("ENGINE"); ok {
		cfg.Engine = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv("LOG_HUMAN"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_HUMAN: %w", err)
		}
		cfg.Log.Human = b
	}
	if v, ok := os.LookupEnv("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		cfg.MaxUploadBytes = n
	}
	return nil
}
