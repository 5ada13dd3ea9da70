package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ShoppingAssistant/pkg/logger"
)

const (
	configPathEnv    = "SHOPPING_ASSISTANT_CONFIG"
	dotenvPathEnv    = "SHOPPING_ASSISTANT_DOTENV"
	logLevelEnv      = "LOG_LEVEL"
	catalogFileEnv   = "CATALOG_FILE"
	databaseDSNEnv   = "DATABASE_DSN"
	redisAddrEnv     = "REDIS_ADDR"
	redisPasswordEnv = "REDIS_PASSWORD"
	chatGPTAPIKeyEnv = "CHATGPT_API_KEY"
	chatGPTModelEnv  = "CHATGPT_MODEL"
	nutritionURLEnv  = "NUTRITION_ENDPOINT"
	nutritionKeyEnv  = "NUTRITION_API_KEY"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
	budgetModeEnv    = "BUDGET_MODE"
	metricsPrefixEnv = "METRICS_PREFIX"
)

var (
	warn              = logger.New("config")
	metricNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	ChatGPT   ChatGPTConfig   `yaml:"chatgpt"`
	Nutrition NutritionConfig `yaml:"nutrition"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Engine    EngineConfig    `yaml:"engine"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LoggingConfig selects the slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// CatalogConfig lists the product stores and how often to reload them.
type CatalogConfig struct {
	Stores          []StoreConfig `yaml:"stores" validate:"dive"`
	RefreshInterval time.Duration `yaml:"refreshInterval" validate:"gte=0"`
}

// StoreConfig describes one catalog store and the loader that reads it.
type StoreConfig struct {
	Name     string            `yaml:"name" validate:"required"`
	Loader   string            `yaml:"loader" validate:"required,oneof=file postgres html"`
	Location string            `yaml:"location" validate:"required"`
	Options  map[string]string `yaml:"options"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig enables the snapshot cache and list sharing when Addr is set.
type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db" validate:"gte=0"`
	KeyPrefix   string        `yaml:"keyPrefix"`
	SnapshotTTL time.Duration `yaml:"snapshotTtl" validate:"gte=0"`
	ShareTTL    time.Duration `yaml:"shareTtl" validate:"gte=0"`
}

// ChatGPTConfig defines how to contact the ChatGPT API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint" validate:"omitempty,url"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// NutritionConfig points at the ML service used to enrich imported rows.
type NutritionConfig struct {
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
	APIKey   string `yaml:"apiKey"`
	Workers  int    `yaml:"workers" validate:"gte=0,lte=32"`
}

// TelegramConfig enables posting shared lists to a chat.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// EngineConfig tunes list planning.
type EngineConfig struct {
	Currency    string `yaml:"currency" validate:"len=3,alpha"`
	BudgetMode  string `yaml:"budgetMode" validate:"oneof=auto headcount"`
	RankedLimit int    `yaml:"rankedLimit" validate:"gte=1,lte=50"`
}

// MetricsConfig names the Prometheus metric namespace.
type MetricsConfig struct {
	Prefix string `yaml:"prefix" validate:"omitempty,metricname"`
}

// Load reads .env, the YAML configuration (if present) and applies
// environment overrides. Invalid values are replaced by defaults.
func Load() Config {
	dotenv := os.Getenv(dotenvPathEnv)
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warn.Printf("cannot load %s: %v", dotenv, err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			warn.Printf("cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				warn.Printf("cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.sanitize(newValidator())
	return cfg
}

// Validate checks every section against its constraints.
func (c Config) Validate() error {
	return newValidator().Struct(c)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("metricname", func(fl validator.FieldLevel) bool {
		return metricNamePattern.MatchString(fl.Field().String())
	})
	return v
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(catalogFileEnv); v != "" {
		c.Catalog.Stores = []StoreConfig{{Name: storeNameFromPath(v), Loader: "file", Location: v}}
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(redisPasswordEnv); v != "" {
		c.Redis.Password = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}
	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}

	if v := os.Getenv(nutritionURLEnv); v != "" {
		c.Nutrition.Endpoint = v
	}
	if v := os.Getenv(nutritionKeyEnv); v != "" {
		c.Nutrition.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Telegram.ChatID = v
	}

	if v := os.Getenv(budgetModeEnv); v != "" {
		c.Engine.BudgetMode = strings.ToLower(v)
	}

	if v := os.Getenv(metricsPrefixEnv); v != "" {
		c.Metrics.Prefix = v
	}
}

// sanitize drops invalid stores and resets invalid fields so a bad value
// never aborts start-up.
func (c *Config) sanitize(v *validator.Validate) {
	defaults := defaultConfig()

	stores := c.Catalog.Stores[:0:0]
	for _, s := range c.Catalog.Stores {
		if err := v.Struct(s); err != nil {
			warn.Printf("dropping catalog store %q: %v", s.Name, err)
			continue
		}
		stores = append(stores, s)
	}
	c.Catalog.Stores = stores
	if c.Catalog.RefreshInterval < 0 {
		c.Catalog.RefreshInterval = defaults.Catalog.RefreshInterval
	}

	if err := v.Struct(c.Logging); err != nil {
		warn.Printf("invalid logging settings: %v", err)
		c.Logging = defaults.Logging
	}

	c.Engine.Currency = strings.ToUpper(c.Engine.Currency)
	if err := v.Struct(c.Engine); err != nil {
		warn.Printf("invalid engine settings: %v", err)
		c.Engine = defaults.Engine
	}

	if err := v.Struct(c.Redis); err != nil {
		warn.Printf("invalid redis settings: %v", err)
		c.Redis = defaults.Redis
	}

	if err := v.Struct(c.ChatGPT); err != nil {
		warn.Printf("invalid chatgpt settings, disabling polishing: %v", err)
		c.ChatGPT.APIKey = ""
	}

	if err := v.Struct(c.Nutrition); err != nil {
		warn.Printf("invalid nutrition settings, disabling enrichment: %v", err)
		c.Nutrition = defaults.Nutrition
	}

	if err := v.Struct(c.Metrics); err != nil {
		warn.Printf("invalid metrics prefix %q", c.Metrics.Prefix)
		c.Metrics = defaults.Metrics
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if len(override.Catalog.Stores) > 0 {
		base.Catalog.Stores = override.Catalog.Stores
	}
	if override.Catalog.RefreshInterval != 0 {
		base.Catalog.RefreshInterval = override.Catalog.RefreshInterval
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Redis.Addr != "" {
		base.Redis.Addr = override.Redis.Addr
	}
	if override.Redis.Password != "" {
		base.Redis.Password = override.Redis.Password
	}
	if override.Redis.DB != 0 {
		base.Redis.DB = override.Redis.DB
	}
	if override.Redis.KeyPrefix != "" {
		base.Redis.KeyPrefix = override.Redis.KeyPrefix
	}
	if override.Redis.SnapshotTTL != 0 {
		base.Redis.SnapshotTTL = override.Redis.SnapshotTTL
	}
	if override.Redis.ShareTTL != 0 {
		base.Redis.ShareTTL = override.Redis.ShareTTL
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}

	if override.Nutrition.Endpoint != "" {
		base.Nutrition.Endpoint = override.Nutrition.Endpoint
	}
	if override.Nutrition.APIKey != "" {
		base.Nutrition.APIKey = override.Nutrition.APIKey
	}
	if override.Nutrition.Workers != 0 {
		base.Nutrition.Workers = override.Nutrition.Workers
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	if override.Engine.Currency != "" {
		base.Engine.Currency = override.Engine.Currency
	}
	if override.Engine.BudgetMode != "" {
		base.Engine.BudgetMode = override.Engine.BudgetMode
	}
	if override.Engine.RankedLimit != 0 {
		base.Engine.RankedLimit = override.Engine.RankedLimit
	}

	if override.Metrics.Prefix != "" {
		base.Metrics.Prefix = override.Metrics.Prefix
	}

	return base
}

func storeNameFromPath(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	if name == "" {
		return "catalog"
	}
	return name
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Catalog: CatalogConfig{
			Stores: []StoreConfig{
				{Name: "jordan_products", Loader: "file", Location: "data/jordan_products.json"},
			},
			RefreshInterval: 30 * time.Minute,
		},
		Database: DatabaseConfig{DSN: ""},
		Redis: RedisConfig{
			KeyPrefix:   "shopping:",
			SnapshotTTL: 24 * time.Hour,
			ShareTTL:    7 * 24 * time.Hour,
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			APIKey:       "",
			SystemPrompt: "You rewrite shopping list replies to sound friendly. Keep every product, quantity and price unchanged.",
		},
		Nutrition: NutritionConfig{Workers: 4},
		Engine:    EngineConfig{Currency: "JOD", BudgetMode: "auto", RankedLimit: 15},
		Metrics:   MetricsConfig{Prefix: "shopping_assistant"},
	}
}

// String summarises the configured stores for start-up logs.
func (c CatalogConfig) String() string {
	parts := make([]string, 0, len(c.Stores))
	for _, s := range c.Stores {
		parts = append(parts, fmt.Sprintf("%s(%s)", s.Name, s.Loader))
	}
	return fmt.Sprintf("[%s] every %s", strings.Join(parts, ","), c.RefreshInterval)
}
