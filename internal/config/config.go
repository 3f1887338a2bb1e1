package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/example/txanalytics/pkg/transaction"
)

// EnvPrefix prefixes environment overrides, e.g. TXA_GENERATOR_COUNT.
const EnvPrefix = "TXA"

// Config represents the application configuration
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Report    ReportConfig    `mapstructure:"report"`
}

// GeneratorConfig controls synthetic dataset generation
type GeneratorConfig struct {
	Count         int           `mapstructure:"count"`
	Seed          uint64        `mapstructure:"seed"` // 0 seeds from the clock
	UserMin       int64         `mapstructure:"user_min"`
	UserMax       int64         `mapstructure:"user_max"`
	ProductMin    int64         `mapstructure:"product_min"`
	ProductMax    int64         `mapstructure:"product_max"`
	QuantityMin   int64         `mapstructure:"quantity_min"`
	QuantityMax   int64         `mapstructure:"quantity_max"`
	PriceMinCents int64         `mapstructure:"price_min_cents"`
	PriceMaxCents int64         `mapstructure:"price_max_cents"`
	Window        time.Duration `mapstructure:"window"`
}

// ReportConfig controls the analysis workflow
type ReportConfig struct {
	PriceIncreasePercent float64 `mapstructure:"price_increase_percent"`
	MinQuantity          int64   `mapstructure:"min_quantity"` // exclusive
	TopK                 int     `mapstructure:"top_k"`
	UserID               int64   `mapstructure:"user_id"`
}

// Options converts the generator section into generator options.
func (g GeneratorConfig) Options() transaction.GeneratorOptions {
	return transaction.GeneratorOptions{
		UserMin:       g.UserMin,
		UserMax:       g.UserMax,
		ProductMin:    g.ProductMin,
		ProductMax:    g.ProductMax,
		QuantityMin:   g.QuantityMin,
		QuantityMax:   g.QuantityMax,
		PriceMinCents: g.PriceMinCents,
		PriceMaxCents: g.PriceMaxCents,
		Window:        g.Window,
	}
}

func setDefaults(v *viper.Viper) {
	d := transaction.DefaultGeneratorOptions()
	v.SetDefault("generator.count", 20)
	v.SetDefault("generator.seed", 0)
	v.SetDefault("generator.user_min", d.UserMin)
	v.SetDefault("generator.user_max", d.UserMax)
	v.SetDefault("generator.product_min", d.ProductMin)
	v.SetDefault("generator.product_max", d.ProductMax)
	v.SetDefault("generator.quantity_min", d.QuantityMin)
	v.SetDefault("generator.quantity_max", d.QuantityMax)
	v.SetDefault("generator.price_min_cents", d.PriceMinCents)
	v.SetDefault("generator.price_max_cents", d.PriceMaxCents)
	v.SetDefault("generator.window", d.Window.String())

	v.SetDefault("report.price_increase_percent", 5)
	v.SetDefault("report.min_quantity", 1)
	v.SetDefault("report.top_k", 5)
	v.SetDefault("report.user_id", 101)
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath uses defaults and the environment only. A .env file in
// the working directory is loaded first when present.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Generator.Options().Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	if config.Generator.Count < 0 {
		return nil, fmt.Errorf("invalid generator config: negative count %d", config.Generator.Count)
	}

	return &config, nil
}
