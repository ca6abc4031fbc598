package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"3000"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Generative service
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY,required"`
	LLMModel           string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMMinCallInterval time.Duration `env:"LLM_MIN_CALL_INTERVAL" envDefault:"1s"`

	// Scraping
	ScrapeRPS     float64       `env:"SCRAPE_RPS" envDefault:"1"`
	ScrapeTimeout time.Duration `env:"SCRAPE_TIMEOUT" envDefault:"30s"`
	ScrapeBaseURL string        `env:"SCRAPE_BASE_URL" envDefault:"https://www.amazon.com"`

	// Freshness windows
	ProductCacheTTL      time.Duration `env:"PRODUCT_CACHE_TTL" envDefault:"24h"`
	OptimizationCacheTTL time.Duration `env:"OPTIMIZATION_CACHE_TTL" envDefault:"1h"`

	// Batch processing
	BatchItemDelay time.Duration `env:"BATCH_ITEM_DELAY" envDefault:"2s"`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
