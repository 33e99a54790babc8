package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servidor y del cliente.
type Config struct {
	HTTPPort        string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL     string `env:"DATABASE_URL"`
	DBMaxConns      int    `env:"DB_MAX_CONNS" envDefault:"10"`
	DataFile        string `env:"DATA_FILE" envDefault:"chats.json"`
	AuthSecret      string `env:"AUTH_SECRET,required"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"168"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	LLMAPIKey       string `env:"LLM_API_KEY"`
	LLMBaseURL      string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel        string `env:"LLM_MODEL" envDefault:"gemma-2b-it"`

	// Lado cliente.
	ServerURL string `env:"CHAT_SERVER_URL" envDefault:"http://localhost:8080"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ClientConfig es el subconjunto que necesita el binario cliente.
type ClientConfig struct {
	ServerURL string `env:"CHAT_SERVER_URL" envDefault:"http://localhost:8080"`
}

// LoadClientConfig carga la configuración del cliente; no exige AUTH_SECRET.
func LoadClientConfig() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
