package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port         int              `json:"port" validate:"min=1,max=65535"`
	Database     DatabaseConfig   `json:"database"`
	LogConfig    logger.LogConfig `json:"log_config"`
	GitHub       GitHubConfig     `json:"github"`
	FileStore    FileStoreConfig  `json:"file_store"`
	Embedding    EmbeddingConfig  `json:"embedding"`
	Cache        CacheConfig      `json:"cache"`
	Cleanup      CleanupConfig    `json:"cleanup"`
	HTTP         HTTPConfig       `json:"http"`
	WorkDir      string           `json:"work_dir"`
	SecretKey    string           `json:"secret_key"`
	GeminiAPIKey string           `json:"gemini_api_key"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type GitHubConfig struct {
	Token             string `json:"token"`
	BaseURL           string `json:"base_url"`
	RequestsPerSecond int    `json:"requests_per_second" validate:"min=0"`
	TimeoutSeconds    int    `json:"timeout_seconds" validate:"min=0"`
}

type FileStoreConfig struct {
	Type string      `json:"type" validate:"oneof=local minio"`
	Data interface{} `json:"data"`
}

type EmbeddingProviderConfig struct {
	Name     string      `json:"name"`
	Provider string      `json:"provider" validate:"required"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type EmbeddingConfig struct {
	Enabled         bool                      `json:"enabled"`
	Providers       []EmbeddingProviderConfig `json:"providers" validate:"dive"`
	TaskType        string                    `json:"task_type"`
	CacheSize       int                       `json:"cache_size" validate:"min=0"`
	CacheTTLSeconds int                       `json:"cache_ttl_seconds" validate:"min=0"`
	DBCache         bool                      `json:"db_cache"`
}

type CacheConfig struct {
	Enabled    bool `json:"enabled"`
	TTLMinutes int  `json:"ttl_minutes" validate:"min=0"`
}

type CleanupConfig struct {
	Spec                     string `json:"spec"`
	JobMaxAgeDays            int    `json:"job_max_age_days" validate:"min=0"`
	PackageMaxAgeHours       int    `json:"package_max_age_hours" validate:"min=0"`
	EmbeddingCacheMaxAgeDays int    `json:"embedding_cache_max_age_days" validate:"min=0"`
}

type HTTPConfig struct {
	CORSOrigins    []string `json:"cors_origins"`
	AnalyzePerMin  int      `json:"analyze_per_min" validate:"min=0"`
	DefaultPerPage int      `json:"default_per_page" validate:"min=0,max=100"`
}

// Load reads the JSON config file, lets the environment (and a .env file) override
// secrets, then applies defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.FileStore.Type == "local" && cfg.FileStore.Data == nil {
		cfg.FileStore.Data = map[string]interface{}{"dir": cfg.WorkDir + "/archives"}
	}
	if cfg.FileStore.Type == "minio" && cfg.FileStore.Data == nil {
		return nil, fmt.Errorf("file_store.data is required for minio store")
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); v != "" {
		cfg.GitHub.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SECRET_KEY")); v != "" {
		cfg.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.Database.DSN = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.GitHub.TimeoutSeconds == 0 {
		cfg.GitHub.TimeoutSeconds = 30
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 24 * 60
	}
	if cfg.Cleanup.Spec == "" {
		cfg.Cleanup.Spec = "0 * * * *"
	}
	if cfg.Cleanup.JobMaxAgeDays == 0 {
		cfg.Cleanup.JobMaxAgeDays = 30
	}
	if cfg.Cleanup.PackageMaxAgeHours == 0 {
		cfg.Cleanup.PackageMaxAgeHours = 24
	}
	if cfg.Cleanup.EmbeddingCacheMaxAgeDays == 0 {
		cfg.Cleanup.EmbeddingCacheMaxAgeDays = 30
	}
	if cfg.HTTP.DefaultPerPage == 0 {
		cfg.HTTP.DefaultPerPage = 10
	}
	if cfg.Embedding.TaskType == "" {
		cfg.Embedding.TaskType = "RETRIEVAL_DOCUMENT"
	}
	for i := range cfg.Embedding.Providers {
		p := &cfg.Embedding.Providers[i]
		if p.Name == "" {
			p.Name = p.Provider
		}
		if strings.EqualFold(p.Provider, "gemini") {
			p.Data = withDefaultKey(p.Data, "api_key", cfg.GeminiAPIKey)
		}
	}
}

func withDefaultKey(data interface{}, key, value string) interface{} {
	if value == "" {
		return data
	}
	m, ok := data.(map[string]interface{})
	if !ok || m == nil {
		m = map[string]interface{}{}
	}
	if existing, _ := m[key].(string); strings.TrimSpace(existing) == "" {
		m[key] = value
	}
	return m
}
