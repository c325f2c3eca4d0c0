package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	KnowledgeBase KnowledgeBaseConfig `mapstructure:"knowledge_base"`
	Inference     InferenceConfig     `mapstructure:"inference"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	RequestTimeout int `mapstructure:"request_timeout"` // milliseconds
}

// KnowledgeBaseConfig points at the static lookup files loaded once at startup.
type KnowledgeBaseConfig struct {
	PersonalityTypesPath string `mapstructure:"personality_types_path"`
	ProductCatalogPath   string `mapstructure:"product_catalog_path"`
}

// InferenceConfig holds settings for the external embedding and zero-shot
// classification APIs.
type InferenceConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	ZeroShotModel  string `mapstructure:"zero_shot_model"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds
	MaxRetries     int    `mapstructure:"max_retries"`
}

type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

// ScoringConfig holds the blend weights and ranking limits for the
// persona-scoring engine. Alpha weighs embedding similarity, Beta weighs the
// zero-shot classifier score; the two must sum to 1.0.
type ScoringConfig struct {
	Alpha           float64 `mapstructure:"alpha"`
	Beta            float64 `mapstructure:"beta"`
	TopK            int     `mapstructure:"top_k"`
	BioWeight       float64 `mapstructure:"bio_weight"`
	Recommendations int     `mapstructure:"recommendations"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
