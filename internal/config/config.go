package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
	Cache    CacheConfig
	Park     ParkConfig
	Data     DataConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	SocketLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	NatsEnabled        bool
	AdminToken         string
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type APIKeys struct {
	OpenWeatherMap string
	NPS            string
	HuggingFace    string
	Jina           string
	Gemini         string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama", "jina" or "gemini"
	OllamaBaseURL     string
	OllamaModel       string // embedding model
	LLMProvider       string // "ollama", "huggingface"
	LLMModel          string
	LLMBaseURL        string
	ClassifierMode    string // "rules" or "llm"
}

type PipelineConfig struct {
	TopK            int
	RouteOrder      string // "conversational_first" or "list_first"
	RequestTimeout  time.Duration
	ClassifyTimeout time.Duration
	AuxTimeout      time.Duration
	EnhanceTimeout  time.Duration
	RetrieveTimeout time.Duration
	GenerateTimeout time.Duration
}

type CacheConfig struct {
	Backend    string // "memory" or "redis"
	WeatherTTL time.Duration
	AlertsTTL  time.Duration
	Retention  time.Duration
	SessionTTL time.Duration
}

type ParkConfig struct {
	Latitude  float64
	Longitude float64
	ParkCode  string
}

type DataConfig struct {
	TrailsFile    string
	IngestTopic   string
	ChunkSize     int
	ChunkOverlap  int
	AuditDurable  string
	CorpusFile    string
	AlertsToIndex bool
}

// TracingConfig drives the OTLP exporter. Tracing stays off unless Enabled.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string // host:port of the OTLP HTTP receiver
	Insecure    bool
	ServiceName string
	Environment string
	SampleRatio float64
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	environment := getEnv("GO_ENV", "development")
	llmProvider := getEnv("LLM_PROVIDER", "ollama")
	ollamaURL := getEnv("OLLAMA_BASE_URL", "http://localhost:11434")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        environment,
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/answers.log"),
			SocketLogFilePath:  getEnv("SOCKET_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", true),
			AdminToken:         getEnv("ADMIN_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_VERBOSE", false),
		},
		Keys: APIKeys{
			OpenWeatherMap: getEnv("OPENWEATHER_API_KEY", ""),
			NPS:            getEnv("NPS_API_KEY", ""),
			HuggingFace:    getEnv("HUGGINGFACE_API_KEY", ""),
			Jina:           getEnv("JINA_API_KEY", ""),
			Gemini:         getEnv("GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     ollamaURL,
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       llmProvider,
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", defaultLLMBaseURL(llmProvider, ollamaURL)),
			ClassifierMode:    getEnv("CLASSIFIER_MODE", "rules"),
		},
		Pipeline: PipelineConfig{
			TopK:            getEnvAsInt("PIPELINE_TOP_K", 3),
			RouteOrder:      getEnv("PIPELINE_ROUTE_ORDER", "conversational_first"),
			RequestTimeout:  getEnvAsDuration("PIPELINE_REQUEST_TIMEOUT", 30*time.Second),
			ClassifyTimeout: getEnvAsDuration("PIPELINE_CLASSIFY_TIMEOUT", 5*time.Second),
			AuxTimeout:      getEnvAsDuration("PIPELINE_AUX_TIMEOUT", 5*time.Second),
			EnhanceTimeout:  getEnvAsDuration("PIPELINE_ENHANCE_TIMEOUT", 8*time.Second),
			RetrieveTimeout: getEnvAsDuration("PIPELINE_RETRIEVE_TIMEOUT", 10*time.Second),
			GenerateTimeout: getEnvAsDuration("PIPELINE_GENERATE_TIMEOUT", 25*time.Second),
		},
		Cache: CacheConfig{
			Backend:    getEnv("CACHE_BACKEND", "memory"),
			WeatherTTL: getEnvAsDuration("WEATHER_CACHE_TTL", 15*time.Minute),
			AlertsTTL:  getEnvAsDuration("ALERTS_CACHE_TTL", 6*time.Hour),
			Retention:  getEnvAsDuration("CACHE_RETENTION", 24*time.Hour),
			SessionTTL: getEnvAsDuration("SESSION_TTL", time.Hour),
		},
		Park: ParkConfig{
			Latitude:  getEnvAsFloat("PARK_LATITUDE", 46.8523),
			Longitude: getEnvAsFloat("PARK_LONGITUDE", -121.7603),
			ParkCode:  getEnv("PARK_CODE", "mora"),
		},
		Data: DataConfig{
			TrailsFile:    getEnv("TRAILS_FILE", ""),
			IngestTopic:   getEnv("INGEST_TOPIC_NAME", "INGEST_PARK_PASSAGE"),
			ChunkSize:     getEnvAsInt("INGEST_CHUNK_SIZE", 1000),
			ChunkOverlap:  getEnvAsInt("INGEST_CHUNK_OVERLAP", 150),
			AuditDurable:  getEnv("AUDIT_DURABLE_NAME", "answer-audit"),
			CorpusFile:    getEnv("CORPUS_FILE", "data/corpus.yaml"),
			AlertsToIndex: getEnvAsBool("INDEX_PARK_ALERTS", false),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			Insecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "rainier-guide-backend"),
			Environment: environment,
			SampleRatio: getEnvAsFloat("OTEL_TRACES_SAMPLE_RATIO", 1),
		},
	}
}

func defaultLLMBaseURL(provider, ollamaURL string) string {
	if provider == "ollama" {
		return ollamaURL
	}
	return "https://router.huggingface.co/v1"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
