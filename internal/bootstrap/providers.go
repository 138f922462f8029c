package bootstrap

import (
	"context"
	"fmt"
	"log"

	"rainier-guide-be/internal/config"
	"rainier-guide-be/pkg/ai/pipeline"
	"rainier-guide-be/pkg/ai/router"
	"rainier-guide-be/pkg/cache"
	"rainier-guide-be/pkg/embedding"
	"rainier-guide-be/pkg/embedding/jina"
	"rainier-guide-be/pkg/llm/factory"
	"rainier-guide-be/pkg/metrics"
	"rainier-guide-be/pkg/nps"
	"rainier-guide-be/pkg/rag/enhance"
	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/rag/response"
	"rainier-guide-be/pkg/rag/search"
	"rainier-guide-be/pkg/trails"
	"rainier-guide-be/pkg/weather"

	"github.com/redis/go-redis/v9"
)

// Loggers hands each pkg component its own *log.Logger.
type Loggers func(module string) *log.Logger

func NewEmbeddingProvider(cfg *config.Config) embedding.EmbeddingProvider {
	switch cfg.Ai.EmbeddingProvider {
	case "jina":
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
		return jina.NewJinaProvider(cfg.Keys.Jina)
	case "gemini":
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
		return embedding.NewGeminiProvider(cfg.Keys.Gemini)
	}
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
}

// NewRedisClient returns nil when Redis cannot be reached.
func NewRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// NewCacheLoader picks the cache backend; redis falls back to memory when rdb is nil.
func NewCacheLoader(cfg *config.Config, rdb *redis.Client, logs Loggers) *cache.Loader {
	var store cache.Store
	if cfg.Cache.Backend == "redis" && rdb != nil {
		store = cache.NewRedisStore(rdb, "rainier:cache:", cfg.Cache.Retention)
		log.Printf("[INFO] Using cache backend: REDIS")
	} else {
		if cfg.Cache.Backend == "redis" {
			log.Printf("[WARN] Redis unavailable, using in-memory cache")
		}
		store = cache.NewMemoryStore(cfg.Cache.Retention)
	}
	return cache.NewLoader(store, logs("cache"))
}

func NewWeatherClient(cfg *config.Config, loader *cache.Loader, logs Loggers) *weather.Client {
	return weather.NewClient(weather.Config{
		APIKey:    cfg.Keys.OpenWeatherMap,
		Latitude:  cfg.Park.Latitude,
		Longitude: cfg.Park.Longitude,
		TTL:       cfg.Cache.WeatherTTL,
	}, loader, logs("weather"))
}

func NewAlertsClient(cfg *config.Config, loader *cache.Loader, logs Loggers) *nps.Client {
	return nps.NewClient(nps.Config{
		APIKey:   cfg.Keys.NPS,
		ParkCode: cfg.Park.ParkCode,
		TTL:      cfg.Cache.AlertsTTL,
	}, loader, logs("nps"))
}

// PipelineParts are the collaborators the orchestrator is assembled from.
type PipelineParts struct {
	Embedding embedding.EmbeddingProvider
	Index     search.PassageIndex
	Weather   *weather.Client
	Alerts    *nps.Client
	Trails    *trails.Catalog
}

type Pipeline struct {
	Orchestrator *pipeline.Orchestrator
	Retriever    *search.Retriever
}

// NewPipeline builds the question-answering chain from config.
func NewPipeline(cfg *config.Config, parts PipelineParts, logs Loggers) (*Pipeline, error) {
	apiKey := cfg.Keys.HuggingFace
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, apiKey)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	rules := intent.NewRuleClassifier(nil)
	var classifier intent.Classifier = rules
	if cfg.Ai.ClassifierMode == "llm" {
		llmClassifier := intent.NewLLMClassifier(llmProvider, rules, logs("classifier"))
		llmClassifier.OnDegraded(func(error) { metrics.RecordDegraded("classification") })
		classifier = llmClassifier
	}

	policy, err := router.ParsePolicy(cfg.Pipeline.RouteOrder)
	if err != nil {
		return nil, err
	}
	rt := router.NewRouter(policy, func(q string) bool {
		return rules.Matches(intent.ListRequest, q)
	}, logs("router"))

	retriever := search.NewRetriever(parts.Embedding, parts.Index, logs("retriever"))

	deps := pipeline.Deps{
		Classifier: classifier,
		Router:     rt,
		Enhancer:   enhance.NewEnhancer(llmProvider, logs("enhancer")),
		Retriever:  retriever,
		Generator:  response.NewGenerator(llmProvider, logs("generator")),
		Trails:     parts.Trails,
	}
	// Interfaces stay nil unless a client exists.
	if parts.Weather != nil {
		deps.Weather = parts.Weather
	}
	if parts.Alerts != nil {
		deps.Alerts = parts.Alerts
	}

	orch := pipeline.NewOrchestrator(deps, pipeline.Config{
		TopK:            cfg.Pipeline.TopK,
		RequestTimeout:  cfg.Pipeline.RequestTimeout,
		ClassifyTimeout: cfg.Pipeline.ClassifyTimeout,
		AuxTimeout:      cfg.Pipeline.AuxTimeout,
		EnhanceTimeout:  cfg.Pipeline.EnhanceTimeout,
		RetrieveTimeout: cfg.Pipeline.RetrieveTimeout,
		GenerateTimeout: cfg.Pipeline.GenerateTimeout,
	}, logs("pipeline"))

	return &Pipeline{Orchestrator: orch, Retriever: retriever}, nil
}
