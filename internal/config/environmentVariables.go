package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                     = false
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	// limiters for clients silent this long are dropped
	RateLimiterIdleTTL = 10 * time.Minute
	// how long a request waits for room in the job buffer
	EnqueueTimeout = 30 * time.Second

	//ingestion
	DocumentsDir          = "course_data"
	ChunkSize             = 1500 //bytes
	ChunkOverlap          = 200
	PageExtractionTimeout = 10 * time.Second
	IngestParallelism     = 4
	WatchDebounce         = 2 * time.Second

	//segmentation
	MinUnitNumber     = 1
	MaxUnitNumber     = 15
	FallbackUnitCount = 9
	MaxTitleLength    = 80

	//question cache
	QuestionCacheDir = "question_cache"

	//generation
	DefaultQuestionCount   = 10
	MinAcceptableQuestions = 3
	PromptContentLimit     = 6000
	GenerationMaxAttempts  = 3
	GenerationBackoffBase  = 1 * time.Second //delay = base * 2^attempt
	GenerationMaxBackoff   = 8 * time.Second
	GenerationMaxTotalWait = 15 * time.Second
	GenerationCallTimeout  = 30 * time.Second
	RequestTimeout         = 2 * time.Minute

	//embeddings + vector index
	EmbeddingOutputDimensionality int32 = 768
	EmbeddingBatchSize                  = 100
	ChunkIndexCollection                = "course-chunks"
	SearchDefaultLimit                  = 5

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobTimeout                      = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 3 * time.Minute //generation can retry with backoff
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//llm
	LLMProviderGemini    = "gemini"
	LLMProviderOpenAI    = "openai"
	LLMProviderAnthropic = "anthropic"

	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	AnthropicModelName   = "claude-3-5-haiku-latest"

	ModelTemperature float32 = 0.7
	ModelMaxTokens           = 4096
	ModelContext             = "You are an experienced teacher writing multiple-choice practice questions. Reply with JSON only."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisQuestionStore = 1

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
	RedisPingTimeout = 3 * time.Second
)
