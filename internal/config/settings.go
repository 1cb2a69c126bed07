package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds the values that can change between deployments. Defaults
// come from the constants in this package, an optional TOML file overrides
// them, and environment variables override both.
type Settings struct {
	Log        LogSettings        `toml:"log"`
	Server     ServerSettings     `toml:"server"`
	Ingest     IngestSettings     `toml:"ingest"`
	Cache      CacheSettings      `toml:"cache"`
	Generation GenerationSettings `toml:"generation"`
	Search     SearchSettings     `toml:"search"`
}

type LogSettings struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

type ServerSettings struct {
	ListenAddr string `toml:"listen_addr"`
	AuthToken  string `toml:"auth_token"`
	NoAuth     bool   `toml:"no_auth"`
	RateLimit  bool   `toml:"rate_limit"`
}

type IngestSettings struct {
	DocumentsDir string `toml:"documents_dir"`
	ChunkSize    int    `toml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap"`
	Segmenter    string `toml:"segmenter"`
	Watch        bool   `toml:"watch"`
}

type CacheSettings struct {
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	UseRedis      bool   `toml:"use_redis"`
}

type GenerationSettings struct {
	Provider      string `toml:"provider"`
	Model         string `toml:"model"`
	APIKey        string `toml:"api_key"`
	QuestionCount int    `toml:"question_count"`
	MaxAttempts   int    `toml:"max_attempts"`
}

type SearchSettings struct {
	Enabled        bool   `toml:"enabled"`
	QdrantHost     string `toml:"qdrant_host"`
	QdrantPort     int    `toml:"qdrant_port"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
}

const (
	SegmenterMarker = "marker"
	SegmenterSpan   = "span"
)

func DefaultSettings() Settings {
	return Settings{
		Log: LogSettings{Level: "debug"},
		Server: ServerSettings{
			ListenAddr: ServerListenAddr,
			RateLimit:  true,
		},
		Ingest: IngestSettings{
			DocumentsDir: DocumentsDir,
			ChunkSize:    ChunkSize,
			ChunkOverlap: ChunkOverlap,
			Segmenter:    SegmenterMarker,
			Watch:        true,
		},
		Cache: CacheSettings{
			Dir:       QuestionCacheDir,
			RedisAddr: RedisAddr,
		},
		Generation: GenerationSettings{
			Provider:      LLMProviderGemini,
			QuestionCount: DefaultQuestionCount,
			MaxAttempts:   GenerationMaxAttempts,
		},
		Search: SearchSettings{
			QdrantHost:     QdrantHost,
			QdrantPort:     QdrantGrpcPort,
			EmbeddingModel: GoogleEmbeddingModel,
		},
	}
}

// LoadSettings reads defaults, then the TOML file at path (skipped when path
// is empty), then the environment.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		path = os.Getenv("STUDY_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("reading settings file: %w", err)
		}
		if err := toml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing settings file %s: %w", path, err)
		}
	}
	s.applyEnv()
	return s, s.Validate()
}

func (s *Settings) applyEnv() {
	setString(&s.Log.Level, "LOG_LEVEL")
	setString(&s.Server.ListenAddr, "LISTEN_ADDR")
	setString(&s.Server.AuthToken, "AUTH_TOKEN")
	setBool(&s.Server.NoAuth, "NO_AUTH")
	setString(&s.Ingest.DocumentsDir, "STUDY_DOCS_DIR")
	setString(&s.Ingest.Segmenter, "STUDY_SEGMENTER")
	setString(&s.Cache.Dir, "STUDY_CACHE_DIR")
	if os.Getenv("REDIS_ADDR") != "" {
		s.Cache.RedisAddr = os.Getenv("REDIS_ADDR")
		s.Cache.UseRedis = true
	}
	setString(&s.Cache.RedisPassword, "REDIS_PASSWORD")
	setString(&s.Generation.Provider, "LLM_PROVIDER")
	setString(&s.Generation.Model, "LLM_MODEL")
	setInt(&s.Generation.QuestionCount, "QUESTION_COUNT")

	if s.Generation.APIKey == "" {
		switch s.Generation.Provider {
		case LLMProviderGemini:
			s.Generation.APIKey = os.Getenv("GEMINI_API_KEY")
		case LLMProviderOpenAI:
			s.Generation.APIKey = os.Getenv("OPENAI_API_KEY")
		case LLMProviderAnthropic:
			s.Generation.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if os.Getenv("QDRANT_HOST") != "" {
		s.Search.QdrantHost = os.Getenv("QDRANT_HOST")
		s.Search.Enabled = true
	}
	setInt(&s.Search.QdrantPort, "QDRANT_PORT")
	if s.Search.APIKey == "" {
		s.Search.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

func (s Settings) Validate() error {
	var errs []error
	if s.Ingest.DocumentsDir == "" {
		errs = append(errs, errors.New("ingest.documents_dir is empty"))
	}
	if s.Ingest.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("ingest.chunk_size must be positive, got %d", s.Ingest.ChunkSize))
	}
	if s.Ingest.ChunkOverlap < 0 || s.Ingest.ChunkOverlap >= s.Ingest.ChunkSize {
		errs = append(errs, fmt.Errorf("ingest.chunk_overlap must be in [0, chunk_size), got %d", s.Ingest.ChunkOverlap))
	}
	if s.Ingest.Segmenter != SegmenterMarker && s.Ingest.Segmenter != SegmenterSpan {
		errs = append(errs, fmt.Errorf("ingest.segmenter %q is not one of marker, span", s.Ingest.Segmenter))
	}
	if s.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir is empty"))
	}
	switch s.Generation.Provider {
	case LLMProviderGemini, LLMProviderOpenAI, LLMProviderAnthropic, "none", "":
	default:
		errs = append(errs, fmt.Errorf("generation.provider %q is not supported", s.Generation.Provider))
	}
	if s.Generation.QuestionCount <= 0 {
		errs = append(errs, fmt.Errorf("generation.question_count must be positive, got %d", s.Generation.QuestionCount))
	}
	if s.Generation.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("generation.max_attempts must be positive, got %d", s.Generation.MaxAttempts))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		*dst = v
	}
}
