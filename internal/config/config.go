package config

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/shadowtv/ragrelay/internal/tokenizer"
)

type Config struct {
	ListenAddr string

	OpenAIBaseURL  string
	OpenAIAPIKey   string
	EmbeddingModel string

	PineconeIndexURL  string
	PineconeAPIKey    string
	PineconeNamespace string

	WebhookURL string

	// SystemPrompt overrides the built-in default instruction prompt.
	SystemPrompt string

	TokenizerEncoding string

	// RequestTimeout bounds each non-streaming outbound call.
	RequestTimeout time.Duration
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.ListenAddr, "listen-addr", getEnv("LISTEN_ADDR", ":8080"), "HTTP listen address")
	flag.StringVar(&cfg.OpenAIBaseURL, "openai-base-url", getEnv("OPENAI_API_HOST", "https://api.openai.com"), "OpenAI API host")
	flag.StringVar(&cfg.OpenAIAPIKey, "openai-api-key", getEnv("OPENAI_API_KEY", ""), "Server-side OpenAI API key (callers may override per request)")
	flag.StringVar(&cfg.EmbeddingModel, "embedding-model", getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"), "Embedding model name")
	flag.StringVar(&cfg.PineconeIndexURL, "pinecone-index-url", getEnv("PINECONE_INDEX_URL", ""), "Vector index host URL")
	flag.StringVar(&cfg.PineconeAPIKey, "pinecone-api-key", getEnv("PINECONE_API_KEY", ""), "Vector index API key")
	flag.StringVar(&cfg.PineconeNamespace, "pinecone-namespace", getEnv("PINECONE_NAMESPACE", "shadowtv20230326"), "Vector index namespace")
	flag.StringVar(&cfg.WebhookURL, "webhook-url", getEnv("WEBHOOK_URL", ""), "Notification webhook URL (empty disables notifications)")
	flag.StringVar(&cfg.SystemPrompt, "system-prompt", getEnv("DEFAULT_SYSTEM_PROMPT", ""), "Default system prompt override")
	flag.StringVar(&cfg.TokenizerEncoding, "tokenizer-encoding", getEnv("TOKENIZER_ENCODING", tokenizer.DefaultEncoding), "tiktoken encoding name")

	timeoutStr := getEnv("REQUEST_TIMEOUT", "30s")
	defaultTimeout, _ := time.ParseDuration(timeoutStr)
	if defaultTimeout == 0 {
		defaultTimeout = 30 * time.Second
	}
	flag.DurationVar(&cfg.RequestTimeout, "request-timeout", defaultTimeout, "Outbound call timeout")

	flag.Parse()
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
