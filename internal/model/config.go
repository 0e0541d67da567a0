package model

import "time"

// Config is the complete saaquiz configuration tree
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Generator GeneratorConfig `yaml:"generator" mapstructure:"generator"`
	Quiz      QuizConfig      `yaml:"quiz" mapstructure:"quiz"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// HTTPConfig configures outbound HTTP (question list fetch)
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LLMConfig configures the text-generation model
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"-" mapstructure:"api_key"` // Never written to disk
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature       float32 `yaml:"temperature" mapstructure:"temperature"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 = unthrottled
}

// EmbeddingConfig configures the embedding model.
// It must be the model the index file was built with.
type EmbeddingConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // openai, ollama
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"-" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}

// GeneratorConfig configures question generation
type GeneratorConfig struct {
	CorpusPath       string `yaml:"corpus_path" mapstructure:"corpus_path"`
	IndexPath        string `yaml:"index_path" mapstructure:"index_path"`
	DomainsPath      string `yaml:"domains_path" mapstructure:"domains_path"`
	ScenariosPath    string `yaml:"scenarios_path,omitempty" mapstructure:"scenarios_path"` // Empty = built-in list
	OutputPath       string `yaml:"output_path" mapstructure:"output_path"`
	MaxSectionTokens int    `yaml:"max_section_tokens" mapstructure:"max_section_tokens"`
	Separator        string `yaml:"separator" mapstructure:"separator"`
	Encoding         string `yaml:"encoding" mapstructure:"encoding"`
	Seed             uint64 `yaml:"seed" mapstructure:"seed"` // 0 = random
	ContinueOnError  bool   `yaml:"continue_on_error" mapstructure:"continue_on_error"`
	Limit            int    `yaml:"limit" mapstructure:"limit"` // 0 = all items
	IndexWorkers     int    `yaml:"index_workers" mapstructure:"index_workers"`
}

// QuizConfig configures the quiz runtime
type QuizConfig struct {
	Source       string `yaml:"source" mapstructure:"source"` // URL or local path
	Shuffle      bool   `yaml:"shuffle" mapstructure:"shuffle"`
	Seed         uint64 `yaml:"seed" mapstructure:"seed"`
	ShowScenario bool   `yaml:"show_scenario" mapstructure:"show_scenario"`
}

// ServerConfig configures the quiz web server
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// LoggingConfig configures the process logger
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	Color bool   `yaml:"color" mapstructure:"color"`
}

// DefaultQuestionSource is where the published question list lives
const DefaultQuestionSource = "https://raw.githubusercontent.com/banjtheman/aws_saa_ai_quiz/main/trim_aws_ai_gen_questions.json"

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "saaquiz/0.1",
			MaxBodyBytes: 50 << 20,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-3.5-turbo",
			Timeout:     60,
			MaxTokens:   1000,
			Temperature: 0.7,
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-ada-002",
			Timeout:  30,
		},
		Generator: GeneratorConfig{
			CorpusPath:       "min_aws_wa.csv",
			IndexPath:        "document_embeddings.csv",
			DomainsPath:      "domain_array.json",
			OutputPath:       "full_ai_gen_questions.json",
			MaxSectionTokens: 1500,
			Separator:        "\n* ",
			Encoding:         "cl100k_base",
			IndexWorkers:     4,
		},
		Quiz: QuizConfig{
			Source:  DefaultQuestionSource,
			Shuffle: true,
		},
		Server: ServerConfig{
			Addr:           ":8501",
			RequestTimeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			Color: true,
		},
	}
}
