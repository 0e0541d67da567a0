package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/saaquiz/internal/model"
)

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestCredentialsFor(t *testing.T) {
	tests := []struct {
		name        string
		provider    string
		apiKey      string
		baseURL     string
		env         map[string]string
		wantKey     string
		wantBaseURL string
	}{
		{
			name:     "openai primary variable",
			provider: "openai",
			env:      map[string]string{"OPENAI_API_KEY": "sk-1", "OPEN_AI_KEY": "sk-2"},
			wantKey:  "sk-1",
		},
		{
			name:     "openai legacy variable",
			provider: "openai",
			env:      map[string]string{"OPEN_AI_KEY": "sk-2"},
			wantKey:  "sk-2",
		},
		{
			name:     "configured key wins",
			provider: "OpenAI",
			apiKey:   "sk-config",
			env:      map[string]string{"OPENAI_API_KEY": "sk-1"},
			wantKey:  "sk-config",
		},
		{
			name:     "anthropic",
			provider: "anthropic",
			env:      map[string]string{"ANTHROPIC_API_KEY": "sk-ant"},
			wantKey:  "sk-ant",
		},
		{
			name:        "ollama base url",
			provider:    "ollama",
			env:         map[string]string{"OLLAMA_BASE_URL": "http://gpu:11434", "OPENAI_API_KEY": "sk-1"},
			wantBaseURL: "http://gpu:11434",
		},
		{
			name:        "ollama configured url wins",
			provider:    "ollama",
			baseURL:     "http://localhost:11434",
			env:         map[string]string{"OLLAMA_BASE_URL": "http://gpu:11434"},
			wantBaseURL: "http://localhost:11434",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, baseURL := credentialsFor(tt.provider, tt.apiKey, tt.baseURL, envFrom(tt.env))
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantBaseURL, baseURL)
		})
	}
}

func TestApplyCredentials(t *testing.T) {
	c := model.DefaultConfig()
	c.LLM.Provider = "anthropic"
	c.Embedding.Provider = "openai"

	applyCredentials(c, envFrom(map[string]string{
		"ANTHROPIC_API_KEY": "sk-ant",
		"OPENAI_API_KEY":    "sk-openai",
	}))

	assert.Equal(t, "sk-ant", c.LLM.APIKey)
	assert.Equal(t, "sk-openai", c.Embedding.APIKey)
}

func TestRegisterDefaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, registerDefaults(v, model.DefaultConfig()))

	assert.Equal(t, ":8501", v.GetString("server.addr"))
	assert.Equal(t, 1500, v.GetInt("generator.max_section_tokens"))
	assert.True(t, v.GetBool("quiz.shuffle"))
	assert.True(t, v.IsSet("llm.api_key"))
}

func TestRegisterDefaults_EnvOverride(t *testing.T) {
	t.Setenv("SAAQUIZ_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("SAAQUIZ_QUIZ_SHUFFLE", "false")

	v := viper.New()
	require.NoError(t, registerDefaults(v, model.DefaultConfig()))
	v.SetEnvPrefix("SAAQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := model.DefaultConfig()
	require.NoError(t, v.Unmarshal(c))

	assert.Equal(t, "gpt-4o-mini", c.LLM.Model)
	assert.False(t, c.Quiz.Shuffle)
	assert.Equal(t, model.DefaultQuestionSource, c.Quiz.Source)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# saaquiz configuration file")
	assert.Contains(t, string(data), "raw.githubusercontent.com")
	assert.NotContains(t, string(data), "api_key")

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCredentialState(t *testing.T) {
	assert.Equal(t, "not required (ollama)", credentialState("ollama", ""))
	assert.Equal(t, "set", credentialState("openai", "sk-1"))
	assert.Equal(t, "missing", credentialState("anthropic", ""))
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8501", displayAddr(model.ServerConfig{Addr: ":8501"}))
	assert.Equal(t, "0.0.0.0:80", displayAddr(model.ServerConfig{Addr: "0.0.0.0:80"}))
}
