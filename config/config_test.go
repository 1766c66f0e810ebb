package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-chat/config"
)

func setValidEnv(t *testing.T) {
	t.Setenv("SPEECH_KEY", "speech-key")
	t.Setenv("SPEECH_REGION", "westeurope")
	t.Setenv("AZURE_OPENAI_API_KEY", "openai-key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o-mini")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-06-01")
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	setValidEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
speech:
  key: ${SPEECH_KEY}
  region: ${SPEECH_REGION}
  voice: en-US-JennyNeural
openai:
  api_key: ${AZURE_OPENAI_API_KEY}
  endpoint: ${AZURE_OPENAI_ENDPOINT}
  deployment: ${AZURE_OPENAI_DEPLOYMENT}
  max_tokens: 64
http:
  addr: ":8081"
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "speech-key", cfg.Speech.Key)
	assert.Equal(t, "westeurope", cfg.Speech.Region)
	assert.Equal(t, "en-US-JennyNeural", cfg.Speech.Voice)
	assert.Equal(t, "en-US", cfg.Speech.Language)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Deployment)
	assert.Equal(t, "2024-02-01", cfg.OpenAI.APIVersion, "api_version is not in the file, so the default applies")
	assert.Equal(t, 64, cfg.OpenAI.MaxTokens)
	assert.Equal(t, ":8081", cfg.HTTP.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	setValidEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "https://example.openai.azure.com", cfg.OpenAI.Endpoint)
	assert.Equal(t, "2024-06-01", cfg.OpenAI.APIVersion)
	assert.Equal(t, "sdk", cfg.Audio.Source)
	assert.Equal(t, ":5000", cfg.HTTP.Addr)
	assert.Equal(t, "en-GB-RyanNeural", cfg.Speech.Voice)
	assert.NoError(t, cfg.Validate())
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := config.Parse([]byte("speech: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "missing speech key",
			doc:     "speech: {region: eastus}\nopenai: {api_key: k, endpoint: \"https://e\", deployment: d}",
			wantErr: config.ErrMissing,
		},
		{
			name:    "placeholder api key",
			doc:     "speech: {key: k, region: eastus}\nopenai: {api_key: YOUR_API_KEY, endpoint: \"https://e\", deployment: d}",
			wantErr: config.ErrPlaceholder,
		},
		{
			name:    "angle bracket placeholder",
			doc:     "speech: {key: k, region: eastus}\nopenai: {api_key: k, endpoint: \"<endpoint>\", deployment: d}",
			wantErr: config.ErrPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg, err := config.Parse([]byte("{}"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"speech.key", "speech.region", "openai.api_key", "openai.endpoint", "openai.deployment"} {
		assert.Contains(t, err.Error(), field)
	}

	assert.Error(t, cfg.ValidateChat())
	assert.Error(t, cfg.ValidateSpeech())
}

func TestValidateChat_IgnoresSpeech(t *testing.T) {
	cfg, err := config.Parse([]byte("openai: {api_key: k, endpoint: \"https://e\", deployment: d}"))
	require.NoError(t, err)

	assert.NoError(t, cfg.ValidateChat())
	assert.ErrorIs(t, cfg.ValidateSpeech(), config.ErrMissing)
}
