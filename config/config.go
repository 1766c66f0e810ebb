package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissing     = errors.New("missing required value")
	ErrPlaceholder = errors.New("placeholder value not replaced")
)

// defaultDocument is used when no config file exists, so the process can be
// configured from the environment (or .env) alone.
const defaultDocument = `
speech:
  key: ${SPEECH_KEY}
  region: ${SPEECH_REGION}
openai:
  api_key: ${AZURE_OPENAI_API_KEY}
  endpoint: ${AZURE_OPENAI_ENDPOINT}
  deployment: ${AZURE_OPENAI_DEPLOYMENT}
  api_version: ${AZURE_OPENAI_API_VERSION}
`

type Config struct {
	Speech SpeechConfig `yaml:"speech"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Audio  AudioConfig  `yaml:"audio"`
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
}

type SpeechConfig struct {
	Key      string `yaml:"key"`
	Region   string `yaml:"region"`
	Language string `yaml:"language"`
	Voice    string `yaml:"voice"`
}

type OpenAIConfig struct {
	APIKey     string `yaml:"api_key"`
	Endpoint   string `yaml:"endpoint"`
	Deployment string `yaml:"deployment"`
	APIVersion string `yaml:"api_version"`
	MaxTokens  int    `yaml:"max_tokens"`
}

type AudioConfig struct {
	// Source is one of "sdk" (Speech SDK default microphone), "microphone"
	// (portaudio capture) or "file" (WAV files dropped into FileDir).
	Source     string `yaml:"source"`
	FileDir    string `yaml:"file_dir"`
	SampleRate int    `yaml:"sample_rate"`
}

type HTTPConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
	Debug     bool   `yaml:"debug"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Load reads .env (if present) into the environment, then parses the YAML
// file at path with ${VAR} expansion. A missing file falls back to
// defaultDocument.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data = []byte(defaultDocument)
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Speech.Language == "" {
		c.Speech.Language = "en-US"
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "en-GB-RyanNeural"
	}
	if c.OpenAI.APIVersion == "" {
		c.OpenAI.APIVersion = "2024-02-01"
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 100
	}
	if c.Audio.Source == "" {
		c.Audio.Source = "sdk"
	}
	if c.Audio.FileDir == "" {
		c.Audio.FileDir = "./audio"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":5000"
	}
	if c.HTTP.StaticDir == "" {
		c.HTTP.StaticDir = "./static"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 20
	}
}

// Validate checks everything both front ends need.
func (c *Config) Validate() error {
	return errors.Join(c.ValidateSpeech(), c.ValidateChat())
}

// ValidateChat checks the completion-service settings.
func (c *Config) ValidateChat() error {
	return errors.Join(
		required("openai.api_key", c.OpenAI.APIKey),
		required("openai.endpoint", c.OpenAI.Endpoint),
		required("openai.deployment", c.OpenAI.Deployment),
		required("openai.api_version", c.OpenAI.APIVersion),
	)
}

// ValidateSpeech checks the speech-service settings.
func (c *Config) ValidateSpeech() error {
	return errors.Join(
		required("speech.key", c.Speech.Key),
		required("speech.region", c.Speech.Region),
	)
}

func required(name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s: %w", name, ErrMissing)
	}
	if isPlaceholder(value) {
		return fmt.Errorf("%s: %w", name, ErrPlaceholder)
	}
	return nil
}

func isPlaceholder(value string) bool {
	if strings.Contains(strings.ToUpper(value), "YOUR_") {
		return true
	}
	return strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">")
}
