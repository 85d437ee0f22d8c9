package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Env: map[string]string{}})
	require.NoError(t, err)

	want := Config{
		Port: 5000,
		Generation: GenerationConfig{
			Provider:    ProviderOpenAI,
			Temperature: 0.7,
		},
		Kroki:   KrokiConfig{BaseURL: "https://kroki.io"},
		Logging: LoggingConfig{Level: "info", Format: FormatJSON},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, DefaultOpenAIModel, cfg.Generation.ResolvedModel())
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := Load(LoadOptions{Env: map[string]string{
		"PORT":           "8081",
		"OPENAI_API_KEY": "sk-test",
		"OPENAI_MODEL":   "gpt-4o",
		"KROKI_URL":      "http://kroki.internal:8000",
		"LOG_LEVEL":      "debug",
		"LOG_FORMAT":     "console",
		"GEMINI_API_KEY": "ignored-for-openai",
	}})
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "sk-test", cfg.Generation.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Generation.ResolvedModel())
	assert.Equal(t, "http://kroki.internal:8000", cfg.Kroki.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, FormatConsole, cfg.Logging.Format)
}

func TestLoadGeminiProvider(t *testing.T) {
	t.Run("gemini key", func(t *testing.T) {
		cfg, err := Load(LoadOptions{Env: map[string]string{
			"GENERATION_PROVIDER": "Gemini",
			"GEMINI_API_KEY":      "gm-key",
			"OPENAI_API_KEY":      "sk-test",
		}})
		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, cfg.Generation.Provider)
		assert.Equal(t, "gm-key", cfg.Generation.APIKey)
		assert.Equal(t, DefaultGeminiModel, cfg.Generation.ResolvedModel())
	})

	t.Run("google key fallback", func(t *testing.T) {
		cfg, err := Load(LoadOptions{Env: map[string]string{
			"GENERATION_PROVIDER": "gemini",
			"GOOGLE_API_KEY":      "google-key",
		}})
		require.NoError(t, err)
		assert.Equal(t, "google-key", cfg.Generation.APIKey)
	})

	t.Run("provider from file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "textdiagram.hcl", `
generation {
  provider = " Gemini "
}
`)
		cfg, err := Load(LoadOptions{
			ConfigFile: path,
			Env:        map[string]string{"GEMINI_API_KEY": "gm-key"},
		})
		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, cfg.Generation.Provider)
		assert.Equal(t, "gm-key", cfg.Generation.APIKey)
	})
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "textdiagram.hcl", `
port = 7000

generation {
  provider    = "openai"
  api_key     = env.OPENAI_API_KEY
  model       = "gpt-4.1-mini"
  temperature = 0.2
  retry_max   = 2
  timeout     = "45s"
}

kroki {
  base_url  = "http://localhost:8000"
  retry_max = 1
  timeout   = "10s"
}

logging {
  level = "warn"
}
`)

	cfg, err := Load(LoadOptions{
		ConfigFile: path,
		Env:        map[string]string{"OPENAI_API_KEY": "sk-from-env"},
	})
	require.NoError(t, err)

	want := Config{
		Port: 7000,
		Generation: GenerationConfig{
			Provider:    ProviderOpenAI,
			APIKey:      "sk-from-env",
			Model:       "gpt-4.1-mini",
			Temperature: 0.2,
			RetryMax:    2,
			Timeout:     45 * time.Second,
		},
		Kroki: KrokiConfig{
			BaseURL:  "http://localhost:8000",
			RetryMax: 1,
			Timeout:  10 * time.Second,
		},
		Logging: LoggingConfig{Level: "warn", Format: FormatJSON},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "textdiagram.hcl", `
port = 7000
kroki {
  base_url = "http://localhost:8000"
}
`)

	cfg, err := Load(LoadOptions{
		ConfigFile: path,
		Env:        map[string]string{"PORT": "9000"},
	})
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Kroki.BaseURL)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "OPENAI_API_KEY=sk-dotenv\nPORT=6000\nKROKI_URL=http://dotenv:8000\nDIAGRAM_MODEL=gpt-dotenv\n")
	cfgFile := writeFile(t, dir, "textdiagram.hcl", `
generation {
  model = env.DIAGRAM_MODEL
}
`)

	t.Run("dotenv fills unset variables", func(t *testing.T) {
		cfg, err := Load(LoadOptions{
			EnvFile: envFile,
			Env:     map[string]string{"PORT": "6500"},
		})
		require.NoError(t, err)
		assert.Equal(t, 6500, cfg.Port, "process env wins over dotenv")
		assert.Equal(t, "sk-dotenv", cfg.Generation.APIKey)
		assert.Equal(t, "http://dotenv:8000", cfg.Kroki.BaseURL)
	})

	t.Run("dotenv visible to config file", func(t *testing.T) {
		cfg, err := Load(LoadOptions{
			EnvFile:    envFile,
			ConfigFile: cfgFile,
			Env:        map[string]string{},
		})
		require.NoError(t, err)
		assert.Equal(t, "gpt-dotenv", cfg.Generation.Model)
		assert.Equal(t, "sk-dotenv", cfg.Generation.APIKey)
	})

	t.Run("missing explicit env file", func(t *testing.T) {
		_, err := Load(LoadOptions{
			EnvFile: filepath.Join(dir, "missing.env"),
			Env:     map[string]string{},
		})
		assert.Error(t, err)
	})
}

func TestLoadConfigFileInterpolation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "textdiagram.hcl", `
kroki {
  base_url = "http://${env.KROKI_HOST}:8000"
}
`)

	cfg, err := Load(LoadOptions{
		ConfigFile: path,
		Env:        map[string]string{"KROKI_HOST": "renderer"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://renderer:8000", cfg.Kroki.BaseURL)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid port env",
			env:     map[string]string{"PORT": "http"},
			wantErr: "invalid PORT",
		},
		{
			name:    "port out of range",
			env:     map[string]string{"PORT": "70000"},
			wantErr: "port must be between",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"GENERATION_PROVIDER": "llama"},
			wantErr: "unknown generation provider",
		},
		{
			name:    "kroki url without scheme",
			env:     map[string]string{"KROKI_URL": "kroki.io"},
			wantErr: "invalid kroki base_url",
		},
		{
			name:    "unknown log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: "unknown log format",
		},
		{
			name:    "unknown attribute",
			file:    "colour = \"blue\"\n",
			wantErr: "failed to parse config file",
		},
		{
			name:    "bad timeout",
			file:    "kroki {\n  timeout = \"soon\"\n}\n",
			wantErr: "kroki timeout",
		},
		{
			name:    "temperature out of range",
			file:    "generation {\n  temperature = 3\n}\n",
			wantErr: "temperature must be between",
		},
		{
			name:    "negative retries",
			file:    "generation {\n  retry_max = -1\n}\n",
			wantErr: "retry_max cannot be negative",
		},
		{
			name:    "undefined env reference",
			file:    "generation {\n  api_key = env.NOT_SET\n}\n",
			wantErr: "failed to parse config file",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := LoadOptions{Env: tt.env}
			if opts.Env == nil {
				opts.Env = map[string]string{}
			}
			if tt.file != "" {
				opts.ConfigFile = writeFile(t, dir, filepath.Base(t.Name())+string(rune('a'+i))+".hcl", tt.file)
			}

			_, err := Load(opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
