package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"
	"github.com/zclconf/go-cty/cty"
)

// DefaultEnvFile is read when LoadOptions.EnvFile is empty and the file exists.
const DefaultEnvFile = ".env"

// LoadOptions controls where Load reads configuration from.
type LoadOptions struct {
	// EnvFile is a dotenv file whose values act as environment variables that
	// are not already set. A missing explicit file is an error.
	EnvFile string
	// ConfigFile is an optional .hcl or .json file.
	ConfigFile string
	// Env replaces the process environment when non-nil, mainly for tests.
	Env map[string]string
}

// fileConfig mirrors Config in HCL. Blocks are pointers so they may be omitted.
type fileConfig struct {
	Port       *int             `hcl:"port,optional"`
	Generation *generationBlock `hcl:"generation,block"`
	Kroki      *krokiBlock      `hcl:"kroki,block"`
	Logging    *loggingBlock    `hcl:"logging,block"`
}

type generationBlock struct {
	Provider    string   `hcl:"provider,optional"`
	APIKey      string   `hcl:"api_key,optional"`
	Model       string   `hcl:"model,optional"`
	BaseURL     string   `hcl:"base_url,optional"`
	Temperature *float64 `hcl:"temperature,optional"`
	RetryMax    *int     `hcl:"retry_max,optional"`
	Timeout     string   `hcl:"timeout,optional"`
}

type krokiBlock struct {
	BaseURL  string `hcl:"base_url,optional"`
	RetryMax *int   `hcl:"retry_max,optional"`
	Timeout  string `hcl:"timeout,optional"`
}

type loggingBlock struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// Load builds and validates the configuration.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	lookup, err := newEnvLookup(opts)
	if err != nil {
		return Config{}, err
	}

	if opts.ConfigFile != "" {
		if err := applyFile(&cfg, opts.ConfigFile, lookup); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// envLookup resolves variables from the process environment first and the
// dotenv file second.
type envLookup struct {
	process map[string]string
	dotenv  map[string]string
}

func newEnvLookup(opts LoadOptions) (*envLookup, error) {
	l := &envLookup{process: opts.Env, dotenv: map[string]string{}}
	if l.process == nil {
		l.process = environ()
	}

	path := opts.EnvFile
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		l.dotenv = values
	case !explicit && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return l, nil
}

// get returns a non-empty value for key.
func (l *envLookup) get(key string) (string, bool) {
	if v, ok := l.process[key]; ok && v != "" {
		return v, true
	}
	if v, ok := l.dotenv[key]; ok && v != "" {
		return v, true
	}
	return "", false
}

// evalContext exposes the merged environment as env.NAME inside the config
// file. Process values win over dotenv values.
func (l *envLookup) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(l.dotenv)+len(l.process))
	for k, v := range l.dotenv {
		vars[k] = cty.StringVal(v)
	}
	for k, v := range l.process {
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

func applyFile(cfg *Config, path string, lookup *envLookup) error {
	var fc fileConfig
	if err := hclsimple.DecodeFile(path, lookup.evalContext(), &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Port != nil {
		cfg.Port = *fc.Port
	}

	if g := fc.Generation; g != nil {
		setString(&cfg.Generation.Provider, normalizeProvider(g.Provider))
		setString(&cfg.Generation.APIKey, g.APIKey)
		setString(&cfg.Generation.Model, g.Model)
		setString(&cfg.Generation.BaseURL, g.BaseURL)
		if g.Temperature != nil {
			cfg.Generation.Temperature = *g.Temperature
		}
		if g.RetryMax != nil {
			cfg.Generation.RetryMax = *g.RetryMax
		}
		if err := setDuration(&cfg.Generation.Timeout, g.Timeout); err != nil {
			return fmt.Errorf("generation timeout: %w", err)
		}
	}

	if k := fc.Kroki; k != nil {
		setString(&cfg.Kroki.BaseURL, k.BaseURL)
		if k.RetryMax != nil {
			cfg.Kroki.RetryMax = *k.RetryMax
		}
		if err := setDuration(&cfg.Kroki.Timeout, k.Timeout); err != nil {
			return fmt.Errorf("kroki timeout: %w", err)
		}
	}

	if l := fc.Logging; l != nil {
		setString(&cfg.Logging.Level, l.Level)
		setString(&cfg.Logging.Format, l.Format)
	}

	return nil
}

func applyEnv(cfg *Config, lookup *envLookup) error {
	if v, ok := lookup.get("PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v, ok := lookup.get("GENERATION_PROVIDER"); ok {
		cfg.Generation.Provider = normalizeProvider(v)
	}

	switch cfg.Generation.Provider {
	case ProviderGemini:
		if v, ok := lookup.get("GEMINI_API_KEY"); ok {
			cfg.Generation.APIKey = v
		} else if v, ok := lookup.get("GOOGLE_API_KEY"); ok {
			cfg.Generation.APIKey = v
		}
		if v, ok := lookup.get("GEMINI_MODEL"); ok {
			cfg.Generation.Model = v
		}
		if v, ok := lookup.get("GEMINI_BASE_URL"); ok {
			cfg.Generation.BaseURL = v
		}
	default:
		if v, ok := lookup.get("OPENAI_API_KEY"); ok {
			cfg.Generation.APIKey = v
		}
		if v, ok := lookup.get("OPENAI_MODEL"); ok {
			cfg.Generation.Model = v
		}
		if v, ok := lookup.get("OPENAI_BASE_URL"); ok {
			cfg.Generation.BaseURL = v
		}
	}

	if v, ok := lookup.get("KROKI_URL"); ok {
		cfg.Kroki.BaseURL = v
	}
	if v, ok := lookup.get("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := lookup.get("LOG_FORMAT"); ok {
		cfg.Logging.Format = v
	}

	return nil
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

func normalizeProvider(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("duration cannot be negative: %s", v)
	}
	*dst = d
	return nil
}
