package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Uploads  UploadsConfig  `koanf:"uploads"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Host        string   `koanf:"host"`
	Port        int      `koanf:"port"`
	CORSOrigins []string `koanf:"cors_origins"`
}

type UploadsConfig struct {
	Dir           string `koanf:"dir"`
	MaxFileMB     int    `koanf:"max_file_mb"`
	Retention     string `koanf:"retention"`
	SweepInterval string `koanf:"sweep_interval"`
}

type PipelineConfig struct {
	StepDelay    string `koanf:"step_delay"`
	MinTextChars int    `koanf:"min_text_chars"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads config from TOML file (if provided) then overlays env vars.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	// 2. Load TOML config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load env vars: CVLENS_UPLOADS_MAX_FILE_MB -> uploads.max_file_mb.
	// The first token is the config section; the rest is the key, so
	// multi-word keys keep their underscores.
	// Only set env vars that have non-empty values to avoid overriding TOML config.
	if err := k.Load(env.ProviderWithValue("CVLENS_", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		parts := strings.SplitN(
			strings.ToLower(strings.TrimPrefix(key, "CVLENS_")),
			"_", 2,
		)
		if len(parts) != 2 {
			return "", nil
		}
		return parts[0] + "." + parts[1], value
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
