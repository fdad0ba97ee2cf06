package config

import (
	"github.com/knadh/koanf/v2"
)

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"server.host":         "0.0.0.0",
		"server.port":         8080,
		"server.cors_origins": []string{"*"},

		"uploads.dir":            "uploads",
		"uploads.max_file_mb":    10,
		"uploads.retention":      "60m",
		"uploads.sweep_interval": "15m",

		"pipeline.step_delay":     "1s",
		"pipeline.min_text_chars": 50,

		"logging.level":  "info",
		"logging.format": "pretty",
	}

	for key, val := range defaults {
		k.Set(key, val)
	}
	return nil
}
