package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/flagx"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// that are present are copied into the runtime Config.
type JsonConfig struct {
	ServerBaseURL   string         `json:"server_base_url"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	DatabasePath    string         `json:"database_path"`
	TargetLang      string         `json:"target_lang"`
	DefaultPageSize int            `json:"default_page_size"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing is loaded. Fields absent from
// the file keep their current values.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.TargetLang, jc.TargetLang)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DefaultPageSize > 0 {
		cfg.DefaultPageSize = jc.DefaultPageSize
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
