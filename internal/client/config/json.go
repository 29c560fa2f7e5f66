package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/swipecatalog/internal/flagx"
	"github.com/dmitrijs2005/swipecatalog/internal/timex"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL          *string         `json:"api_base_url"`
	DataDir             *string         `json:"data_dir"`
	StoreBackend        *string         `json:"store_backend"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	ProbeTimeout        *timex.Duration `json:"probe_timeout"`
	ImageCacheSize      *int            `json:"image_cache_size"`
	UploadWorkers       *int            `json:"upload_workers"`
	LogLevel            *string         `json:"log_level"`
	LogFile             *string         `json:"log_file"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.ProbeTimeout, jc.ProbeTimeout)
	if jc.ImageCacheSize != nil {
		cfg.ImageCacheSize = *jc.ImageCacheSize
	}
	if jc.UploadWorkers != nil {
		cfg.UploadWorkers = *jc.UploadWorkers
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
