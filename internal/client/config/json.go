package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/wanderlog/internal/flagx"
	"github.com/dmitrijs2005/wanderlog/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling. Intervals use
// timex.Duration so the file may say "1500ms" or give nanoseconds.
type JsonConfig struct {
	CacheDSN        string         `json:"cache_dsn"`
	RemoteDSN       string         `json:"remote_dsn"`
	RemoteTimeout   timex.Duration `json:"remote_timeout"`
	DebounceWindow  timex.Duration `json:"debounce_window"`
	SavedResetDelay timex.Duration `json:"saved_reset_delay"`
	TokenSecret     string         `json:"token_secret"`
	LogLevel        string         `json:"log_level"`

	S3Region       string `json:"s3_region"`
	S3User         string `json:"s3_user"`
	S3Password     string `json:"s3_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson overlays cfg with the fields present in the file named by -c or
// -config. Absent or zero fields keep their current value. Panics on read or
// decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.CacheDSN, jc.CacheDSN)
	setString(&cfg.RemoteDSN, jc.RemoteDSN)
	setString(&cfg.TokenSecret, jc.TokenSecret)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3User, jc.S3User)
	setString(&cfg.S3Password, jc.S3Password)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)

	if jc.RemoteTimeout.Duration != 0 {
		cfg.RemoteTimeout = jc.RemoteTimeout.Duration
	}
	if jc.DebounceWindow.Duration != 0 {
		cfg.DebounceWindow = jc.DebounceWindow.Duration
	}
	if jc.SavedResetDelay.Duration != 0 {
		cfg.SavedResetDelay = jc.SavedResetDelay.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
