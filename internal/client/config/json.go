package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/conecta/internal/flagx"
	"github.com/dmitrijs2005/conecta/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DatabasePath        string         `json:"database_path"`
	RemoteMode          string         `json:"remote_mode"`
	RemoteDSN           string         `json:"remote_dsn"`
	RemoteEndpoint      string         `json:"remote_endpoint"`
	AnonKey             string         `json:"anon_key"`
	RemoteTimeout       timex.Duration `json:"remote_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	ReportDir           string         `json:"report_dir"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config, falling back to
// CONECTA_CONFIG. Keys missing from the file leave cfg untouched. Read or
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:], "CONECTA_CONFIG")
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

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RemoteMode, jc.RemoteMode)
	setString(&cfg.RemoteDSN, jc.RemoteDSN)
	setString(&cfg.RemoteEndpoint, jc.RemoteEndpoint)
	setString(&cfg.AnonKey, jc.AnonKey)
	setString(&cfg.ReportDir, jc.ReportDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RemoteTimeout.Duration > 0 {
		cfg.RemoteTimeout = jc.RemoteTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
