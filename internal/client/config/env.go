package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is loaded (if present) before environment variables are read.
// Variables already set in the process environment win over the file.
var dotEnvFile = ".env"

// parseEnv overlays CONECTA_* environment variables. An invalid duration
// panics, like an invalid flag.
func parseEnv(cfg *Config) {
	if _, err := os.Stat(dotEnvFile); err == nil {
		if err := godotenv.Load(dotEnvFile); err != nil {
			panic(err)
		}
	}

	envString(&cfg.DatabasePath, "CONECTA_DB_PATH")
	envString(&cfg.RemoteMode, "CONECTA_REMOTE_MODE")
	envString(&cfg.RemoteDSN, "CONECTA_REMOTE_DSN")
	envString(&cfg.RemoteEndpoint, "CONECTA_REMOTE_ENDPOINT")
	envString(&cfg.AnonKey, "CONECTA_ANON_KEY")
	envString(&cfg.ReportDir, "CONECTA_REPORT_DIR")
	envString(&cfg.LogLevel, "CONECTA_LOG_LEVEL")
	envDuration(&cfg.RemoteTimeout, "CONECTA_REMOTE_TIMEOUT")
	envDuration(&cfg.OnlineCheckInterval, "CONECTA_ONLINE_CHECK_INTERVAL")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
