package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/conecta/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string   local database path
//	-m string   remote mode: off, postgres or grpc
//	-r string   PostgreSQL DSN (postgres mode)
//	-a string   backend address (grpc mode)
//	-k string   anon API key (grpc mode)
//	-t int      remote call timeout (seconds)
//	-i int      online check interval (seconds)
//	-o string   report output directory
//	-l string   log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-m", "-r", "-a", "-k", "-t", "-i", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.RemoteMode, "m", cfg.RemoteMode, "remote mode (off, postgres, grpc)")
	fs.StringVar(&cfg.RemoteDSN, "r", cfg.RemoteDSN, "remote PostgreSQL DSN")
	fs.StringVar(&cfg.RemoteEndpoint, "a", cfg.RemoteEndpoint, "address and port of the backend")
	fs.StringVar(&cfg.AnonKey, "k", cfg.AnonKey, "anon API key")
	remoteTimeout := fs.Int("t", int(cfg.RemoteTimeout.Seconds()), "remote call timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.ReportDir, "o", cfg.ReportDir, "report output directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only flags actually given replace durations; sub-second values from
	// JSON or env would otherwise be truncated to zero.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RemoteTimeout = time.Duration(*remoteTimeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
