package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/wanderlog/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string     local cache DSN
//	-r string     remote Postgres DSN
//	-t duration   remote call timeout
//	-w duration   remote write debounce window
//	-k string     session token secret
//	-l string     log level (debug, info, warn, error)
//	-s3 string    S3 base endpoint for photo cleanup
//
// Only the flags listed here are parsed; the rest of os.Args is ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-t", "-w", "-k", "-l", "-s3"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "local cache DSN")
	fs.StringVar(&cfg.RemoteDSN, "r", cfg.RemoteDSN, "remote store DSN")
	fs.DurationVar(&cfg.RemoteTimeout, "t", cfg.RemoteTimeout, "remote call timeout")
	fs.DurationVar(&cfg.DebounceWindow, "w", cfg.DebounceWindow, "remote write debounce window")
	fs.StringVar(&cfg.TokenSecret, "k", cfg.TokenSecret, "session token secret")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
