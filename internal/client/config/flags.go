package config

import (
	"flag"
	"os"
	"time"

	"clinicbook/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   base URL of the booking API
//	-s string   session file path
//	-t int      request timeout in seconds
//
// Args are filtered down to the flags handled here so this layer does not
// interfere with -c/-config, which the JSON layer owns.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the booking API")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "path to the session file")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
