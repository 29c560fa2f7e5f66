package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/swipecatalog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the catalog API
//	-d string   directory for local data
//	-s string   local store backend
//	-i int      online check interval in seconds
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the catalog API")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for local data")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "local store backend (file, sqlite, bolt)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
