package config

import (
	"flag"
	"os"
	"time"

	"github.com/mapsketch/mapsketch/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server (default from Config)
//	-i int      autosave interval in seconds (default from Config)
//	-d string   local cache database path (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend server")
	fs.StringVar(&cfg.CachePath, "d", cfg.CachePath, "local cache database path")
	autosaveInterval := fs.Int("i", int(cfg.AutosaveInterval.Seconds()), "autosave interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AutosaveInterval = time.Duration(*autosaveInterval) * time.Second
}
