package tool

import (
	"flag"

	"github.com/quickshare/sharesheet-go/types"
)

// SetFlags parses CLI flags and returns the override config. Positional
// arguments (the encoded share payload) stay in flag.Args().
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UsePayload, "usePayload", "", "override the encoded share payload (otherwise taken from positional args)")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseBridgeAddress, "useBridgeAddress", "", "override the window shell bridge listen address")
	flag.StringVar(&cfg.UseShareSocket, "useShareSocket", "", "override the share facility unix socket path")
	flag.BoolVar(&cfg.UseNoBridge, "useNoBridge", false, "do not start the window shell bridge (headless testing)")
	flag.Parse()
	return cfg
}
