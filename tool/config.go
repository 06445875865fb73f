package tool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quickshare/sharesheet-go/types"
)

var ConfigPath = "config.yaml" // be aware that it can be changed, default to ./config.yaml

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		SettleDelayMs:    250,
		AutoCloseSeconds: 30,
		ShareCaption:     "Share files",
		BridgeAddress:    "127.0.0.1:53419",
		ShareSocketPath:  "/tmp/sharesheet-facility.sock",
	}
}

// LoadConfig reads config.yaml, creating it with defaults when missing.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	// clamp nonsense durations back to defaults rather than hanging or
	// closing instantly
	if cfg.SettleDelayMs <= 0 {
		cfg.SettleDelayMs = defaultConfig().SettleDelayMs
	}
	if cfg.AutoCloseSeconds <= 0 {
		cfg.AutoCloseSeconds = defaultConfig().AutoCloseSeconds
	}

	return cfg, nil
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
