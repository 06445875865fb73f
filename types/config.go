package types

// AppConfig is the persisted configuration, loaded from config.yaml.
type AppConfig struct {
	SettleDelayMs    int    `yaml:"settleDelayMs"`    // pause before invoking the share facility
	AutoCloseSeconds int    `yaml:"autoCloseSeconds"` // fallback auto-close timeout
	ShareCaption     string `yaml:"shareCaption"`     // caption shown on the native share sheet
	BridgeAddress    string `yaml:"bridgeAddress"`    // listen address for the window shell bridge
	ShareSocketPath  string `yaml:"shareSocketPath"`  // unix socket of the share facility helper
}

// Config holds runtime overrides from CLI flags.
type Config struct {
	Log              string
	UsePayload       string
	UseConfigPath    string
	UseBridgeAddress string
	UseShareSocket   string
	UseNoBridge      bool
}
