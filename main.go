package main

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/quickshare/sharesheet-go/bridge"
	"github.com/quickshare/sharesheet-go/payload"
	"github.com/quickshare/sharesheet-go/session"
	"github.com/quickshare/sharesheet-go/share"
	"github.com/quickshare/sharesheet-go/tool"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UseBridgeAddress != "" {
		appCfg.BridgeAddress = cfg.UseBridgeAddress
	}
	if cfg.UseShareSocket != "" {
		appCfg.ShareSocketPath = cfg.UseShareSocket
	}

	// initialize logger
	tool.InitLogger()
	switch strings.ToLower(cfg.Log) {
	case "", "dev":
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	case "prod":
		tool.DefaultLogger.SetLevel(log.InfoLevel)
	case "none":
		tool.DefaultLogger.SetLevel(log.FatalLevel)
	default:
		tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", cfg.Log)
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	}

	// the shell may split the encoded payload across several arguments;
	// the transport encoding carries no spaces, so plain concatenation is safe
	raw := cfg.UsePayload
	if raw == "" {
		raw = strings.Join(flag.Args(), "")
	}

	sessionID := tool.GenerateShortSessionID()
	tool.DefaultLogger.Infof("Starting share session %s", sessionID)

	hub := bridge.NewHub(time.Duration(appCfg.AutoCloseSeconds) * time.Second)
	facility := share.NewSocketFacility(appCfg.ShareSocketPath)
	invoker := share.NewInvoker(facility, appCfg.ShareCaption)

	controller := session.New(session.Deps{
		Decoder:     payload.Decode,
		Sharer:      invoker,
		Notifier:    hub,
		Host:        hub,
		Exit:        func() { os.Exit(0) },
		SettleDelay: time.Duration(appCfg.SettleDelayMs) * time.Millisecond,
		AutoClose:   time.Duration(appCfg.AutoCloseSeconds) * time.Second,
		SessionID:   sessionID,
	})

	if !cfg.UseNoBridge {
		server := bridge.NewServer(appCfg.BridgeAddress, controller, hub)
		go func() {
			if err := server.Start(); err != nil {
				tool.DefaultLogger.Fatalf("Shell bridge startup failed: %v", err)
			}
		}()
	}

	controller.Start(raw)
	<-controller.Done()
}
