// deckswitch - press-classification plugin for a programmable button deck.
// Classifies each button press as short or hold and runs the configured
// action tree through the OS key-injection and launch facilities.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"deckswitch/internal/autostart"
	"deckswitch/internal/config"
	"deckswitch/internal/controller"
	"deckswitch/internal/network"
	"deckswitch/internal/notify"
	"deckswitch/internal/platform"
	"deckswitch/internal/tray"
)

var (
	version = "0.1.0"

	// Registration parameters the deck host passes when it spawns the
	// plugin process.
	port          = flag.Int("port", 0, "Deck host websocket port")
	pluginUUID    = flag.String("pluginUUID", "", "Plugin UUID assigned by the host")
	registerEvent = flag.String("registerEvent", "registerPlugin", "Registration event name")
	hostInfo      = flag.String("info", "", "Host environment description (JSON)")

	showVer      = flag.Bool("version", false, "Show version")
	setAutostart = flag.String("autostart", "", "Enable or disable start on login (on|off)")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("deckswitch version %s\n", version)
		return
	}

	// Optional .env next to the working directory; absence is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	cfgMgr, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}
	cfgMgr.ApplyEnv()

	if *setAutostart != "" {
		handleAutostart(cfgMgr, *setAutostart)
		return
	}

	runPlugin(cfgMgr)
}

func handleAutostart(cfgMgr *config.Manager, mode string) {
	var err error
	switch mode {
	case "on":
		err = autostart.Enable()
	case "off":
		err = autostart.Disable()
	default:
		log.Fatalf("Invalid -autostart value %q (want on or off)", mode)
	}
	if err != nil {
		log.Fatalf("Failed to update autostart: %v", err)
	}

	cfg := cfgMgr.Get()
	cfg.General.StartOnBoot = mode == "on"
	cfgMgr.Set(cfg)
	if err := cfgMgr.Save(); err != nil {
		log.Printf("Warning: failed to save config: %v", err)
	}
	fmt.Printf("Start on login: %s\n", mode)
}

func runPlugin(cfgMgr *config.Manager) {
	cfg := cfgMgr.Get()

	hostPort := *port
	if hostPort == 0 {
		hostPort = cfg.General.HostPort
	}
	if hostPort == 0 {
		log.Fatal("No host port: pass -port or set host_port / DECKSWITCH_PORT")
	}

	log.Printf("deckswitch %s starting (port %d)", version, hostPort)
	if *hostInfo != "" {
		log.Printf("Host info: %s", *hostInfo)
	}

	exec := platform.New()
	notifier := notify.New(cfg.General.ShowNotifications)

	client := network.NewHostClient(hostPort, *registerEvent, *pluginUUID)
	ctrl := controller.New(client, exec)
	ctrl.Bind(client)

	var t *tray.Tray
	var statusItem int
	if cfg.General.ShowTray {
		t = setupTray(cfgMgr, &statusItem)
	}

	client.OnConnect = func() {
		notifier.Notify("deckswitch", "Connected to deck host")
		if t != nil {
			t.SetItemTitle(statusItem, "Status: connected")
		}
	}
	client.OnDisconnect = func() {
		notifier.Notify("deckswitch", "Lost connection to deck host")
		if t != nil {
			t.SetItemTitle(statusItem, "Status: disconnected")
		}
	}

	client.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if t != nil {
		go func() {
			<-sigCh
			log.Println("Shutting down...")
			client.Close()
			t.Stop()
		}()
		t.Run()
		return
	}

	<-sigCh
	log.Println("Shutting down...")
	client.Close()
}

func setupTray(cfgMgr *config.Manager, statusItem *int) *tray.Tray {
	t := tray.New("deckswitch", "deckswitch - deck button actions")

	*statusItem = t.AddMenuItem("Status: connecting...", nil)
	t.AddSeparator()

	bootTitle := func(enabled bool) string {
		if enabled {
			return "Start on login: on"
		}
		return "Start on login: off"
	}

	var bootItem int
	bootItem = t.AddMenuItem(bootTitle(autostart.IsEnabled()), func() {
		cfg := cfgMgr.Get()
		enable := !cfg.General.StartOnBoot

		var err error
		if enable {
			err = autostart.Enable()
		} else {
			err = autostart.Disable()
		}
		if err != nil {
			log.Printf("Autostart toggle failed: %v", err)
			return
		}

		cfg.General.StartOnBoot = enable
		cfgMgr.Set(cfg)
		if err := cfgMgr.Save(); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
		t.SetItemTitle(bootItem, bootTitle(enable))
	})

	t.AddSeparator()
	t.AddMenuItem("Quit", func() {
		t.Stop()
	})

	return t
}
