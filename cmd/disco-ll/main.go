// Command disco-ll is an interactive link-local presence browser.
//
// It advertises own presence over mDNS (_presence._tcp), including an
// entity capability advertisement for this client, and browses the local
// network for peers, showing their capability advertisements.
//
// Usage:
//
//	disco-ll [flags]
//
// Flags:
//
//	-name string       Instance name (default "user@host")
//	-jid string        Entity address to expose
//	-nick string       Nickname to expose
//	-status string     Availability: avail, away, dnd (default "avail")
//	-port int          Advertised service port (default 5562)
//	-iface string      Network interface (default all)
//	-algo string       Capability hash algorithm (default "sha-1")
//	-no-advertise      Browse only, do not advertise
//	-log-level string  Log level: debug, info, warn, error (default "info")
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/disco-protocol/disco-go/cmd/disco-ll/interactive"
	"github.com/disco-protocol/disco-go/pkg/caps"
	"github.com/disco-protocol/disco-go/pkg/disco"
	"github.com/disco-protocol/disco-go/pkg/linklocal"
)

// capsNode is the node URI this client advertises.
const capsNode = "https://github.com/disco-protocol/disco-go"

// Config holds the browser configuration.
type Config struct {
	Name        string
	JID         string
	Nick        string
	Status      string
	Port        int
	Interface   string
	Algo        string
	NoAdvertise bool
	LogLevel    string
}

var config Config

func init() {
	flag.StringVar(&config.Name, "name", "", "Instance name (default user@host)")
	flag.StringVar(&config.JID, "jid", "", "Entity address to expose")
	flag.StringVar(&config.Nick, "nick", "", "Nickname to expose")
	flag.StringVar(&config.Status, "status", "avail", "Availability: avail, away, dnd")
	flag.IntVar(&config.Port, "port", linklocal.DefaultPort, "Advertised service port")
	flag.StringVar(&config.Interface, "iface", "", "Network interface (default all)")
	flag.StringVar(&config.Algo, "algo", "sha-1", "Capability hash algorithm")
	flag.BoolVar(&config.NoAdvertise, "no-advertise", false, "Browse only, do not advertise")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	logger := setupLogging(config.LogLevel)

	if config.Name == "" {
		config.Name = defaultInstanceName()
	}
	if !caps.Supported(config.Algo) {
		fmt.Fprintf(os.Stderr, "Unsupported hash algorithm: %s\n", config.Algo)
		os.Exit(1)
	}

	info := &linklocal.PresenceInfo{
		InstanceName: config.Name,
		JID:          config.JID,
		Nick:         config.Nick,
		Status:       config.Status,
		Port:         uint16(config.Port),
		Caps:         selfAdvertisement(config.Algo),
	}
	if err := info.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid presence: %v\n", err)
		os.Exit(1)
	}

	browser := linklocal.NewBrowser(linklocal.BrowserConfig{Interface: config.Interface})
	advertiser := linklocal.NewAdvertiser(linklocal.AdvertiserConfig{Interface: config.Interface})

	if !config.NoAdvertise {
		if err := advertiser.Advertise(info); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to advertise presence: %v\n", err)
			os.Exit(1)
		}
		logger.Info("advertising presence",
			"instance", info.InstanceName,
			"algo", info.Caps.Algo,
			"ver", info.Caps.Ver)
	}

	shell, err := interactive.New(browser, advertiser, info, !config.NoAdvertise)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start shell: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shut down cleanly on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	shell.Run(ctx, cancel)

	browser.Stop()
	if !config.NoAdvertise {
		_ = advertiser.Stop()
	}
}

// selfInfo is the disco#info this client would answer a probe with.
func selfInfo() *disco.Info {
	return &disco.Info{
		Identities: []disco.Identity{
			{Category: "client", Type: "console", Name: "disco-ll"},
		},
		Features: []string{
			disco.NSCaps,
			disco.NSInfo,
			disco.NSItems,
		},
	}
}

// selfAdvertisement computes the capability advertisement for this client.
func selfAdvertisement(algo string) *caps.Advertisement {
	ver, _ := caps.VerificationValue(algo, selfInfo())
	return &caps.Advertisement{
		Algo: algo,
		Node: capsNode,
		Ver:  ver,
	}
}

// defaultInstanceName builds the conventional "user@host" instance name.
func defaultInstanceName() string {
	username := "disco"
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s@%s", username, host)
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
