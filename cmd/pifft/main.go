package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pifft/remote/internal/app"
	"github.com/pifft/remote/internal/client"
	"github.com/pifft/remote/internal/config"
	"github.com/pifft/remote/internal/session"
)

func main() {
	host := flag.String("host", "", "Device host (overrides config)")
	port := flag.Int("port", 0, "Device port (overrides config)")
	configPath := flag.String("config", "pifft.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Device.Host = *host
	}
	if *port > 0 {
		cfg.Device.Port = *port
	}

	// The standard logger would scribble over the alternate screen.
	log.SetOutput(io.Discard)

	mgr := session.NewManager(func(ep client.Endpoint) session.Transport {
		return client.New(ep, cfg.Poll.RequestTimeout)
	}, cfg.Poll.Interval)

	m := app.New(mgr, cfg.Device.Host, cfg.Device.Port)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
