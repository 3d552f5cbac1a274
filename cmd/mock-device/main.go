package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pifft/remote/internal/device"
)

func main() {
	addr := flag.String("addr", ":5000", "Listen address")
	autostart := flag.Bool("autostart", false, "Start analysis immediately")
	flag.Parse()

	analyzer := device.NewAnalyzer()
	if *autostart {
		analyzer.Start()
	}

	server := device.NewServer(analyzer)
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		analyzer.Stop()
		os.Exit(0)
	}()

	log.Printf("mock analyzer listening on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
