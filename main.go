// Package main is the entry point for the FarmProof server.
// It loads configuration, opens the durable backing, and serves the
// REST API plus the SSE event stream to connected portal tabs.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/arif-itm/FarmProof/internal/backing"
	"github.com/arif-itm/FarmProof/internal/bus"
	"github.com/arif-itm/FarmProof/internal/config"
	"github.com/arif-itm/FarmProof/internal/store"
	"github.com/arif-itm/FarmProof/internal/weather"
	"github.com/arif-itm/FarmProof/internal/web"
)

func main() {
	configPath := flag.String("config", os.Getenv("FARMPROOF_CONFIG"), "Path to config file (optional)")
	flag.Parse()

	log.Println("FarmProof server starting...")

	cfg := config.Load(*configPath)

	b, err := backing.Open(backing.Driver(cfg.BackingDriver), cfg.BackingPath)
	if err != nil {
		log.Fatalf("Failed to open %s backing: %v", cfg.BackingDriver, err)
	}
	defer b.Close()
	log.Printf("Durable backing ready (%s)", cfg.BackingDriver)

	notifier := bus.NewLocal()
	st, err := store.New(b, notifier)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	log.Println("Store initialized")

	cfg.Port = resolvePort(cfg.Port)
	if err := ensurePortAvailable(cfg.Port); err != nil {
		log.Fatalf("Port %d unavailable: %v", cfg.Port, err)
	}

	server := web.NewServer(cfg, st, notifier, weather.NewService())

	serverErrors := server.Start()
	go func() {
		if err := <-serverErrors; err != nil {
			log.Fatalf("Web server exited: %v", err)
		}
	}()
	log.Printf("FarmProof API available at http://localhost:%d", cfg.Port)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
}

func resolvePort(defaultPort int) int {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		return defaultPort
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		log.Printf("Warning: invalid PORT value %q, using %d", portStr, defaultPort)
		return defaultPort
	}

	return port
}

func ensurePortAvailable(port int) error {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return listener.Close()
}
