// Command oraclefeed is a relay-connected oracle worker. It holds a
// read-only replica of a remote FarmProof server's state, fetches
// weather on an interval, evaluates the parametric trigger against the
// replica's thresholds, and pushes an oracle ledger entry back through
// the relay whenever the reading changes. It never mutates the replica
// directly; every write travels as a full-state push.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arif-itm/FarmProof/internal/config"
	"github.com/arif-itm/FarmProof/internal/oracle"
	"github.com/arif-itm/FarmProof/internal/relay"
	"github.com/arif-itm/FarmProof/internal/types"
	"github.com/arif-itm/FarmProof/internal/weather"
)

func main() {
	configPath := flag.String("config", os.Getenv("FARMPROOF_CONFIG"), "Path to config file (optional)")
	serverFlag := flag.String("server", "", "Base URL of the FarmProof server (overrides config)")
	flag.Parse()

	cfg := config.Load(*configPath)
	serverURL := cfg.RelayURL
	if *serverFlag != "" {
		serverURL = *serverFlag
	}

	log.Printf("oraclefeed starting against %s", serverURL)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := relay.New(serverURL)
	go client.Run(ctx)

	replica, err := client.Load()
	if err != nil {
		log.Fatalf("Failed to load initial replica: %v", err)
	}
	log.Printf("Replica seeded: %d farmers, block %d", len(replica.Farmers), replica.BlockNumber)

	events, unsubscribe := client.Subscribe()
	defer unsubscribe()

	ws := weather.NewService()
	interval := time.Duration(cfg.OracleInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastReading oracle.Reading
	for {
		select {
		case <-ctx.Done():
			log.Println("oraclefeed shutting down")
			return

		case ev := <-events:
			// Every relayed event carries the full post-mutation state.
			if ev.State != nil {
				replica = *ev.State
			}

		case <-ticker.C:
			reading := oracle.Simulate(replica.FloodSimulated, ws.Fetch(ctx))
			if reading == lastReading {
				continue
			}
			lastReading = reading

			verdict := oracle.Evaluate(reading, replica.Thresholds)
			client.Publish(recordReading(replica, reading, verdict))
		}
	}
}

// recordReading builds the oracle event for one reading: the replica is
// cloned, the block counter advanced, and a newest-first ledger entry
// prepended. The clone keeps the local replica untouched until the
// server relays the accepted state back.
func recordReading(replica types.DomainState, r oracle.Reading, v oracle.Verdict) types.Event {
	next := replica.Clone()
	next.BlockNumber += rand.Int64N(4) + 1

	data := fmt.Sprintf("Reading: RF=%.1fmm NDVI=%.1f%% River=%.2fm", r.Rainfall, r.NDVI, r.River)
	if v.AllExceeded {
		data = fmt.Sprintf("FLOOD: RF=%.1fmm NDVI=%.1f%% River=%.2fm – All thresholds exceeded",
			r.Rainfall, r.NDVI, r.River)
	}

	entry := types.LedgerEntry{
		Block:     next.BlockNumber,
		Timestamp: time.Now().UTC(),
		Type:      types.EntryOracle,
		Actor:     "Oracle Engine",
		Data:      data,
		TxHash:    types.NewTxHash(),
	}
	next.Ledger = append([]types.LedgerEntry{entry}, next.Ledger...)

	return types.Event{
		Type:    types.EventOracle,
		Payload: types.OraclePayload{Rainfall: r.Rainfall, NDVI: r.NDVI, River: r.River},
		State:   &next,
	}
}
