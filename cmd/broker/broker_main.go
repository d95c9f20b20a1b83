package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"uk.ac.bris.cs/torusgol/gol"
)

func main() {
	port := flag.String("port", getenvDefault("PORT", "8040"), "port to listen on")
	workers := flag.Int("workers", getenvInt("GOL_WORKERS", 4), "number of workers in the group")
	flag.Parse()

	if *workers < 1 {
		log.Fatalf("[Broker] Worker count %d must be positive", *workers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", ":"+*port)
	if err != nil {
		log.Fatalf("Failed to listen on port %v: %v", *port, err)
	}

	log.Printf("[Broker] Listening on :%v for %d workers ...", *port, *workers)

	broker := gol.NewBroker(gol.NewHub(*workers))
	if err := broker.Serve(ctx, listener, log.Default()); err != nil {
		log.Fatalf("[Broker] %v", err)
	}
	log.Printf("[Broker] Shut down")
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return d
}
