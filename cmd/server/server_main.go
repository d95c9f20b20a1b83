package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"uk.ac.bris.cs/torusgol/gol"
)

func main() {
	brokerAddr := flag.String("broker", getenvDefault("GOL_BROKER", "localhost:8040"), "broker address")
	rank := flag.Int("rank", getenvInt("GOL_RANK", 0), "rank of this worker")
	rows := flag.Int("rows", getenvInt("GOL_ROWS", 16), "grid rows")
	cols := flag.Int("cols", getenvInt("GOL_COLS", 16), "grid columns")
	gens := flag.Int("gens", 0, "generations to simulate; rank 0 prompts when 0")
	printEvery := flag.Int("print-every", 2, "render period in generations, 0 to disable")
	protocol := flag.String("protocol", "halo", "boundary protocol: halo or collective")
	seeds := flag.String("seeds", "", "comma separated seed per worker, read by rank 0")
	ruleMin := flag.Int("min", gol.DefaultRule.Min, "fewest live neighbours giving life")
	ruleMax := flag.Int("max", gol.DefaultRule.Max, "most live neighbours giving life")
	flag.Parse()

	proto, err := gol.ParseProtocol(*protocol)
	if err != nil {
		log.Fatal(err)
	}
	seedList, err := parseSeeds(*seeds)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comm, err := gol.DialBroker(*brokerAddr, *rank)
	if err != nil {
		log.Fatalf("Failed to connect to Broker at %v: %v", *brokerAddr, err)
	}
	defer comm.Close()

	p := gol.Params{
		Rows:        *rows,
		Cols:        *cols,
		Workers:     comm.Size(),
		Generations: *gens,
		PrintEvery:  *printEvery,
		Rule:        gol.Rule{Min: *ruleMin, Max: *ruleMax},
		Seeds:       seedList,
	}
	o := gol.Options{
		Protocol: proto,
		Out:      os.Stdout,
		Logger:   log.Default(),
		Prompt:   gol.PromptGenerations(os.Stdin, os.Stdout),
	}

	w, err := gol.NewWorker(comm, p, o)
	if err != nil {
		log.Fatal(err)
	}
	res, err := w.Run(ctx)
	if err != nil {
		log.Fatalf("[Worker %d] %v", *rank, err)
	}
	if res.Final != nil {
		log.Printf("[Worker %d] %d live cells after %d generations", *rank, res.Final.LiveCount(), res.Generations)
	}
}

func parseSeeds(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	seeds := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, err
		}
		seeds[i] = v
	}
	return seeds, nil
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
