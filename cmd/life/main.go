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
	rows := flag.Int("rows", getenvInt("GOL_ROWS", 16), "grid rows")
	cols := flag.Int("cols", getenvInt("GOL_COLS", 16), "grid columns")
	workers := flag.Int("workers", getenvInt("GOL_WORKERS", 4), "number of workers")
	gens := flag.Int("gens", 0, "generations to simulate; prompts when 0")
	printEvery := flag.Int("print-every", 2, "render period in generations, 0 to disable")
	protocol := flag.String("protocol", "halo", "boundary protocol: halo or collective")
	seeds := flag.String("seeds", "", "comma separated seed per worker")
	ruleMin := flag.Int("min", gol.DefaultRule.Min, "fewest live neighbours giving life")
	ruleMax := flag.Int("max", gol.DefaultRule.Max, "most live neighbours giving life")
	verbose := flag.Bool("v", false, "log every generation")
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

	p := gol.Params{
		Rows:        *rows,
		Cols:        *cols,
		Workers:     *workers,
		Generations: *gens,
		PrintEvery:  *printEvery,
		Rule:        gol.Rule{Min: *ruleMin, Max: *ruleMax},
		Seeds:       seedList,
	}
	o := gol.Options{
		Protocol: proto,
		Out:      os.Stdout,
		Prompt:   gol.PromptGenerations(os.Stdin, os.Stdout),
	}
	if *verbose {
		o.Logger = log.Default()
	}

	res, err := gol.RunLocal(ctx, p, o)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d live cells after %d generations", res.Final.LiveCount(), res.Generations)
	log.Printf("rank 0: %v", res.Stats.Summary())
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

func getenvInt(k string, d int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return d
}
