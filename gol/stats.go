package gol

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats records per-generation timings and owned live counts for one
// worker.
type Stats struct {
	Durations []time.Duration
	Live      []int
}

func (s *Stats) record(d time.Duration, live int) {
	s.Durations = append(s.Durations, d)
	s.Live = append(s.Live, live)
}

// Summary condenses Stats.
type Summary struct {
	Generations int
	Total       time.Duration
	Mean        time.Duration
	StdDev      time.Duration
	Min         time.Duration
	Max         time.Duration
	MeanLive    float64
}

// Summary returns the aggregate figures. It is zero for an empty run.
func (s Stats) Summary() Summary {
	if len(s.Durations) == 0 {
		return Summary{}
	}
	secs := make([]float64, len(s.Durations))
	for i, d := range s.Durations {
		secs[i] = d.Seconds()
	}
	live := make([]float64, len(s.Live))
	for i, n := range s.Live {
		live[i] = float64(n)
	}
	mean, std := stat.MeanStdDev(secs, nil)
	if len(secs) < 2 {
		std = 0
	}
	return Summary{
		Generations: len(secs),
		Total:       seconds(floats.Sum(secs)),
		Mean:        seconds(mean),
		StdDev:      seconds(std),
		Min:         seconds(floats.Min(secs)),
		Max:         seconds(floats.Max(secs)),
		MeanLive:    stat.Mean(live, nil),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d generations in %v (mean %v, stddev %v, min %v, max %v, mean live %.1f)",
		s.Generations, s.Total, s.Mean, s.StdDev, s.Min, s.Max, s.MeanLive)
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
