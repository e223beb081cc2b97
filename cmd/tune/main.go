package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"volnoise/internal/app"
	"volnoise/internal/tiled"
	"volnoise/internal/tune"
)

func main() {
	in := flag.String("in", "configs", "directory holding <name>.txt descriptions")
	blueNoise := flag.String("blue-noise", "blueNoise", "directory holding blue noise slices")
	seed := flag.Uint("seed", 1337, "seed state used for every evaluation")
	passes := flag.Int("passes", 3, "coordinate-descent passes to execute")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel candidate evaluations")
	target := flag.Int("channel", 0, "channel whose statistics are tuned")
	mean := flag.Float64("mean", 0.5, "target mean in [0,1] (negative ignores it)")
	stddev := flag.Float64("stddev", -1, "target standard deviation (negative ignores it)")
	coverage := flag.Float64("coverage", -1, "target fraction at or above -threshold (negative ignores it)")
	threshold := flag.Float64("threshold", 0.5, "coverage threshold in [0,1]")
	manualOnly := flag.Bool("manual", false, "skip sweeping and only evaluate provided overrides")
	var overrides, sweeps app.KVList
	flag.Var(&overrides, "set", "description override in key=value form (repeatable)")
	flag.Var(&sweeps, "sweep", "candidate values in key=v1,v2,... form, e.g. 0.frequency=2,4,8 (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tune [flags] name")
		os.Exit(2)
	}
	name := flag.Arg(0)
	text, err := os.ReadFile(filepath.Join(*in, name+".txt"))
	if err != nil {
		log.Fatalf("tune: %v", err)
	}
	if *seed > 0xffffffff {
		log.Fatalf("tune: seed %d does not fit in 32 bits", *seed)
	}

	s := &tune.Sweeper{
		Text:      text,
		Name:      name,
		Seed:      uint32(*seed),
		Tiled:     tiled.NewDirCache(*blueNoise),
		Target:    tune.Target{Channel: *target, Mean: *mean, StdDev: *stddev, Coverage: *coverage},
		Threshold: *threshold,
		Workers:   *workers,
	}

	baseline, err := s.Evaluate(overrides.Map())
	if err != nil {
		log.Fatalf("tune: %v", err)
	}
	fmt.Printf("Baseline: score %.4f\n", baseline.Score)
	printStats(baseline)

	if *manualOnly || len(sweeps) == 0 {
		fmt.Println("Manual evaluation requested; skipping sweep.")
		return
	}

	var specs []tune.Spec
	for key, values := range sweeps.Map() {
		specs = append(specs, tune.Spec{Key: key, Values: strings.Split(values, ",")})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Key < specs[j].Key })

	best, trace, err := s.Sweep(overrides.Map(), specs, *passes)
	if err != nil {
		log.Fatalf("tune: %v", err)
	}

	fmt.Printf("\nBest found: score %.4f\n", best.Score)
	printStats(best)
	printOverrides(best.Overrides)

	if len(trace) > 1 {
		fmt.Println("\nImprovements:")
		for _, rec := range trace[1:] {
			fmt.Printf("  pass %d: %s=%s -> score %.4f\n", rec.Pass, rec.Key, rec.Value, rec.Result.Score)
		}
	}
}

func printStats(r tune.Result) {
	for i, s := range r.Stats {
		fmt.Printf("  channel %d: mean=%.3f stddev=%.3f min=%.3f max=%.3f coverage=%.3f\n",
			i, s.Mean, s.StdDev, s.Min, s.Max, s.Coverage)
	}
}

func printOverrides(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("Overrides:")
	for _, k := range keys {
		fmt.Printf("  -set %s=%s\n", k, m[k])
	}
}
