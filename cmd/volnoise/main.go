package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"volnoise/internal/app"
	"volnoise/internal/config"
	"volnoise/internal/core"
	"volnoise/internal/generate"
	pcore "volnoise/pkg/core"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: volnoise [flags] name...\n\nGenerates <out>/<name>.dat from <in>/<name>.txt.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	names := flag.Args()
	if len(names) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts, err := cfg.Options()
	if err != nil {
		log.Fatalf("volnoise: %v", err)
	}
	cfg.SetupLogging()

	if cfg.Describe {
		for _, name := range names {
			seeds := pcore.RandomSeedSource()
			if opts.Seed != 0 {
				seeds = pcore.NewSeedSource(opts.Seed)
			}
			c, err := config.LoadFile(opts.InputDir, name, seeds, opts.Overrides)
			if err != nil {
				log.Fatalf("volnoise: %v", err)
			}
			describe(c.Parameters())
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := generate.Batch(ctx, opts, names); err != nil {
		log.Fatalf("volnoise: %v", err)
	}
}

func describe(snap core.ParameterSnapshot) {
	for _, g := range snap.Groups {
		if g.Summary != "" {
			fmt.Printf("%s (%s)\n", g.Name, g.Summary)
		} else {
			fmt.Println(g.Name)
		}
		for _, p := range g.Params {
			fmt.Printf("  %-22s %s\n", p.Label, p.Value)
		}
	}
}
