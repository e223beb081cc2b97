//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"volnoise/internal/app"
	"volnoise/internal/generate"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	cfg.BindPreview(flag.CommandLine)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: preview [flags] name")
		os.Exit(2)
	}
	opts, err := cfg.Options()
	if err != nil {
		log.Fatalf("preview: %v", err)
	}
	cfg.SetupLogging()

	res, err := generate.Run(opts, flag.Arg(0))
	if err != nil {
		log.Fatalf("preview: %v", err)
	}

	game := app.New(res.Config, res.Volume, cfg.Scale, cfg.Rate)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("volnoise - " + res.Name + " (seed " + cfg.SeedString() + ")")
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
