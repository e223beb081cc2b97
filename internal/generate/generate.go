// Package generate turns volume descriptions into files.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"volnoise/internal/channel"
	"volnoise/internal/config"
	"volnoise/internal/core"
	"volnoise/internal/export"
	"volnoise/internal/tiled"
	pcore "volnoise/pkg/core"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// Options control where descriptions are read from and how output is written.
type Options struct {
	InputDir     string
	OutputDir    string
	BlueNoiseDir string
	// Seed is the initial seed state; 0 draws a random one per run.
	Seed      uint32
	Workers   int
	Format    export.Format
	AllSlices bool
	// Overrides are applied to every description; see config.Parse.
	Overrides map[string]string
	// Tiled overrides the blue noise directory when set.
	Tiled channel.TiledSource
}

// DefaultOptions mirrors the command line defaults.
func DefaultOptions() Options {
	return Options{
		InputDir:     "configs",
		OutputDir:    "output",
		BlueNoiseDir: "blueNoise",
		Workers:      runtime.NumCPU(),
		Format:       export.PNG,
	}
}

func (o Options) tiledSource() channel.TiledSource {
	if o.Tiled != nil {
		return o.Tiled
	}
	return tiled.NewDirCache(o.BlueNoiseDir)
}

func (o Options) seeds() *pcore.SeedSource {
	if o.Seed == 0 {
		return pcore.RandomSeedSource()
	}
	return pcore.NewSeedSource(o.Seed)
}

// Volume evaluates every channel of cfg over its grid.
func Volume(cfg *config.Config, src channel.TiledSource) (*core.Volume, error) {
	evals, err := channel.Compile(cfg.Channels, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	log := Logger().With("volume", cfg.Name)
	for i, e := range evals {
		log.Debug("channel ready", "index", i, "mode", e.Channel().Noise.Kind(), "seed", e.Channel().Seed)
	}

	start := time.Now()
	vol := core.NewVolume(cfg.Size, len(evals))
	vol.Process(func(pos mgl32.Vec3, c int) float32 {
		return evals[c].Eval(pos)
	})
	log.Debug("volume generated", "size", cfg.Size.String(), "channels", len(evals), "elapsed", time.Since(start))
	return vol, nil
}

// Result lists the files written for one description.
type Result struct {
	Name   string
	Config *config.Config
	Volume *core.Volume
	Files  []string
}

// Run generates <InputDir>/<name>.txt into <OutputDir>/<name>.dat and a
// preview image of slice 0, plus every slice when AllSlices is set.
func Run(opts Options, name string) (*Result, error) {
	return run(opts, opts.tiledSource(), name)
}

func run(opts Options, src channel.TiledSource, name string) (*Result, error) {
	cfg, err := config.LoadFile(opts.InputDir, name, opts.seeds(), opts.Overrides)
	if err != nil {
		return nil, err
	}
	vol, err := Volume(cfg, src)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = export.PNG
	}
	res := &Result{Name: name, Config: cfg, Volume: vol}

	raw := filepath.Join(opts.OutputDir, name+".dat")
	if err := export.WriteRaw(raw, vol); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	res.Files = append(res.Files, raw)

	preview := filepath.Join(opts.OutputDir, name+"Slice"+format.Ext())
	if err := export.WriteSlice(preview, vol, 0, format); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	res.Files = append(res.Files, preview)

	if opts.AllSlices {
		paths, err := export.WriteSlices(opts.OutputDir, name, vol, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res.Files = append(res.Files, paths...)
	}

	for _, f := range res.Files {
		Logger().Info("wrote", "volume", name, "path", f)
	}
	return res, nil
}

// Batch runs every name with at most Workers descriptions in flight. A failed
// name does not stop the others; all failures are joined in the returned
// error. Blue noise volumes are loaded once and shared across names.
func Batch(ctx context.Context, opts Options, names []string) ([]*Result, error) {
	src := opts.tiledSource()
	results := make([]*Result, len(names))
	errs := make([]error, len(names))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("%s: %w", name, err)
				return nil
			}
			res, err := run(opts, src, name)
			if err != nil {
				Logger().Warn("generation failed", "volume", name, "err", err)
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}
