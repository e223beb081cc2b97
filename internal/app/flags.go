package app

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"volnoise/internal/export"
	"volnoise/internal/generate"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

func (l *KVList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("override %q is not in key=value form", value)
	}
	*l = append(*l, value)
	return nil
}

// Map returns the overrides keyed by name; later entries win.
func (l KVList) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, kv := range l {
		k, v, _ := strings.Cut(kv, "=")
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m
}

// Config represents the command-line parameters shared by the tools.
type Config struct {
	In        string
	Out       string
	BlueNoise string
	Seed      uint
	Workers   int
	Format    string
	AllSlices bool
	Describe  bool
	Verbose   bool
	Overrides KVList

	// Preview only.
	Scale int
	Rate  int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		In:        "configs",
		Out:       "output",
		BlueNoise: "blueNoise",
		Workers:   runtime.NumCPU(),
		Format:    string(export.PNG),
		Scale:     4,
		Rate:      8,
	}
}

// Bind attaches the generation flags to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.In, "in", c.In, "directory holding <name>.txt descriptions")
	fs.StringVar(&c.Out, "out", c.Out, "output directory")
	fs.StringVar(&c.BlueNoise, "blue-noise", c.BlueNoise, "directory holding blue noise slices")
	fs.UintVar(&c.Seed, "seed", c.Seed, "initial seed state (0 draws a random one)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "descriptions generated in parallel")
	fs.StringVar(&c.Format, "format", c.Format, "slice image format (png, bmp, tiff)")
	fs.BoolVar(&c.AllSlices, "all-slices", c.AllSlices, "write every z-slice as an image")
	fs.BoolVar(&c.Describe, "describe", c.Describe, "print parsed parameters instead of generating")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "enable debug logging")
	fs.Var(&c.Overrides, "set", "description override in key=value form, e.g. size=32x32x32 or 0.frequency=4 (repeatable)")
}

// BindPreview adds the preview window flags.
func (c *Config) BindPreview(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.Rate, "rate", c.Rate, "slices per second while auto-advancing")
}

// Options converts the flags into generation options.
func (c *Config) Options() (generate.Options, error) {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return generate.Options{}, err
	}
	if c.Seed > 0xffffffff {
		return generate.Options{}, fmt.Errorf("seed %d does not fit in 32 bits", c.Seed)
	}
	opts := generate.DefaultOptions()
	opts.InputDir = c.In
	opts.OutputDir = c.Out
	opts.BlueNoiseDir = c.BlueNoise
	opts.Seed = uint32(c.Seed)
	opts.Workers = c.Workers
	opts.Format = format
	opts.AllSlices = c.AllSlices
	opts.Overrides = c.Overrides.Map()
	return opts, nil
}

// SetupLogging routes generation logs to stderr.
func (c *Config) SetupLogging() {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	generate.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// SeedString formats the seed flag for window titles and logs.
func (c *Config) SeedString() string {
	if c.Seed == 0 {
		return "random"
	}
	return strconv.FormatUint(uint64(c.Seed), 10)
}
