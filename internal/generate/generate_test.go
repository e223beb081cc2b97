package generate

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"volnoise/internal/channel"
	"volnoise/internal/config"
	"volnoise/internal/core"
	"volnoise/internal/export"
	"volnoise/internal/noise"
	pcore "volnoise/pkg/core"
)

var update = flag.Bool("update", false, "rewrite golden files")

func gradientConfig() *config.Config {
	return &config.Config{
		Name: "golden",
		Size: core.Size{W: 4, H: 4, D: 4},
		Channels: []channel.Channel{{
			Seed:       42,
			Noise:      channel.Gradient{Octaves: noise.Octaves{Count: 1, Frequency: 1, Lacunarity: 2, Persistence: 0.5}},
			PowerCurve: 1,
		}},
	}
}

func TestGradientVolumeGolden(t *testing.T) {
	vol, err := Volume(gradientConfig(), nil)
	if err != nil {
		t.Fatalf("Volume: %v", err)
	}
	again, err := Volume(gradientConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(vol.Bytes(), again.Bytes()) {
		t.Fatal("generation is not deterministic")
	}

	path := filepath.Join("testdata", "gradient_4x4x4_seed42.dat")
	if *update {
		if err := os.MkdirAll("testdata", 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, vol.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading golden snapshot (regenerate with -update): %v", err)
	}
	if !bytes.Equal(vol.Bytes(), want) {
		t.Fatal("volume differs from golden snapshot")
	}
}

func TestDuplicatedChannelsDiffer(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader("8x8x2\n~2\nmode:worley\nfrequency:3\n"), "dup", pcore.NewSeedSource(5), nil)
	if err != nil {
		t.Fatal(err)
	}
	vol, err := Volume(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	same := true
	b := vol.Bytes()
	for i := 0; i < len(b); i += 2 {
		if b[i] != b[i+1] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("duplicated channels produced identical data")
	}
}

func TestVolumeReportsChannelErrors(t *testing.T) {
	cfg := gradientConfig()
	cfg.Channels = append(cfg.Channels, channel.Channel{Noise: channel.Tiled{Resolution: 4, Zoom: 1}, PowerCurve: 1})
	_, err := Volume(cfg, nil)
	if !errors.Is(err, channel.ErrResource) || !strings.Contains(err.Error(), "channel 1") {
		t.Fatalf("expected a resource error naming channel 1, got %v", err)
	}
}

func writeConfig(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".txt"), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testOptions(t *testing.T) Options {
	opts := DefaultOptions()
	opts.InputDir = t.TempDir()
	opts.OutputDir = filepath.Join(t.TempDir(), "out")
	opts.BlueNoiseDir = t.TempDir()
	opts.Seed = 9
	opts.Workers = 2
	return opts
}

func TestRunWritesFiles(t *testing.T) {
	opts := testOptions(t)
	opts.AllSlices = true
	writeConfig(t, opts.InputDir, "clouds", "4x3x2\n~\nmode:perlin\n~2\nmode:curl\nfrequency:2\n")

	res, err := Run(opts, "clouds")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		filepath.Join(opts.OutputDir, "clouds.dat"),
		filepath.Join(opts.OutputDir, "cloudsSlice.png"),
		filepath.Join(opts.OutputDir, "cloudsSlice0.png"),
		filepath.Join(opts.OutputDir, "cloudsSlice1.png"),
	}
	if !slices.Equal(res.Files, want) {
		t.Fatalf("files %v, expected %v", res.Files, want)
	}

	raw, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 4*3*2*3 || !bytes.Equal(raw, res.Volume.Bytes()) {
		t.Fatalf("raw output has %d bytes", len(raw))
	}

	f, err := os.Open(want[1])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("preview is not a png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("preview is %v", b)
	}
}

func TestRunSeedIsReproducible(t *testing.T) {
	opts := testOptions(t)
	writeConfig(t, opts.InputDir, "v", "4x4x4\n~2\nmode:perlinWorley\n")
	a, err := Run(opts, "v")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(opts, "v")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Volume.Bytes(), b.Volume.Bytes()) {
		t.Fatal("same seed produced different volumes")
	}
}

func TestRunFormat(t *testing.T) {
	opts := testOptions(t)
	opts.Format = export.TIFF
	writeConfig(t, opts.InputDir, "t", "2x2x1\n~\nmode:worley\n")
	res, err := Run(opts, "t")
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Files[1]; filepath.Ext(got) != ".tiff" {
		t.Fatalf("expected a tiff preview, got %s", got)
	}
}

func TestBatchContinuesPastFailures(t *testing.T) {
	opts := testOptions(t)
	writeConfig(t, opts.InputDir, "a", "2x2x2\n~\nmode:perlin\n")
	writeConfig(t, opts.InputDir, "bad", "2x2x2\n~\nmode:nope\n")
	writeConfig(t, opts.InputDir, "c", "2x2x2\n~\nmode:worley\n")

	results, err := Batch(context.Background(), opts, []string{"a", "bad", "c", "missing"})
	if !errors.Is(err, channel.ErrConfig) {
		t.Fatalf("expected joined config errors, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad") || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("error should name both failures: %v", err)
	}
	if results[0] == nil || results[2] == nil || results[1] != nil || results[3] != nil {
		t.Fatalf("unexpected results %v", results)
	}
	for _, name := range []string{"a.dat", "c.dat"} {
		if _, err := os.Stat(filepath.Join(opts.OutputDir, name)); err != nil {
			t.Fatalf("missing output: %v", err)
		}
	}
}

func TestBatchUsesConfiguredTiledSource(t *testing.T) {
	opts := testOptions(t)
	loads := 0
	vol := core.NewVolume(core.Size{W: 2, H: 2, D: 2}, 4)
	opts.Tiled = loaderFunc(func(res int) (*core.Volume, error) {
		loads++
		return vol, nil
	})
	opts.Workers = 1
	writeConfig(t, opts.InputDir, "a", "2x2x2\n~\nmode:blueNoise\nblueNoiseRes:2\n")
	writeConfig(t, opts.InputDir, "b", "2x2x2\n~\nmode:blueNoise\nblueNoiseRes:2\n")
	if _, err := Batch(context.Background(), opts, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if loads != 2 {
		t.Fatalf("expected one load per name from the configured source, got %d", loads)
	}
}

type loaderFunc func(int) (*core.Volume, error)

func (f loaderFunc) Load(res int) (*core.Volume, error) { return f(res) }

func TestBatchCancelled(t *testing.T) {
	opts := testOptions(t)
	writeConfig(t, opts.InputDir, "a", "2x2x2\n~\nmode:perlin\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Batch(ctx, opts, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
