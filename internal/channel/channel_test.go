package channel

import (
	"errors"
	"math"
	"testing"

	"volnoise/internal/core"
	"volnoise/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeTiled struct {
	vols  map[int]*core.Volume
	loads int
}

func (f *fakeTiled) Load(res int) (*core.Volume, error) {
	f.loads++
	v, ok := f.vols[res]
	if !ok {
		return nil, errors.Join(ErrResource, errors.New("missing"))
	}
	return v, nil
}

func octaves(count int, freq float32) noise.Octaves {
	return noise.Octaves{Count: count, Frequency: freq, Lacunarity: 2, Persistence: 0.5}
}

var samplePos = []mgl32.Vec3{{0, 0, 0}, {0.25, 0.5, 0.75}, {0.9, 0.1, 0.4}}

func mustEval(t *testing.T, ch Channel, index int, src TiledSource) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(ch, index, src)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return e
}

func TestGradientChannelMatchesFBM(t *testing.T) {
	o := octaves(3, 4)
	e := mustEval(t, Channel{Seed: 42, Noise: Gradient{Octaves: o}, PowerCurve: 1}, 0, nil)
	for _, p := range samplePos {
		want := noise.FBM(noise.Gradient{}, 42, p, mgl32.Vec3{1, 1, 1}, o)
		if got := e.Eval(p); got != want {
			t.Fatalf("pos %v: channel %f, fbm %f", p, got, want)
		}
	}
}

func TestCellularChannelMatchesFBM(t *testing.T) {
	o := octaves(2, 3)
	e := mustEval(t, Channel{Seed: 9, Noise: Cellular{Octaves: o}, PowerCurve: 1}, 1, nil)
	for _, p := range samplePos {
		want := noise.FBM(noise.Cellular{}, 9, p, mgl32.Vec3{1, 1, 1}, o)
		if got := e.Eval(p); got != want {
			t.Fatalf("pos %v: channel %f, fbm %f", p, got, want)
		}
	}
}

func TestBlendZeroWeightIsPureGradient(t *testing.T) {
	g := octaves(2, 5)
	blend := mustEval(t, Channel{Seed: 3, Noise: Blend{Gradient: g, Cellular: octaves(1, 4), CellularWeight: 0}, PowerCurve: 1}, 0, nil)
	grad := mustEval(t, Channel{Seed: 3, Noise: Gradient{Octaves: g}, PowerCurve: 1}, 0, nil)
	for _, p := range samplePos {
		if a, b := blend.Eval(p), grad.Eval(p); a != b {
			t.Fatalf("pos %v: blend %f, gradient %f", p, a, b)
		}
	}
}

func TestBlendThresholdsGradient(t *testing.T) {
	g, c := octaves(1, 5), octaves(1, 4)
	e := mustEval(t, Channel{Seed: 3, Noise: Blend{Gradient: g, Cellular: c, CellularWeight: 0.5}, PowerCurve: 1}, 0, nil)
	for _, p := range samplePos {
		perlin := noise.FBM(noise.Gradient{}, 3, p, mgl32.Vec3{1, 1, 1}, g)
		worley := noise.FBM(noise.Cellular{}, 3, p, mgl32.Vec3{1, 1, 1}, c)
		want := noise.LinearStep(worley*0.5, 1, perlin)
		if got := e.Eval(p); got != want {
			t.Fatalf("pos %v: blend %f, expected %f", p, got, want)
		}
	}
}

func TestPostProcessing(t *testing.T) {
	base := Channel{Seed: 5, Noise: Gradient{Octaves: octaves(1, 2)}, PowerCurve: 1}
	plain := mustEval(t, base, 0, nil)

	inv := base
	inv.Inverted = true
	inverted := mustEval(t, inv, 0, nil)

	sq := base
	sq.PowerCurve = 2
	squared := mustEval(t, sq, 0, nil)

	unset := base
	unset.PowerCurve = 0
	identity := mustEval(t, unset, 0, nil)

	tiny := base
	tiny.PowerCurve = 1e-9
	clamped := mustEval(t, tiny, 0, nil)

	for _, p := range samplePos {
		v := plain.Eval(p)
		if got := inverted.Eval(p); math.Abs(float64(got-(1-v))) > 1e-6 {
			t.Fatalf("inverted %f, expected %f", got, 1-v)
		}
		if got := squared.Eval(p); math.Abs(float64(got-v*v)) > 1e-6 {
			t.Fatalf("squared %f, expected %f", got, v*v)
		}
		if got := identity.Eval(p); got != v {
			t.Fatalf("zero power curve should leave %f unchanged, got %f", v, got)
		}
		want := float32(math.Pow(float64(v), MinPowerCurve))
		if got := clamped.Eval(p); math.Abs(float64(got-want)) > 1e-5 {
			t.Fatalf("tiny power curve should clamp to %g: got %f, expected %f", MinPowerCurve, got, want)
		}
	}
}

func TestCurlSelectsComponent(t *testing.T) {
	for idx := 0; idx < 3; idx++ {
		e := mustEval(t, Channel{Seed: 77, Noise: Curl{Frequency: 4}, PowerCurve: 1}, idx, nil)
		for _, p := range samplePos {
			want := noise.Clamp01(noise.Curl(77, p.Mul(4), mgl32.Vec3{4, 4, 4})[idx])
			if got := e.Eval(p); got != want {
				t.Fatalf("channel %d pos %v: %f, expected %f", idx, p, got, want)
			}
		}
	}
	if _, err := NewEvaluator(Channel{Noise: Curl{Frequency: 4}, PowerCurve: 1}, 3, nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("curl on a fourth channel should be a config error, got %v", err)
	}
}

func TestTiledChannel(t *testing.T) {
	vol := core.NewVolume(core.Size{W: 4, H: 4, D: 4}, 4)
	vol.Set(1, 2, 3, 2, 128)
	vol.Set(0, 1, 1, 2, 64)
	src := &fakeTiled{vols: map[int]*core.Volume{4: vol}}

	e := mustEval(t, Channel{Noise: Tiled{Resolution: 4, Zoom: 1}, PowerCurve: 1}, 2, src)
	if got := e.Eval(mgl32.Vec3{0.25, 0.5, 0.75}); got != 0.5 {
		t.Fatalf("expected 128/256, got %f", got)
	}

	zoomed := mustEval(t, Channel{Noise: Tiled{Resolution: 4, Zoom: 2}, PowerCurve: 1}, 2, src)
	if got := zoomed.Eval(mgl32.Vec3{0.25, 0.5, 0.5}); got != 0.25 {
		t.Fatalf("zoom should halve the position, got %f", got)
	}
	if src.loads != 2 {
		t.Fatalf("expected one load per evaluator, got %d", src.loads)
	}
}

func TestTiledChannelErrors(t *testing.T) {
	ch := Channel{Noise: Tiled{Resolution: 8, Zoom: 1}, PowerCurve: 1}
	if _, err := NewEvaluator(ch, 0, nil); !errors.Is(err, ErrResource) {
		t.Fatalf("nil source should be a resource error, got %v", err)
	}
	src := &fakeTiled{vols: map[int]*core.Volume{
		8: core.NewVolume(core.Size{W: 8, H: 8, D: 4}, 4),
	}}
	if _, err := NewEvaluator(ch, 0, src); !errors.Is(err, ErrResource) {
		t.Fatalf("mismatched volume should be a resource error, got %v", err)
	}
	ch.Noise = Tiled{Resolution: 16, Zoom: 1}
	if _, err := NewEvaluator(ch, 0, src); !errors.Is(err, ErrResource) {
		t.Fatalf("missing volume should be a resource error, got %v", err)
	}
}

func TestPostClampsEveryCurve(t *testing.T) {
	for _, c := range []struct {
		curve    float32
		inverted bool
		in, want float32
	}{
		{1, false, 1.5, 1},
		{1, false, -0.25, 0},
		{0, false, 1.2, 1},
		{0, true, 1.3, 0},
		{2, false, 1.5, 1},
		{2, true, -0.5, 1},
	} {
		e := &Evaluator{ch: Channel{PowerCurve: c.curve, Inverted: c.inverted}}
		if got := e.post(c.in); got != c.want {
			t.Fatalf("curve %g inverted %v: post(%g) = %g, expected %g", c.curve, c.inverted, c.in, got, c.want)
		}
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		ch   Channel
	}{
		{"no mode", Channel{PowerCurve: 1}},
		{"negative power", Channel{Noise: Gradient{Octaves: octaves(1, 1)}, PowerCurve: -1}},
		{"negative octaves", Channel{Noise: Gradient{Octaves: octaves(-1, 1)}, PowerCurve: 1}},
		{"zero frequency", Channel{Noise: Gradient{Octaves: octaves(1, 0)}, PowerCurve: 1}},
		{"cellular sub-unit frequency", Channel{Noise: Cellular{Octaves: octaves(1, 0.5)}, PowerCurve: 1}},
		{"cellular shrinking lacunarity", Channel{Noise: Cellular{Octaves: noise.Octaves{Count: 2, Frequency: 2, Lacunarity: 0.5, Persistence: 0.5}}, PowerCurve: 1}},
		{"blend cellular", Channel{Noise: Blend{Gradient: octaves(1, 1), Cellular: octaves(1, 0.25)}, PowerCurve: 1}},
		{"tiled zoom", Channel{Noise: Tiled{Resolution: 4, Zoom: 0}, PowerCurve: 1}},
		{"tiled resolution", Channel{Noise: Tiled{Resolution: 0, Zoom: 1}, PowerCurve: 1}},
		{"curl frequency", Channel{Noise: Curl{Frequency: 0}, PowerCurve: 1}},
		{"cellular period too large", Channel{Noise: Cellular{Octaves: octaves(18, 10)}, PowerCurve: 1}},
		{"blend cellular period too large", Channel{Noise: Blend{Gradient: octaves(1, 1), Cellular: octaves(18, 10)}, PowerCurve: 1}},
	}
	for _, c := range cases {
		if err := c.ch.Validate(0); !errors.Is(err, ErrConfig) {
			t.Fatalf("%s: expected config error, got %v", c.name, err)
		}
	}
	ok := Channel{Noise: Cellular{Octaves: octaves(0, 0)}, PowerCurve: 1}
	if err := ok.Validate(0); err != nil {
		t.Fatalf("zero octaves should be accepted, got %v", err)
	}
	deep := Channel{Noise: Cellular{Octaves: octaves(9, 10)}, PowerCurve: 1}
	if err := deep.Validate(0); err != nil {
		t.Fatalf("nine octaves from frequency 10 should be accepted, got %v", err)
	}
}

func TestCompileChannelCount(t *testing.T) {
	ch := Channel{Noise: Gradient{Octaves: octaves(1, 1)}, PowerCurve: 1}
	if _, err := Compile(nil, nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("empty channel list should be a config error, got %v", err)
	}
	if _, err := Compile([]Channel{ch, ch, ch, ch, ch}, nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("five channels should be a config error, got %v", err)
	}
	evals, err := Compile([]Channel{ch, ch}, nil)
	if err != nil || len(evals) != 2 {
		t.Fatalf("Compile: %v (%d evaluators)", err, len(evals))
	}
}

func TestSimplexChannel(t *testing.T) {
	e := mustEval(t, Channel{Seed: 4, Noise: Simplex{Octaves: octaves(3, 4)}, PowerCurve: 1}, 0, nil)
	for _, p := range samplePos {
		a, b := e.Eval(p), e.Eval(p)
		if a != b || a < 0 || a > 1 {
			t.Fatalf("pos %v: simplex %f / %f", p, a, b)
		}
	}
}

func TestParameters(t *testing.T) {
	ch := Channel{Seed: 1, Noise: Blend{Gradient: octaves(2, 3), Cellular: octaves(1, 4), CellularWeight: 0.3}, PowerCurve: 1}
	g := ch.Parameters(1)
	if g.Name != "Channel 1" || g.Summary != string(KindBlend) {
		t.Fatalf("unexpected group header %q / %q", g.Name, g.Summary)
	}
	keys := map[string]string{}
	for _, p := range g.Params {
		keys[p.Key] = p.Value
	}
	for _, k := range []string{"mode", "seed", "worleyWeight", "perlinOctaveCount", "worleyFrequency", "powerCurve", "inverted"} {
		if _, ok := keys[k]; !ok {
			t.Fatalf("missing parameter %q in %v", k, keys)
		}
	}
	if keys["perlinOctaveCount"] != "2" || keys["mode"] != "perlinWorley" {
		t.Fatalf("unexpected values %v", keys)
	}
}
