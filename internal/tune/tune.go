package tune

import (
	"bytes"
	"fmt"
	"maps"
	"math"

	"volnoise/internal/channel"
	"volnoise/internal/config"
	"volnoise/internal/generate"
	pcore "volnoise/pkg/core"

	"golang.org/x/sync/errgroup"
)

// Target is the statistics a sweep steers one channel towards. A negative
// field is ignored.
type Target struct {
	Channel  int
	Mean     float64
	StdDev   float64
	Coverage float64
}

// Score is the distance of s from the target; lower is better.
func (t Target) Score(s ChannelStats) float64 {
	var d float64
	if t.Mean >= 0 {
		d += math.Abs(s.Mean - t.Mean)
	}
	if t.StdDev >= 0 {
		d += math.Abs(s.StdDev - t.StdDev)
	}
	if t.Coverage >= 0 {
		d += math.Abs(s.Coverage - t.Coverage)
	}
	return d
}

// Spec lists candidate values for one override key, e.g. "0.frequency".
type Spec struct {
	Key    string
	Values []string
}

// Result captures one evaluated description.
type Result struct {
	Overrides map[string]string
	Stats     []ChannelStats
	Score     float64
}

// Record documents an improvement found during a sweep.
type Record struct {
	Pass   int
	Key    string
	Value  string
	Result Result
}

// Sweeper evaluates override sets against a fixed description. Every
// evaluation uses the same seed state, so differences come from the
// overrides alone.
type Sweeper struct {
	Text      []byte
	Name      string
	Seed      uint32
	Tiled     channel.TiledSource
	Target    Target
	Threshold float64
	Workers   int
}

// Evaluate generates the description with overrides applied and scores it.
func (s *Sweeper) Evaluate(overrides map[string]string) (Result, error) {
	seed := s.Seed
	if seed == 0 {
		seed = 1
	}
	cfg, err := config.Parse(bytes.NewReader(s.Text), s.Name, pcore.NewSeedSource(seed), overrides)
	if err != nil {
		return Result{}, err
	}
	if s.Target.Channel < 0 || s.Target.Channel >= cfg.ChannelCount() {
		return Result{}, fmt.Errorf("%w: target channel %d outside %d channels", channel.ErrConfig, s.Target.Channel, cfg.ChannelCount())
	}
	vol, err := generate.Volume(cfg, s.Tiled)
	if err != nil {
		return Result{}, err
	}
	stats := Measure(vol, s.Threshold)
	return Result{Overrides: overrides, Stats: stats, Score: s.Target.Score(stats[s.Target.Channel])}, nil
}

// Sweep runs coordinate descent over specs starting from base: each pass
// tries every value of every spec and keeps the best improvement per key.
// It stops after passes or when a pass improves nothing. Candidates that
// fail to generate are skipped.
func (s *Sweeper) Sweep(base map[string]string, specs []Spec, passes int) (Result, []Record, error) {
	if passes <= 0 {
		passes = 1
	}
	current, err := s.Evaluate(maps.Clone(base))
	if err != nil {
		return Result{}, nil, err
	}
	records := []Record{{Key: "baseline", Result: current}}

	for pass := 1; pass <= passes; pass++ {
		improved := false
		for _, spec := range specs {
			best, rec, changed := s.evaluateSpec(current, spec, pass)
			if changed {
				current = best
				records = append(records, rec...)
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return current, records, nil
}

func (s *Sweeper) evaluateSpec(current Result, spec Spec, pass int) (Result, []Record, bool) {
	type candidate struct {
		result Result
		valid  bool
	}

	candidates := make([]candidate, len(spec.Values))
	var g errgroup.Group
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}
	for i, value := range spec.Values {
		if current.Overrides[spec.Key] == value {
			continue
		}
		g.Go(func() error {
			overrides := maps.Clone(current.Overrides)
			if overrides == nil {
				overrides = map[string]string{}
			}
			overrides[spec.Key] = value
			res, err := s.Evaluate(overrides)
			if err != nil {
				generate.Logger().Debug("candidate skipped", "key", spec.Key, "value", value, "err", err)
				return nil
			}
			candidates[i] = candidate{result: res, valid: true}
			return nil
		})
	}
	_ = g.Wait()

	best := current
	changed := false
	var records []Record
	for i, c := range candidates {
		if !c.valid || c.result.Score >= best.Score {
			continue
		}
		best = c.result
		changed = true
		records = append(records, Record{Pass: pass, Key: spec.Key, Value: spec.Values[i], Result: c.result})
	}
	return best, records, changed
}
