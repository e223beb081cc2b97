// Package config parses textual volume descriptions into typed channels.
//
// The format is line based:
//
//	64x64x32
//	~2
//	mode:perlinWorley
//	worleyWeight:0.4
//	# comment
//	~
//	mode:blueNoise
//
// The first line is the volume size. Each '~' line starts a channel section;
// an optional count after the tilde repeats the section, each copy with a
// fresh seed. Sections hold key:value pairs.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"volnoise/internal/channel"
	"volnoise/internal/core"
	"volnoise/internal/noise"
	pcore "volnoise/pkg/core"
)

// Config is a parsed volume description.
type Config struct {
	Name     string
	Size     core.Size
	Channels []channel.Channel
}

// ChannelCount returns the number of output channels.
func (c *Config) ChannelCount() int { return len(c.Channels) }

// Parameters describes the volume and all of its channels.
func (c *Config) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{{
		Name: "Volume",
		Params: []core.Parameter{
			core.StringParam("name", "Name", c.Name),
			core.IntParam("w", "Width", c.Size.W),
			core.IntParam("h", "Height", c.Size.H),
			core.IntParam("d", "Depth", c.Size.D),
			core.IntParam("channels", "Channels", len(c.Channels)),
		},
	}}
	for i, ch := range c.Channels {
		groups = append(groups, ch.Parameters(i))
	}
	return core.ParameterSnapshot{Groups: groups}
}

// section is one '~' block before decoding.
type section struct {
	count  int
	values map[string]string
}

// document is a config file split into its raw parts.
type document struct {
	size     string
	sections []section
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", channel.ErrConfig, fmt.Sprintf(format, args...))
}

// LoadFile reads <dir>/<name>.txt.
func LoadFile(dir, name string, seeds *pcore.SeedSource, overrides map[string]string) (*Config, error) {
	f, err := os.Open(filepath.Join(dir, name+".txt"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", channel.ErrConfig, err)
	}
	defer f.Close()
	return Parse(f, name, seeds, overrides)
}

// Parse reads a description from r. Overrides are applied to the raw values
// before decoding: "size" replaces the size line and "<section>.<key>" sets
// a key in the zero-based section.
func Parse(r io.Reader, name string, seeds *pcore.SeedSource, overrides map[string]string) (*Config, error) {
	doc, err := split(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := doc.apply(overrides); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	size, err := ParseSize(doc.size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	cfg := &Config{Name: name, Size: size}
	for i, sec := range doc.sections {
		ch, err := decodeChannel(sec.values)
		if err != nil {
			return nil, fmt.Errorf("%s: section %d: %w", name, i, err)
		}
		for j := 0; j < sec.count; j++ {
			ch.Seed = seeds.Next()
			cfg.Channels = append(cfg.Channels, ch)
		}
	}

	if n := len(cfg.Channels); n == 0 || n > core.MaxChannels {
		return nil, fmt.Errorf("%s: %w", name, errorf("%d channels, expected 1 to %d", n, core.MaxChannels))
	}
	for i, ch := range cfg.Channels {
		if err := ch.Validate(i); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return cfg, nil
}

func split(r io.Reader) (*document, error) {
	doc := &document{}
	sc := bufio.NewScanner(r)
	first := true
	var cur *section
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			if line == "" {
				continue
			}
			doc.size = line
			first = false
			continue
		}
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "~"):
			count, err := sectionCount(line)
			if err != nil {
				return nil, err
			}
			doc.sections = append(doc.sections, section{count: count, values: map[string]string{}})
			cur = &doc.sections[len(doc.sections)-1]
		default:
			key, val, ok := strings.Cut(line, ":")
			if !ok || cur == nil {
				continue
			}
			cur.values[strings.TrimSpace(key)] = strings.TrimSpace(val)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errorf("read: %v", err)
	}
	if first {
		return nil, errorf("file is empty")
	}
	return doc, nil
}

func sectionCount(line string) (int, error) {
	rest := strings.TrimSpace(strings.TrimLeft(line, "~"))
	if rest == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(strings.Fields(rest)[0])
	if err != nil || n < 1 || n > core.MaxChannels {
		return 0, errorf("invalid channel count in %q", line)
	}
	return n, nil
}

func (d *document) apply(overrides map[string]string) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := overrides[k]
		if k == "size" {
			d.size = v
			continue
		}
		idx, key, ok := strings.Cut(k, ".")
		if !ok {
			return errorf("override %q is not size or <section>.<key>", k)
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 || i >= len(d.sections) {
			return errorf("override %q names unknown section %q", k, idx)
		}
		d.sections[i].values[key] = v
	}
	return nil
}

// ParseSize parses a WxHxD size.
func ParseSize(s string) (core.Size, error) {
	parts := strings.Split(strings.TrimSpace(s), "x")
	if len(parts) != 3 {
		return core.Size{}, errorf("invalid volume size %q", s)
	}
	var dims [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return core.Size{}, errorf("invalid volume size %q", s)
		}
		dims[i] = n
	}
	size := core.Size{W: dims[0], H: dims[1], D: dims[2]}
	if !size.Valid() {
		return core.Size{}, errorf("volume size %q must be positive", s)
	}
	return size, nil
}

func decodeChannel(m map[string]string) (channel.Channel, error) {
	p := params(m)
	mode, ok := m["mode"]
	if !ok {
		return channel.Channel{}, errorf("missing option: mode")
	}

	ch := channel.Channel{}
	var err error
	if ch.Inverted, err = p.boolean("inverted", false); err != nil {
		return ch, err
	}
	if ch.PowerCurve, err = p.float("powerCurve", 1); err != nil {
		return ch, err
	}
	if ch.PowerCurve <= 0 {
		return ch, errorf("powerCurve %g must be positive", ch.PowerCurve)
	}

	switch channel.Kind(mode) {
	case channel.KindGradient:
		o, err := p.octaves("")
		ch.Noise = channel.Gradient{Octaves: o}
		return ch, err
	case channel.KindCellular:
		o, err := p.octaves("")
		ch.Noise = channel.Cellular{Octaves: o}
		return ch, err
	case channel.KindSimplex:
		o, err := p.octaves("")
		ch.Noise = channel.Simplex{Octaves: o}
		return ch, err
	case channel.KindBlend:
		b := channel.Blend{}
		if b.CellularWeight, err = p.float("worleyWeight", 0.3); err != nil {
			return ch, err
		}
		if b.Gradient, err = p.octaves("perlin"); err != nil {
			return ch, err
		}
		if b.Cellular, err = p.octaves("worley"); err != nil {
			return ch, err
		}
		ch.Noise = b
		return ch, nil
	case channel.KindTiled:
		t := channel.Tiled{}
		if t.Resolution, err = p.integer("blueNoiseRes", 32); err != nil {
			return ch, err
		}
		if t.Zoom, err = p.integer("zoom", 1); err != nil {
			return ch, err
		}
		ch.Noise = t
		return ch, nil
	case channel.KindCurl:
		c := channel.Curl{}
		if c.Frequency, err = p.float("frequency", 10); err != nil {
			return ch, err
		}
		ch.Noise = c
		return ch, nil
	}
	return ch, errorf("unknown mode %q, expected one of %s", mode, kindList())
}

func kindList() string {
	kinds := channel.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// params reads typed values with defaults from a section.
type params map[string]string

func (p params) integer(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errorf("option %s: %q is not an integer", key, v)
	}
	return n, nil
}

func (p params) float(key string, def float32) (float32, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, errorf("option %s: %q is not a number", key, v)
	}
	return float32(f), nil
}

func (p params) boolean(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errorf("option %s: %q is not a boolean", key, v)
	}
	return b, nil
}

// octaves reads octaveCount, frequency, lacunarity and persistence, with an
// optional prefix such as "perlin" (perlinOctaveCount, ...).
func (p params) octaves(prefix string) (noise.Octaves, error) {
	key := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + strings.ToUpper(name[:1]) + name[1:]
	}
	o := noise.DefaultOctaves()
	var err error
	if o.Count, err = p.integer(key("octaveCount"), o.Count); err != nil {
		return o, err
	}
	if o.Count < 0 {
		return o, errorf("option %s: negative octave count %d", key("octaveCount"), o.Count)
	}
	if o.Frequency, err = p.float(key("frequency"), o.Frequency); err != nil {
		return o, err
	}
	if o.Lacunarity, err = p.float(key("lacunarity"), o.Lacunarity); err != nil {
		return o, err
	}
	if o.Persistence, err = p.float(key("persistence"), o.Persistence); err != nil {
		return o, err
	}
	return o, nil
}
