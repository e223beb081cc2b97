package channel

import (
	"fmt"
	"strings"

	"volnoise/internal/core"
	"volnoise/internal/noise"
)

// Parameters describes the channel as a labelled parameter group.
func (c Channel) Parameters(index int) core.ParameterGroup {
	group := core.ParameterGroup{Name: fmt.Sprintf("Channel %d", index)}
	if c.Noise == nil {
		group.Summary = "unset"
		return group
	}
	group.Summary = string(c.Noise.Kind())
	params := []core.Parameter{
		core.StringParam("mode", "Mode", string(c.Noise.Kind())),
		core.Uint32Param("seed", "Seed", c.Seed),
	}
	switch n := c.Noise.(type) {
	case Gradient:
		params = append(params, octaveParams("", "", n.Octaves)...)
	case Cellular:
		params = append(params, octaveParams("", "", n.Octaves)...)
	case Simplex:
		params = append(params, octaveParams("", "", n.Octaves)...)
	case Blend:
		params = append(params, core.FloatParam("worleyWeight", "Worley weight", n.CellularWeight))
		params = append(params, octaveParams("perlin", "Perlin ", n.Gradient)...)
		params = append(params, octaveParams("worley", "Worley ", n.Cellular)...)
	case Tiled:
		params = append(params,
			core.IntParam("blueNoiseRes", "Blue noise resolution", n.Resolution),
			core.IntParam("zoom", "Zoom", n.Zoom),
		)
	case Curl:
		params = append(params, core.FloatParam("frequency", "Frequency", n.Frequency))
	}
	params = append(params,
		core.BoolParam("inverted", "Inverted", c.Inverted),
		core.FloatParam("powerCurve", "Power curve", c.PowerCurve),
	)
	group.Params = params
	return group
}

func octaveParams(prefix, label string, o noise.Octaves) []core.Parameter {
	key := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + strings.ToUpper(name[:1]) + name[1:]
	}
	return []core.Parameter{
		core.IntParam(key("octaveCount"), label+"Octaves", o.Count),
		core.FloatParam(key("frequency"), label+"Frequency", o.Frequency),
		core.FloatParam(key("lacunarity"), label+"Lacunarity", o.Lacunarity),
		core.FloatParam(key("persistence"), label+"Persistence", o.Persistence),
	}
}
