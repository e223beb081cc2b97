package ui

import (
	"strings"

	"volnoise/internal/core"
)

// Line is one row of the parameter panel.
type Line struct {
	Label  string
	Value  string
	Header bool
}

// Lines flattens a snapshot into panel rows: a header per group followed by
// its parameters.
func Lines(snap core.ParameterSnapshot) []Line {
	var out []Line
	for _, g := range snap.Groups {
		title := g.Name
		if g.Summary != "" {
			title += " - " + g.Summary
		}
		out = append(out, Line{Label: title, Header: true})
		for _, p := range g.Params {
			out = append(out, Line{Label: p.Label, Value: p.Value})
		}
	}
	return out
}

// Truncate shortens s to at most n runes, marking the cut with "..".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n <= 2 {
		return strings.Repeat(".", n)
	}
	return string(r[:n-2]) + ".."
}
