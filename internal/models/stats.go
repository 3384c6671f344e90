package models

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds basic intensity statistics of a grid, reported at debug level
// after each load so geometry problems are visible before any file is written.
type Summary struct {
	Min, Max, Mean, Stddev float64
}

// Summarize computes intensity statistics over every sample in the grid.
func Summarize(g *Grid) Summary {
	if len(g.Data) == 0 {
		return Summary{}
	}
	return Summary{
		Min:    floats.Min(g.Data),
		Max:    floats.Max(g.Data),
		Mean:   stat.Mean(g.Data, nil),
		Stddev: stat.StdDev(g.Data, nil),
	}
}
