// Package slicer splits a 3D volume into an ordered sequence of planes along
// a spatial axis, optionally padding each plane into a thicker block, and
// recomputes each plane's spatial transform so the emitted files keep their
// true position in scanner space.
package slicer

import (
	"fmt"

	"slicenii/internal/models"
)

// Slice extracts every cross-section of vol along axis as a thickness-1
// plane, ordered by ordinal. It is a pure function of its input.
func Slice(vol *models.Volume, axis models.Axis) ([]models.Plane, error) {
	return SlicePadded(vol, axis, 1)
}

// SlicePadded extracts the same cross-sections but replicates each one
// padding times along axis, producing a non-degenerate block that downstream
// correction tools accept. padding=1 degenerates to Slice.
func SlicePadded(vol *models.Volume, axis models.Axis, padding int) ([]models.Plane, error) {
	if padding < 1 {
		return nil, fmt.Errorf("padding factor must be at least 1, got %d", padding)
	}
	if axis == models.AxisTime {
		return nil, fmt.Errorf("cannot slice along the time axis; use the time-split mode for 4D input")
	}
	if !vol.Grid.Is3D() {
		return nil, fmt.Errorf("%w: input must be 3D; split the time axis first (see -split-time)", models.ErrDimensionality)
	}

	extent := vol.Grid.Dim(axis)
	if extent < 1 {
		return nil, fmt.Errorf("%w: extent along axis %s is %d", models.ErrDimensionality, axis, extent)
	}

	planes := make([]models.Plane, 0, extent)
	for i := 0; i < extent; i++ {
		planes = append(planes, models.Plane{
			Grid:    extract(vol.Grid, axis, i, padding),
			Ordinal: i,
		})
	}
	return planes, nil
}

// extract copies the cross-section at index along axis into a block of the
// given thickness. Every copy along the collapsed axis reads the same source
// cross-section.
func extract(g *models.Grid, axis models.Axis, index, padding int) *models.Grid {
	dims := g.Dims()
	dims[axis.Index()] = padding
	out := models.NewGrid(dims[0], dims[1], dims[2], 1)

	for z := 0; z < out.Nz; z++ {
		for y := 0; y < out.Ny; y++ {
			for x := 0; x < out.Nx; x++ {
				sx, sy, sz := x, y, z
				switch axis {
				case models.AxisX:
					sx = index
				case models.AxisY:
					sy = index
				case models.AxisZ:
					sz = index
				}
				out.Set(x, y, z, 0, g.At(sx, sy, sz, 0))
			}
		}
	}
	return out
}

// SplitTemporal splits a 4D volume into its 3D timepoints, ordered by frame
// ordinal. A 3D input yields a single frame.
func SplitTemporal(vol *models.Volume) []models.Frame {
	g := vol.Grid
	frames := make([]models.Frame, 0, g.Nt)
	for t := 0; t < g.Nt; t++ {
		frame := models.NewGrid(g.Nx, g.Ny, g.Nz, 1)
		for z := 0; z < g.Nz; z++ {
			for y := 0; y < g.Ny; y++ {
				for x := 0; x < g.Nx; x++ {
					frame.Set(x, y, z, 0, g.At(x, y, z, t))
				}
			}
		}
		frames = append(frames, models.Frame{Grid: frame, Ordinal: t})
	}
	return frames
}
