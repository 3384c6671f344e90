// Package models defines the data model shared by the slicenii and combinenii
// pipelines: spatial axes, volume grids, and extracted planes.
package models

import (
	"fmt"

	"github.com/henghuang/nifti"
	"gonum.org/v1/gonum/mat"
)

// Axis identifies one of the three spatial dimensions of a volume, or the
// temporal dimension for 4D stacks. Exactly one axis is active per slicing or
// combining operation, and the temporal axis never participates in spatial
// slicing.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisTime
)

// Index returns the array dimension the axis maps to.
func (a Axis) Index() int {
	return int(a)
}

// String renders the axis the way output filenames encode it.
func (a Axis) String() string {
	if a == AxisTime {
		return "t"
	}
	return fmt.Sprintf("%d", int(a))
}

// AxisFromIndex converts a user-supplied dimension index to a spatial Axis.
func AxisFromIndex(i int) (Axis, error) {
	if i < 0 || i > 2 {
		return 0, fmt.Errorf("axis must be 0, 1, or 2 to indicate the 1st (x), 2nd (y), or 3rd (z) axis, got %d", i)
	}
	return Axis(i), nil
}

// Grid holds volume samples as a flat []float64 with x varying fastest, then
// y, then z, then t. This is the NIfTI on-disk order, so reads and writes are
// a single sequential pass.
type Grid struct {
	Data []float64

	// Nx, Ny, Nz, Nt are the grid extents; Nt is 1 for 3D volumes.
	Nx, Ny, Nz, Nt int
}

// NewGrid allocates a zero-filled grid with the given extents.
func NewGrid(nx, ny, nz, nt int) *Grid {
	if nt < 1 {
		nt = 1
	}
	return &Grid{
		Data: make([]float64, nx*ny*nz*nt),
		Nx:   nx,
		Ny:   ny,
		Nz:   nz,
		Nt:   nt,
	}
}

// At returns the sample at voxel (x, y, z, t).
func (g *Grid) At(x, y, z, t int) float64 {
	return g.Data[((t*g.Nz+z)*g.Ny+y)*g.Nx+x]
}

// Set stores a sample at voxel (x, y, z, t).
func (g *Grid) Set(x, y, z, t int, v float64) {
	g.Data[((t*g.Nz+z)*g.Ny+y)*g.Nx+x] = v
}

// Dim returns the extent along the given axis.
func (g *Grid) Dim(axis Axis) int {
	switch axis {
	case AxisX:
		return g.Nx
	case AxisY:
		return g.Ny
	case AxisZ:
		return g.Nz
	default:
		return g.Nt
	}
}

// Dims returns the extents as [x, y, z, t].
func (g *Grid) Dims() [4]int {
	return [4]int{g.Nx, g.Ny, g.Nz, g.Nt}
}

// Is3D reports whether the grid has a degenerate time axis.
func (g *Grid) Is3D() bool {
	return g.Nt <= 1
}

// Volume pairs grid samples with the spatial metadata needed to place them in
// scanner space. The header is read once from the input file and copied per
// derived output; it is never shared mutably.
type Volume struct {
	Grid *Grid

	// Pixdim is the voxel size along x, y, z plus the temporal step.
	Pixdim [4]float64

	// Affine is the 4x4 voxel-to-world transform.
	Affine *mat.Dense

	// Header is the source NIfTI header, used as the template for every
	// derived output.
	Header nifti.Nifti1Header
}

// Plane is one cross-section extracted from a Volume along the active axis,
// re-embedded as a 3D block whose thickness along that axis equals the
// padding factor (1 when unpadded). Ordinal is its 0-based position along the
// active axis in the source or target volume.
type Plane struct {
	Grid    *Grid
	Ordinal int
}

// Frame is one 3D timepoint split out of a 4D volume.
type Frame struct {
	Grid    *Grid
	Ordinal int
}
