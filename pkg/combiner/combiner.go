package combiner

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"slicenii/internal/models"
)

// Combine reinserts each plane into a zero-filled volume shaped exactly like
// the reference. For padded planes the middle copy along the axis is treated
// as canonical (thickness/2, integer division), so combining padded and
// unpadded plane sets of the same scan yields the same result. Writes target
// disjoint ordinals, so input order is irrelevant. The returned volume
// carries the reference's metadata unchanged.
func Combine(planes []models.Plane, axis models.Axis, ref *models.Volume) (*models.Volume, error) {
	if axis == models.AxisTime {
		return nil, fmt.Errorf("cannot combine along the time axis; use the temporal mode")
	}
	if !ref.Grid.Is3D() {
		return nil, fmt.Errorf("%w: reference must be 3D; split the time axis first", models.ErrDimensionality)
	}
	if len(planes) != ref.Grid.Dim(axis) {
		return nil, fmt.Errorf("%w: found %d slices but reference extent along axis %s is %d",
			models.ErrCountMismatch, len(planes), axis, ref.Grid.Dim(axis))
	}

	out := models.NewGrid(ref.Grid.Nx, ref.Grid.Ny, ref.Grid.Nz, 1)
	for _, p := range planes {
		if err := checkPlaneShape(p, axis, ref); err != nil {
			return nil, err
		}
		mid := p.Grid.Dim(axis) / 2
		insert(out, p.Grid, axis, p.Ordinal, mid)
	}

	return &models.Volume{
		Grid:   out,
		Pixdim: ref.Pixdim,
		Affine: mat.DenseCopyOf(ref.Affine),
		Header: ref.Header,
	}, nil
}

// checkPlaneShape verifies the plane matches the reference on the two axes it
// was not collapsed along.
func checkPlaneShape(p models.Plane, axis models.Axis, ref *models.Volume) error {
	for _, a := range []models.Axis{models.AxisX, models.AxisY, models.AxisZ} {
		if a == axis {
			continue
		}
		if p.Grid.Dim(a) != ref.Grid.Dim(a) {
			return fmt.Errorf("%w: slice %d has extent %d along axis %s, reference has %d",
				models.ErrDimensionality, p.Ordinal, p.Grid.Dim(a), a, ref.Grid.Dim(a))
		}
	}
	if p.Ordinal < 0 || p.Ordinal >= ref.Grid.Dim(axis) {
		return fmt.Errorf("%w: slice ordinal %d outside reference extent %d",
			models.ErrDimensionality, p.Ordinal, ref.Grid.Dim(axis))
	}
	return nil
}

// insert copies the cross-section of src at srcIndex along axis into dst at
// dstIndex along the same axis.
func insert(dst, src *models.Grid, axis models.Axis, dstIndex, srcIndex int) {
	nx, ny, nz := src.Nx, src.Ny, src.Nz
	switch axis {
	case models.AxisX:
		nx = 1
	case models.AxisY:
		ny = 1
	case models.AxisZ:
		nz = 1
	}
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				sx, sy, sz := x, y, z
				dx, dy, dz := x, y, z
				switch axis {
				case models.AxisX:
					sx, dx = srcIndex, dstIndex
				case models.AxisY:
					sy, dy = srcIndex, dstIndex
				case models.AxisZ:
					sz, dz = srcIndex, dstIndex
				}
				dst.Set(dx, dy, dz, 0, src.At(sx, sy, sz, 0))
			}
		}
	}
}

// CombineTemporal stacks full 3D volumes along a new temporal axis, ordered
// by ordinal. The only timing metadata on the result is the reference's
// temporal voxel size, carried over with the rest of its header.
func CombineTemporal(frames []models.Plane, ref *models.Volume) (*models.Volume, error) {
	if !ref.Grid.Is3D() {
		return nil, fmt.Errorf("%w: reference must be 3D", models.ErrDimensionality)
	}

	out := models.NewGrid(ref.Grid.Nx, ref.Grid.Ny, ref.Grid.Nz, len(frames))
	for _, f := range frames {
		if f.Grid.Dims() != ref.Grid.Dims() {
			return nil, fmt.Errorf("%w: volume %d has dims %v, reference has %v",
				models.ErrDimensionality, f.Ordinal, f.Grid.Dims(), ref.Grid.Dims())
		}
		if f.Ordinal < 0 || f.Ordinal >= len(frames) {
			return nil, fmt.Errorf("%w: volume ordinal %d outside stack of %d",
				models.ErrDimensionality, f.Ordinal, len(frames))
		}
		for z := 0; z < ref.Grid.Nz; z++ {
			for y := 0; y < ref.Grid.Ny; y++ {
				for x := 0; x < ref.Grid.Nx; x++ {
					out.Set(x, y, z, f.Ordinal, f.Grid.At(x, y, z, 0))
				}
			}
		}
	}

	return &models.Volume{
		Grid:   out,
		Pixdim: ref.Pixdim,
		Affine: mat.DenseCopyOf(ref.Affine),
		Header: ref.Header,
	}, nil
}
