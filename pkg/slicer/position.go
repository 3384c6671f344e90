package slicer

import (
	"fmt"

	"github.com/henghuang/nifti"
	"gonum.org/v1/gonum/mat"

	"slicenii/internal/models"
	"slicenii/pkg/nii"
)

// Positioner derives per-plane headers from a source volume's geometry. The
// affine is inverted once, up front, so a singular transform fails the run
// before any file is written.
type Positioner struct {
	vol *models.Volume
	inv *mat.Dense
}

// NewPositioner inverts the volume's affine. A zero-determinant transform
// yields ErrSingularTransform: the geometry cannot be recovered.
func NewPositioner(vol *models.Volume) (*Positioner, error) {
	inv := mat.NewDense(4, 4, nil)
	if err := inv.Inverse(vol.Affine); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSingularTransform, err)
	}
	return &Positioner{vol: vol, inv: inv}, nil
}

// Affine returns the transform for the plane at the given ordinal: the source
// affine with only its translation column replaced, so the 3x3 linear part is
// preserved across every derived file.
func (p *Positioner) Affine(axis models.Axis, ordinal int) *mat.Dense {
	// The plane's physical offset along the axis, placed in the matching
	// world coordinate, then mapped back through the inverse transform.
	posReal := float64(ordinal) * p.vol.Pixdim[axis.Index()]
	world := mat.NewVecDense(4, nil)
	world.SetVec(axis.Index(), posReal)
	world.SetVec(3, 1)

	var voxel mat.VecDense
	voxel.MulVec(p.inv, world)

	affine := mat.DenseCopyOf(p.vol.Affine)
	for r := 0; r < 3; r++ {
		affine.Set(r, 3, voxel.AtVec(r))
	}
	return affine
}

// HeaderFor clones the source header and installs the plane's transform; all
// other header fields carry over unchanged.
func (p *Positioner) HeaderFor(axis models.Axis, ordinal int) nifti.Nifti1Header {
	header := p.vol.Header
	nii.SetAffine(&header, p.Affine(axis, ordinal))
	return header
}
