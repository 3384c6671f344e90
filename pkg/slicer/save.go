package slicer

import (
	"fmt"
	"os"
	"path/filepath"

	"slicenii/internal/models"
	"slicenii/pkg/nii"
)

// SaveParams controls where and how the extracted planes are written.
type SaveParams struct {
	// OutDir is the directory the per-scan slice directory is created in.
	OutDir string

	// Basename is the source scan's name without extension; it prefixes
	// every output file and names the slice directory.
	Basename string

	// Padded marks the filenames of planes thicker than one voxel.
	Padded bool

	// Force overwrites existing slice files instead of refusing them.
	Force bool
}

// SliceName returns the output filename for one plane. Ordinals are written
// 1-based and zero-padded to three digits.
func SliceName(basename string, axis models.Axis, ordinal int, padded bool) string {
	mark := ""
	if padded {
		mark = "padded-"
	}
	return fmt.Sprintf("%s_axis-%s_slice-%s%03d.nii", basename, axis, mark, ordinal+1)
}

// FrameName returns the output filename for one timepoint of a 4D split.
func FrameName(basename string, ordinal int) string {
	return fmt.Sprintf("%s_vol-%03d.nii", basename, ordinal+1)
}

// SaveSlices writes each plane as an independent volume file under
// <OutDir>/<Basename>_slices/, with the plane's repositioned header. The
// affine is inverted before the directory is touched, so a singular
// transform aborts with nothing written. It returns the written paths in
// ordinal order.
func SaveSlices(vol *models.Volume, planes []models.Plane, axis models.Axis, params SaveParams) ([]string, error) {
	pos, err := NewPositioner(vol)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(params.OutDir, params.Basename+"_slices")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create slice directory: %w", err)
	}

	paths := make([]string, 0, len(planes))
	for _, p := range planes {
		path := filepath.Join(dir, SliceName(params.Basename, axis, p.Ordinal, params.Padded))
		if !params.Force {
			if err := nii.RefuseExisting(path); err != nil {
				return nil, err
			}
		}
		if err := nii.WriteVolume(path, p.Grid, pos.HeaderFor(axis, p.Ordinal)); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SaveFrames writes each 3D timepoint of a 4D split under
// <OutDir>/<Basename>_vols/ with the source header otherwise unchanged.
func SaveFrames(vol *models.Volume, frames []models.Frame, params SaveParams) ([]string, error) {
	dir := filepath.Join(params.OutDir, params.Basename+"_vols")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create volume directory: %w", err)
	}

	paths := make([]string, 0, len(frames))
	for _, f := range frames {
		path := filepath.Join(dir, FrameName(params.Basename, f.Ordinal))
		if !params.Force {
			if err := nii.RefuseExisting(path); err != nil {
				return nil, err
			}
		}
		if err := nii.WriteVolume(path, f.Grid, vol.Header); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
