package slicer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slicenii/internal/models"
	"slicenii/pkg/nii"
)

func TestSliceName(t *testing.T) {
	cases := []struct {
		axis    models.Axis
		ordinal int
		padded  bool
		want    string
	}{
		{models.AxisX, 0, false, "scan_axis-0_slice-001.nii"},
		{models.AxisZ, 9, false, "scan_axis-2_slice-010.nii"},
		{models.AxisY, 123, false, "scan_axis-1_slice-124.nii"},
		{models.AxisZ, 0, true, "scan_axis-2_slice-padded-001.nii"},
	}
	for _, c := range cases {
		if got := SliceName("scan", c.axis, c.ordinal, c.padded); got != c.want {
			t.Errorf("SliceName(%s, %d, %v) = %q, want %q", c.axis, c.ordinal, c.padded, got, c.want)
		}
	}
}

func TestFrameName(t *testing.T) {
	if got := FrameName("scan", 0); got != "scan_vol-001.nii" {
		t.Errorf("FrameName = %q", got)
	}
}

func TestSaveSlicesWritesFiles(t *testing.T) {
	vol := testVolume(t, 3, 3, 4, [4]float64{1, 1, 1, 0}, nil)
	planes, err := Slice(vol, models.AxisZ)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	outDir := t.TempDir()
	paths, err := SaveSlices(vol, planes, models.AxisZ, SaveParams{OutDir: outDir, Basename: "scan"})
	if err != nil {
		t.Fatalf("SaveSlices failed: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("wrote %d files, want 4", len(paths))
	}

	dir := filepath.Join(outDir, "scan_slices")
	for i, path := range paths {
		want := filepath.Join(dir, SliceName("scan", models.AxisZ, i, false))
		if path != want {
			t.Errorf("path %d = %q, want %q", i, path, want)
		}
		back, err := nii.ReadVolume(path)
		if err != nil {
			t.Fatalf("reading back %s failed: %v", path, err)
		}
		if back.Grid.Dims() != [4]int{3, 3, 1, 1} {
			t.Fatalf("slice %d dims %v, want [3 3 1 1]", i, back.Grid.Dims())
		}
		if got := back.Grid.At(2, 1, 0, 0); got != float64(2+10+100*i) {
			t.Errorf("slice %d sample = %v, want %v", i, got, 2+10+100*i)
		}
	}
}

func TestSaveSlicesRefusesExisting(t *testing.T) {
	vol := testVolume(t, 2, 2, 2, [4]float64{1, 1, 1, 0}, nil)
	planes, err := Slice(vol, models.AxisZ)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	outDir := t.TempDir()
	params := SaveParams{OutDir: outDir, Basename: "scan"}
	if _, err := SaveSlices(vol, planes, models.AxisZ, params); err != nil {
		t.Fatalf("first SaveSlices failed: %v", err)
	}
	if _, err := SaveSlices(vol, planes, models.AxisZ, params); !errors.Is(err, models.ErrOutputExists) {
		t.Fatalf("second SaveSlices: got %v, want ErrOutputExists", err)
	}

	params.Force = true
	if _, err := SaveSlices(vol, planes, models.AxisZ, params); err != nil {
		t.Fatalf("forced SaveSlices failed: %v", err)
	}
}

func TestSaveFrames(t *testing.T) {
	grid := models.NewGrid(2, 2, 2, 3)
	for i := range grid.Data {
		grid.Data[i] = float64(i)
	}
	vol := testVolume(t, 2, 2, 2, [4]float64{1, 1, 1, 1}, nil)
	vol.Grid = grid

	frames := SplitTemporal(vol)
	outDir := t.TempDir()
	paths, err := SaveFrames(vol, frames, SaveParams{OutDir: outDir, Basename: "bold"})
	if err != nil {
		t.Fatalf("SaveFrames failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("wrote %d files, want 3", len(paths))
	}
	if _, err := os.Stat(filepath.Join(outDir, "bold_vols", "bold_vol-002.nii")); err != nil {
		t.Errorf("expected frame file missing: %v", err)
	}
	for i, path := range paths {
		back, err := nii.ReadVolume(path)
		if err != nil {
			t.Fatalf("reading back %s failed: %v", path, err)
		}
		if !back.Grid.Is3D() {
			t.Fatalf("frame %d not 3D", i)
		}
		if got := back.Grid.At(0, 0, 0, 0); got != float64(8*i) {
			t.Errorf("frame %d first sample = %v, want %v", i, got, 8*i)
		}
	}
}
