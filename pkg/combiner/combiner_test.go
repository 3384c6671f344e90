package combiner

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"slicenii/internal/models"
	"slicenii/pkg/slicer"
)

// testVolume builds a volume whose sample at (x, y, z) is x + 10y + 100z.
func testVolume(t *testing.T, nx, ny, nz int) *models.Volume {
	t.Helper()
	grid := models.NewGrid(nx, ny, nz, 1)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				grid.Set(x, y, z, 0, float64(x+10*y+100*z))
			}
		}
	}
	return &models.Volume{
		Grid:   grid,
		Pixdim: [4]float64{1, 1, 1, 0},
		Affine: mat.NewDense(4, 4, []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}),
	}
}

func TestCombineRoundTrip(t *testing.T) {
	vol := testVolume(t, 4, 5, 6)

	for _, axis := range []models.Axis{models.AxisX, models.AxisY, models.AxisZ} {
		planes, err := slicer.Slice(vol, axis)
		if err != nil {
			t.Fatalf("Slice along %s failed: %v", axis, err)
		}
		out, err := Combine(planes, axis, vol)
		if err != nil {
			t.Fatalf("Combine along %s failed: %v", axis, err)
		}
		if out.Grid.Dims() != vol.Grid.Dims() {
			t.Fatalf("axis %s: dims %v, want %v", axis, out.Grid.Dims(), vol.Grid.Dims())
		}
		for i := range vol.Grid.Data {
			if out.Grid.Data[i] != vol.Grid.Data[i] {
				t.Fatalf("axis %s: sample %d = %v, want %v", axis, i, out.Grid.Data[i], vol.Grid.Data[i])
			}
		}
	}
}

func TestCombinePaddingIdempotent(t *testing.T) {
	vol := testVolume(t, 4, 4, 4)

	plain, err := slicer.Slice(vol, models.AxisY)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	padded, err := slicer.SlicePadded(vol, models.AxisY, 4)
	if err != nil {
		t.Fatalf("SlicePadded failed: %v", err)
	}

	fromPlain, err := Combine(plain, models.AxisY, vol)
	if err != nil {
		t.Fatalf("Combine(plain) failed: %v", err)
	}
	fromPadded, err := Combine(padded, models.AxisY, vol)
	if err != nil {
		t.Fatalf("Combine(padded) failed: %v", err)
	}
	for i := range fromPlain.Grid.Data {
		if fromPlain.Grid.Data[i] != fromPadded.Grid.Data[i] {
			t.Fatalf("sample %d differs between padded and unpadded reassembly", i)
		}
	}
}

func TestCombineCountMismatch(t *testing.T) {
	vol := testVolume(t, 4, 4, 30)
	planes, err := slicer.Slice(vol, models.AxisZ)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if _, err := Combine(planes[:29], models.AxisZ, vol); !errors.Is(err, models.ErrCountMismatch) {
		t.Fatalf("got %v, want ErrCountMismatch", err)
	}
}

func TestCombineOrderIrrelevant(t *testing.T) {
	vol := testVolume(t, 3, 3, 4)
	planes, err := slicer.Slice(vol, models.AxisZ)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	// Write order must not matter: the ordinals address disjoint targets.
	reversed := make([]models.Plane, len(planes))
	for i, p := range planes {
		reversed[len(planes)-1-i] = p
	}
	out, err := Combine(reversed, models.AxisZ, vol)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	for i := range vol.Grid.Data {
		if out.Grid.Data[i] != vol.Grid.Data[i] {
			t.Fatalf("sample %d = %v, want %v", i, out.Grid.Data[i], vol.Grid.Data[i])
		}
	}
}

func TestCombineShapeMismatch(t *testing.T) {
	vol := testVolume(t, 4, 4, 2)
	other := testVolume(t, 5, 4, 2)
	planes, err := slicer.Slice(other, models.AxisZ)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if _, err := Combine(planes, models.AxisZ, vol); !errors.Is(err, models.ErrDimensionality) {
		t.Fatalf("got %v, want ErrDimensionality", err)
	}
}

func TestCombineMetadataFromReference(t *testing.T) {
	vol := testVolume(t, 2, 2, 3)
	vol.Pixdim = [4]float64{0.5, 0.7, 2.5, 0}
	vol.Affine.Set(0, 3, 42)

	planes, err := slicer.Slice(vol, models.AxisZ)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	out, err := Combine(planes, models.AxisZ, vol)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if out.Pixdim != vol.Pixdim {
		t.Errorf("pixdim %v, want %v", out.Pixdim, vol.Pixdim)
	}
	if !mat.Equal(out.Affine, vol.Affine) {
		t.Error("affine not copied from reference")
	}
	// The copy must be independent of the reference's matrix.
	out.Affine.Set(0, 3, 0)
	if vol.Affine.At(0, 3) != 42 {
		t.Error("combined affine aliases the reference affine")
	}
}

func TestCombineTemporal(t *testing.T) {
	ref := testVolume(t, 2, 2, 2)

	var frames []models.Plane
	for i := 0; i < 3; i++ {
		g := models.NewGrid(2, 2, 2, 1)
		for j := range g.Data {
			g.Data[j] = float64(1000*i + j)
		}
		frames = append(frames, models.Plane{Grid: g, Ordinal: i})
	}

	out, err := CombineTemporal(frames, ref)
	if err != nil {
		t.Fatalf("CombineTemporal failed: %v", err)
	}
	if out.Grid.Dims() != [4]int{2, 2, 2, 3} {
		t.Fatalf("dims %v, want [2 2 2 3]", out.Grid.Dims())
	}
	for i := 0; i < 3; i++ {
		if got := out.Grid.At(1, 1, 1, i); got != float64(1000*i+7) {
			t.Errorf("timepoint %d corner = %v, want %v", i, got, 1000*i+7)
		}
	}
}

func TestCombineTemporalShapeMismatch(t *testing.T) {
	ref := testVolume(t, 2, 2, 2)
	frames := []models.Plane{{Grid: models.NewGrid(3, 2, 2, 1), Ordinal: 0}}
	if _, err := CombineTemporal(frames, ref); !errors.Is(err, models.ErrDimensionality) {
		t.Fatalf("got %v, want ErrDimensionality", err)
	}
}
