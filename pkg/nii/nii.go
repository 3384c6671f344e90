// Package nii is the volume I/O boundary: it reads NIfTI-1 files into the
// shared Volume model and writes grids back out as single-file .nii or
// .nii.gz images. Parsing is delegated to github.com/henghuang/nifti; the
// library panics on malformed input, so every call into it runs behind a
// recover shim that turns the panic into a regular error.
package nii

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/henghuang/nifti"
	"gonum.org/v1/gonum/mat"

	"slicenii/internal/models"
)

const (
	headerSize = 348
	voxOffset  = 352

	dtFloat32 = 16
)

// readHeader loads the raw header, converting library panics and silently
// swallowed read failures into errors.
func readHeader(path string) (header nifti.Nifti1Header, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("parse nifti header %s: %v", path, p)
		}
	}()
	header.LoadHeader(path)
	if header.SizeofHdr != headerSize {
		err = fmt.Errorf("parse nifti header %s: sizeof_hdr is %d, want %d", path, header.SizeofHdr, headerSize)
	}
	return header, err
}

// readImage loads the voxel data and copies it into a grid. The copy runs
// inside the recover shim because the library indexes a nil data slice when
// the read failed.
func readImage(path string, nx, ny, nz, nt int) (grid *models.Grid, err error) {
	defer func() {
		if p := recover(); p != nil {
			grid, err = nil, fmt.Errorf("read nifti data %s: %v", path, p)
		}
	}()
	var img nifti.Nifti1Image
	img.LoadImage(path, true)

	grid = models.NewGrid(nx, ny, nz, nt)
	for t := 0; t < nt; t++ {
		for z := 0; z < nz; z++ {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					grid.Set(x, y, z, t, float64(img.GetAt(x, y, z, t)))
				}
			}
		}
	}
	return grid, nil
}

// ReadVolume reads a .nii or .nii.gz file into a Volume.
func ReadVolume(path string) (*models.Volume, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	header, err := readHeader(path)
	if err != nil {
		return nil, err
	}
	if header.Dim[0] < 3 || header.Dim[0] > 4 {
		return nil, fmt.Errorf("%w: %s is %dD, want 3D or 4D", models.ErrDimensionality, path, header.Dim[0])
	}

	nx, ny, nz := int(header.Dim[1]), int(header.Dim[2]), int(header.Dim[3])
	nt := 1
	if header.Dim[0] == 4 && header.Dim[4] > 1 {
		nt = int(header.Dim[4])
	}
	grid, err := readImage(path, nx, ny, nz, nt)
	if err != nil {
		return nil, err
	}

	return &models.Volume{
		Grid: grid,
		Pixdim: [4]float64{
			float64(header.Pixdim[1]),
			float64(header.Pixdim[2]),
			float64(header.Pixdim[3]),
			float64(header.Pixdim[4]),
		},
		Affine: affineFromHeader(&header),
		Header: header,
	}, nil
}

// affineFromHeader extracts the voxel-to-world transform. The sform rows are
// preferred; without them the transform falls back to the pixdim scales with
// the qform offsets as translation.
func affineFromHeader(h *nifti.Nifti1Header) *mat.Dense {
	a := mat.NewDense(4, 4, nil)
	if h.SformCode > 0 {
		for j := 0; j < 4; j++ {
			a.Set(0, j, float64(h.SrowX[j]))
			a.Set(1, j, float64(h.SrowY[j]))
			a.Set(2, j, float64(h.SrowZ[j]))
		}
	} else {
		a.Set(0, 0, float64(h.Pixdim[1]))
		a.Set(1, 1, float64(h.Pixdim[2]))
		a.Set(2, 2, float64(h.Pixdim[3]))
		a.Set(0, 3, float64(h.QoffsetX))
		a.Set(1, 3, float64(h.QoffsetY))
		a.Set(2, 3, float64(h.QoffsetZ))
	}
	a.Set(3, 3, 1)
	return a
}

// SetAffine stores the transform's rows into the header's sform fields.
func SetAffine(h *nifti.Nifti1Header, a *mat.Dense) {
	for j := 0; j < 4; j++ {
		h.SrowX[j] = float32(a.At(0, j))
		h.SrowY[j] = float32(a.At(1, j))
		h.SrowZ[j] = float32(a.At(2, j))
	}
	if h.SformCode == 0 {
		h.SformCode = 1
	}
}

// NewHeader builds a minimal single-file NIfTI-1 header for the given
// geometry. Dimensions and datatype fields are filled in by WriteVolume.
func NewHeader(pixdim [4]float64, affine *mat.Dense) nifti.Nifti1Header {
	var h nifti.Nifti1Header
	h.SizeofHdr = headerSize
	h.Regular = 'r'
	h.Pixdim[0] = 1
	for i := 0; i < 4; i++ {
		h.Pixdim[i+1] = float32(pixdim[i])
	}
	h.SclSlope = 1
	h.XyztUnits = 10 // mm and seconds
	h.Magic = [4]byte{'n', '+', '1', 0}
	SetAffine(&h, affine)
	return h
}

// RefuseExisting returns ErrOutputExists when the path already names a file.
func RefuseExisting(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s (pass -force to overwrite)", models.ErrOutputExists, path)
	}
	return nil
}

// WriteVolume writes the grid as a single-file NIfTI-1 image using header as
// the template for everything but dimensions and datatype. Samples are
// written as little-endian float32, the widest type the read path produces.
// The stream is gzip-compressed when the path ends in .gz.
func WriteVolume(path string, grid *models.Grid, header nifti.Nifti1Header) error {
	header.SizeofHdr = headerSize
	if grid.Is3D() {
		header.Dim = [8]int16{3, int16(grid.Nx), int16(grid.Ny), int16(grid.Nz), 1, 1, 1, 1}
	} else {
		header.Dim = [8]int16{4, int16(grid.Nx), int16(grid.Ny), int16(grid.Nz), int16(grid.Nt), 1, 1, 1}
	}
	header.Datatype = dtFloat32
	header.Bitpix = 32
	header.VoxOffset = voxOffset
	header.Magic = [4]byte{'n', '+', '1', 0}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("write header %s: %w", path, err)
	}
	// Pad to vox_offset; the four bytes are the empty extension flag.
	if err := binary.Write(w, binary.LittleEndian, make([]byte, voxOffset-headerSize)); err != nil {
		return fmt.Errorf("write header %s: %w", path, err)
	}

	samples := make([]float32, len(grid.Data))
	for i, v := range grid.Data {
		samples[i] = float32(v)
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("write data %s: %w", path, err)
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("write data %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Basename strips the directory and the .nii / .nii.gz suffix from a path.
func Basename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	base = strings.TrimSuffix(base, ".nii")
	return base
}
