package combiner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"slicenii/internal/models"
	"slicenii/pkg/nii"
)

// SortKey selects the ordering applied to discovered files. Whichever key is
// chosen must match how the files were named, or the recovered ordinals will
// be scrambled.
type SortKey int

const (
	// SortLexical orders files by filename.
	SortLexical SortKey = iota

	// SortNumeric orders files by the digits embedded in each filename,
	// concatenated in encounter order; a name with no digits sorts as 0.
	SortNumeric
)

// ParseSortKey maps the user-facing sort names to a SortKey.
func ParseSortKey(name string) (SortKey, error) {
	switch name {
	case "name":
		return SortLexical, nil
	case "numeric":
		return SortNumeric, nil
	default:
		return 0, fmt.Errorf("unknown sort key %q, want \"name\" or \"numeric\"", name)
	}
}

// numericKey concatenates every digit of the name in encounter order and
// parses the result as an unsigned integer.
func numericKey(name string) uint64 {
	var key uint64
	for _, r := range name {
		if r >= '0' && r <= '9' {
			key = key*10 + uint64(r-'0')
		}
	}
	return key
}

// Discover lists the .nii and .nii.gz files in dir whose names start with
// prefix, ordered by the sort key.
func Discover(dir, prefix string, key SortKey) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", models.ErrInputNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", models.ErrNotADirectory, dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, prefix+"*.nii*"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no nifti files matching %q in %s", models.ErrInputNotFound, prefix+"*", dir)
	}

	switch key {
	case SortNumeric:
		sort.Slice(matches, func(i, j int) bool {
			return numericKey(filepath.Base(matches[i])) < numericKey(filepath.Base(matches[j]))
		})
	default:
		sort.Slice(matches, func(i, j int) bool {
			return filepath.Base(matches[i]) < filepath.Base(matches[j])
		})
	}
	return matches, nil
}

// LoadPlanes reads each discovered file as one plane, assigning ordinals in
// sorted order. It also returns the first file's volume so callers can feed
// its geometry to GuessAxis.
func LoadPlanes(paths []string, log logrus.FieldLogger) ([]models.Plane, *models.Volume, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	planes := make([]models.Plane, 0, len(paths))
	var first *models.Volume
	for i, path := range paths {
		log.Debugf("loading %s as slice %d", path, i)
		vol, err := nii.ReadVolume(path)
		if err != nil {
			return nil, nil, err
		}
		if first == nil {
			first = vol
		}
		planes = append(planes, models.Plane{Grid: vol.Grid, Ordinal: i})
	}
	return planes, first, nil
}
