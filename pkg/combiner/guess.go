// Package combiner discovers an ordered set of single-plane volume files,
// infers or validates the axis they were sliced along, and reassembles them
// into a single volume shaped like a reference scan.
package combiner

import (
	"fmt"

	"slicenii/internal/models"
)

// Scores holds the per-axis evidence gathered by GuessAxis, indexed by axis
// dimension. Exposing the raw scores lets callers report ambiguous guesses
// instead of silently picking one.
type Scores [3]int

// GuessAxis infers which axis a plane set was sliced along by comparing its
// geometry against the reference volume. Each axis scores one point when the
// plane extent there is strictly smaller than the reference extent (the
// collapsed axis is thinner than the full volume) and one more when the voxel
// size there is strictly larger (slice thickness usually exceeds in-plane
// resolution). The highest score wins; ties among the maximum resolve to the
// lowest-indexed axis. A board with no evidence at all, or identical scores
// on every axis, yields ErrUndeterminedAxis and the caller must ask for an
// explicit axis.
func GuessAxis(planeDims [3]int, planePixdim [3]float64, refDims [3]int, refPixdim [3]float64) (models.Axis, Scores, error) {
	var scores Scores
	for i := 0; i < 3; i++ {
		if planeDims[i] < refDims[i] {
			scores[i]++
		}
		if planePixdim[i] > refPixdim[i] {
			scores[i]++
		}
	}

	best := 0
	for i := 1; i < 3; i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	if scores[0] == scores[1] && scores[1] == scores[2] {
		return 0, scores, fmt.Errorf("%w: axis scores are %v; pass an explicit axis", models.ErrUndeterminedAxis, scores)
	}
	return models.Axis(best), scores, nil
}
