// Command combinenii reassembles a directory of single-slice NIfTI files,
// produced by slicenii, into a single volume shaped like a reference scan.
package main

import (
	"errors"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"slicenii/internal/models"
	"slicenii/pkg/combiner"
	"slicenii/pkg/config"
	"slicenii/pkg/nii"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input-dir", "./", "Directory containing the slice NIfTI files")
	output := flag.String("output", "combined.nii", "Output NIfTI file")
	reference := flag.String("reference", "", "The original NIfTI file, defining the output geometry")
	axisIndex := flag.Int("axis", -1, "Axis the volume was sliced along: 0, 1, or 2 (default: guess from slice geometry)")
	startString := flag.String("start-string", "", "Only combine files whose names start with this prefix")
	temporal := flag.Bool("temporal", false, "Stack full 3D volumes along a new time axis instead of reinserting slices")
	force := flag.Bool("force", false, "Overwrite an existing output file")
	sortKey := flag.String("sort", "", "Slice ordering: \"name\" or \"numeric\" (default: from config)")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	// Validate inputs
	if *reference == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *verbose || cfg.Output.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *sortKey != "" {
		cfg.Combiner.SortKey = *sortKey
	}
	key, err := combiner.ParseSortKey(cfg.Combiner.SortKey)
	if err != nil {
		log.Fatalf("%v", err)
	}
	overwrite := *force || cfg.Combiner.Overwrite

	// Refuse to clobber the output before doing any work.
	if !overwrite {
		if err := nii.RefuseExisting(*output); err != nil {
			log.Fatalf("%v", err)
		}
	}

	paths, err := combiner.Discover(*inputDir, *startString, key)
	if err != nil {
		log.Fatalf("Failed to find slices: %v", err)
	}
	planes, first, err := combiner.LoadPlanes(paths, log.StandardLogger())
	if err != nil {
		log.Fatalf("Failed to load slices: %v", err)
	}

	ref, err := nii.ReadVolume(*reference)
	if err != nil {
		log.Fatalf("Failed to load reference %s: %v", *reference, err)
	}
	s := models.Summarize(ref.Grid)
	log.Debugf("reference dims %v, pixdim %v", ref.Grid.Dims(), ref.Pixdim)
	log.Debugf("reference intensity min %.4f max %.4f mean %.4f stddev %.4f", s.Min, s.Max, s.Mean, s.Stddev)

	var out *models.Volume
	if *temporal {
		out, err = combiner.CombineTemporal(planes, ref)
	} else {
		axis := pickAxis(*axisIndex, first, ref)
		out, err = combiner.Combine(planes, axis, ref)
	}
	if err != nil {
		log.Fatalf("Failed to combine: %v", err)
	}

	log.Infof("Final shape: %v", out.Grid.Dims())
	if err := nii.WriteVolume(*output, out.Grid, out.Header); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	log.Infof("Wrote %s", *output)
}

// pickAxis reconciles the explicit -axis flag with the heuristic guess from
// the first slice's geometry. An explicit axis always wins, with a warning
// when the guess disagrees; without one, an undetermined guess is fatal.
func pickAxis(axisIndex int, first, ref *models.Volume) models.Axis {
	planeDims := [3]int{first.Grid.Nx, first.Grid.Ny, first.Grid.Nz}
	planePixdim := [3]float64{first.Pixdim[0], first.Pixdim[1], first.Pixdim[2]}
	refDims := [3]int{ref.Grid.Nx, ref.Grid.Ny, ref.Grid.Nz}
	refPixdim := [3]float64{ref.Pixdim[0], ref.Pixdim[1], ref.Pixdim[2]}

	guess, scores, err := combiner.GuessAxis(planeDims, planePixdim, refDims, refPixdim)

	if axisIndex < 0 {
		if err != nil {
			log.Fatalf("Failed to guess slicing axis: %v", err)
		}
		log.Infof("Guessed slicing axis %s (scores %v)", guess, scores)
		return guess
	}

	axis, axisErr := models.AxisFromIndex(axisIndex)
	if axisErr != nil {
		log.Fatalf("%v", axisErr)
	}
	if err != nil {
		if !errors.Is(err, models.ErrUndeterminedAxis) {
			log.Fatalf("Failed to guess slicing axis: %v", err)
		}
		log.Warnf("Slice geometry does not disambiguate the axis (scores %v); trusting -axis %s", scores, axis)
	} else if guess != axis {
		log.Warnf("Slice geometry suggests axis %s (scores %v) but -axis says %s; using %s", guess, scores, axis, axis)
	}
	return axis
}
