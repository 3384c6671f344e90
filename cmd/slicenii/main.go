// Command slicenii splits a NIfTI volume into a series of single-slice
// volume files along a chosen spatial axis, repositioning each slice's
// spatial transform so it keeps its true location in scanner space.
package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"slicenii/internal/models"
	"slicenii/pkg/config"
	"slicenii/pkg/nii"
	"slicenii/pkg/slicer"
)

func main() {
	// Parse command line arguments
	input := flag.String("input", "", "Input NIfTI file (.nii or .nii.gz)")
	output := flag.String("output", "./", "Existing directory to create the slice directory in")
	axisIndex := flag.Int("axis", 0, "Axis to slice along: 0, 1, or 2 for the 1st (x), 2nd (y), or 3rd (z) axis")
	pad := flag.Bool("pad", false, "Stack copies of each slice along the axis instead of writing thickness-1 slices")
	padding := flag.Int("padding", 0, "Padding factor when -pad is set (default: from config)")
	splitTime := flag.Bool("split-time", false, "Split a 4D file into per-timepoint 3D volumes instead of slicing")
	force := flag.Bool("force", false, "Overwrite existing output files")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	// Validate inputs
	if *input == "" {
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
	if *padding > 0 {
		cfg.Slicer.PaddingFactor = *padding
	}

	vol, err := nii.ReadVolume(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}
	logVolume(vol)

	params := slicer.SaveParams{
		OutDir:   *output,
		Basename: nii.Basename(*input),
		Force:    *force,
	}

	if *splitTime {
		frames := slicer.SplitTemporal(vol)
		paths, err := slicer.SaveFrames(vol, frames, params)
		if err != nil {
			log.Fatalf("Failed to save volumes: %v", err)
		}
		log.Infof("Wrote %d volumes to %s", len(paths), params.OutDir)
		return
	}

	axis, err := models.AxisFromIndex(*axisIndex)
	if err != nil {
		log.Fatalf("%v", err)
	}

	factor := 1
	if *pad {
		factor = cfg.Slicer.PaddingFactor
		params.Padded = factor > 1
	}
	planes, err := slicer.SlicePadded(vol, axis, factor)
	if err != nil {
		log.Fatalf("Failed to slice %s: %v", *input, err)
	}

	paths, err := slicer.SaveSlices(vol, planes, axis, params)
	if err != nil {
		log.Fatalf("Failed to save slices: %v", err)
	}
	log.Infof("Wrote %d slices along axis %s to %s", len(paths), axis, params.OutDir)
}

// logVolume reports geometry and intensity statistics at debug level.
func logVolume(vol *models.Volume) {
	s := models.Summarize(vol.Grid)
	log.Debugf("dims %v, pixdim %v", vol.Grid.Dims(), vol.Pixdim)
	log.Debugf("intensity min %.4f max %.4f mean %.4f stddev %.4f", s.Min, s.Max, s.Mean, s.Stddev)
}
