package models

import "errors"

// Sentinel errors shared by the slicing and combining pipelines. Every error
// is terminal: the first one encountered aborts the run, and the CLIs map it
// to a message on stderr and a non-zero exit status.
var (
	// ErrInputNotFound marks a missing input file or directory.
	ErrInputNotFound = errors.New("input not found")

	// ErrNotADirectory marks an input path that should be a directory but is not.
	ErrNotADirectory = errors.New("not a directory")

	// ErrDimensionality marks a volume whose rank does not fit the operation.
	ErrDimensionality = errors.New("wrong dimensionality")

	// ErrCountMismatch marks a plane count that differs from the reference
	// extent along the active axis.
	ErrCountMismatch = errors.New("slice count mismatch")

	// ErrUndeterminedAxis marks an axis guess with no disambiguating evidence.
	ErrUndeterminedAxis = errors.New("could not determine slicing axis")

	// ErrSingularTransform marks a non-invertible affine; the geometry of the
	// source volume cannot be recovered.
	ErrSingularTransform = errors.New("singular affine transform")

	// ErrOutputExists marks a refusal to overwrite an existing output file.
	ErrOutputExists = errors.New("output already exists")
)
