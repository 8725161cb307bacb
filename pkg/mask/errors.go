package mask

import (
	"fmt"
	"strings"
)

// UnrecognizedOptionError reports a named mask method outside the supported
// set. It is the only non-fatal condition in the package: Resolve converts it
// to a warning string, resets the specification to Unset, and lets the caller
// proceed unmasked.
type UnrecognizedOptionError struct {
	// Option is the offending method name as supplied by the caller
	Option string
}

func (e *UnrecognizedOptionError) Error() string {
	return fmt.Sprintf("unrecognized mask option %q: valid options are %s",
		e.Option, strings.Join(MethodNames(), ", "))
}

// InvalidTypeError reports an explicit mask whose values are not boolean.
type InvalidTypeError struct {
	// Got describes the value or type that was supplied instead
	Got string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("mask must be boolean (got %s)", e.Got)
}

// DimensionError reports a mask with more than one plane.
type DimensionError struct{}

func (e *DimensionError) Error() string {
	return "3D mask not supported"
}

// SizeMismatchError reports that none of the mask/data shape-reconciliation
// rules apply. The message carries both shapes so the caller can see exactly
// what was compared.
type SizeMismatchError struct {
	// MaskRows, MaskCols are the mask's frame dimensions
	MaskRows, MaskCols int

	// MaskCount is the number of true pixels in the mask
	MaskCount int

	// DataPixels, DataFrames are the dimensions of the pixel-by-time data
	DataPixels, DataFrames int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("mask size %dx%d (%d pixels, %d selected) does not match data size %dx%d",
		e.MaskRows, e.MaskCols, e.MaskRows*e.MaskCols, e.MaskCount, e.DataPixels, e.DataFrames)
}
