// Package mask resolves a mask specification against an imaging dataset and
// produces a standardized pixel-by-time view of the pixels of interest.
//
// A specification is one of three variants: a named auto-threshold method
// (sigma, adaptive, otsu, triangle), an explicit 2D boolean mask, or unset.
// Resolve dispatches over the variant, computes or validates the mask, and
// reconciles its shape against the data.
//
// The two resolved paths are intentionally asymmetric: resolving an explicit
// mask also selects the masked pixel rows out of the data, while resolving a
// named method only computes and stores the mask. Applying a computed mask is
// a second Resolve call with the now-explicit specification.
package mask
