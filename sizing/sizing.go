// Package sizing translates one of four mutually-exclusive user-facing
// knobs (explicit dimension, block count, data-usage ratio, or coverage)
// into the block edge length D, and derives the resulting block layout
// from a data file size.
package sizing

import "math"

// Layout is the derived block geometry for a data file of a given size.
type Layout struct {
	// Dim is the edge length D of a full block.
	Dim uint32
	// FullBlockCount is N, the number of full D x D blocks.
	FullBlockCount uint64
	// TailDim is D', the edge length of the trailing tail block, or 0 if
	// the data size is an exact multiple of Dim*Dim.
	TailDim uint32
}

func smallestDim(x uint64) uint32 {
	if x == 0 {
		return 0
	}
	return uint32(math.Ceil(math.Sqrt(float64(x))))
}

// normalize applies the §3 floor rules: D is raised to 2 if below, and
// to ceil(sqrt(S)) if S/D^2 would be zero (the data is too small to hold
// even one full block at the requested D).
func normalize(d uint32, size uint64) uint32 {
	if d < 2 {
		d = 2
	}
	if size/(uint64(d)*uint64(d)) == 0 {
		d = smallestDim(size)
		if d < 1 {
			d = 1
		}
	}
	return d
}

// ByDimension derives a layout from an explicit caller-supplied D.
func ByDimension(dim uint32, size uint64) Layout {
	return layoutFor(normalize(dim, size), size)
}

// ByBlockCount derives D from a target number of full blocks N.
// N must be > 0.
func ByBlockCount(count uint64, size uint64) Layout {
	d := smallestDim(size / count)
	return layoutFor(normalize(d, size), size)
}

// ByDataUsage derives D from a data-usage ratio u in (0, 1]: each stored
// parity byte corresponds to roughly 1/u data bytes.
func ByDataUsage(ratio float64, size uint64) Layout {
	d := smallestDim(uint64(1.0 / ratio))
	return layoutFor(normalize(d, size), size)
}

// ByCoverage derives D from a coverage guarantee c in (0, 1]: single-byte
// recovery is guaranteed within every D^2 >= (2/c)^2 data-byte window.
func ByCoverage(coverage float64, size uint64) Layout {
	d := uint32(math.Ceil(2.0 / coverage))
	return layoutFor(normalize(d, size), size)
}

func layoutFor(dim uint32, size uint64) Layout {
	blockArea := uint64(dim) * uint64(dim)
	n := size / blockArea
	tail := size - n*blockArea
	var tailDim uint32
	if tail > 0 {
		tailDim = smallestDim(tail)
	}
	return Layout{Dim: dim, FullBlockCount: n, TailDim: tailDim}
}
