/*
DESCRIPTION
  plane.go defines the per-plane coefficient buffer and sub-band/slice
  addressing geometry of base spec §3 ("Coefficient buffer", "SubBand
  descriptor", "Slice").

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vc2enc

import "github.com/ausocean/vc2enc/dwt"

// Orientation indices of the three high-pass sub-bands; the matching
// tables.QMatrix column is the index plus one (column 0 is LL). HL is the
// horizontally-high/vertically-low sub-band, LH the reverse; this
// horizontal-first/vertical-second labeling is an internal convention (see
// DESIGN.md) since the base spec does not pin one down, only that it be
// applied consistently.
const (
	orientHL = 0
	orientLH = 1
	orientHH = 2
)

// Plane is one coefficient buffer (luma or a chroma plane) plus the
// geometry needed to address its sub-bands and slices.
type Plane struct {
	Width, Height int // padded to a multiple of 2^depth and of the slice grid.
	Stride        int // coefficient row stride, >= Width, kept 32-element aligned.
	SliceW, SliceH int
	NumX, NumY    int
	Depth         int
	Wavelet       dwt.Type

	Coef   []int32
	Driver *dwt.Driver
}

// NewPlane allocates a coefficient buffer sized for width x height samples
// (already padded by the caller to satisfy base spec §3's slice-rectangle
// non-empty invariant) and wires up its incremental DWT driver.
func NewPlane(wavelet dwt.Type, width, height, sliceW, sliceH, depth int) *Plane {
	stride := align32(width)
	p := &Plane{
		Width: width, Height: height, Stride: stride,
		SliceW: sliceW, SliceH: sliceH,
		NumX: width / sliceW, NumY: height / sliceH,
		Depth: depth, Wavelet: wavelet,
		Coef: make([]int32, stride*height),
	}
	p.Driver = dwt.NewDriver(wavelet, p.Coef, 0, stride, width, height, depth)
	return p
}

func align32(v int) int { return (v + 31) / 32 * 32 }

// subbandRect returns the [x0,x1) x [y0,y1) rectangle, in sub-band-local
// coordinates, that slice (sx,sy) occupies at level l (base spec §3
// "SubBand descriptor"). l indexes from 0 (finest) as elsewhere in this
// package.
func (p *Plane) subbandRect(l, sx, sy int) (x0, x1, y0, y1 int) {
	w := p.Width >> uint(l+1)
	h := p.Height >> uint(l+1)
	x0, x1 = w*sx/p.NumX, w*(sx+1)/p.NumX
	y0, y1 = h*sy/p.NumY, h*(sy+1)/p.NumY
	return
}

// orientOffset returns the (dx,dy) embedded offset within a level's
// 2w x 2h synthesis block for one of the three always-present detail
// orientations.
func orientOffset(o int) (dx, dy int) {
	switch o {
	case orientHL:
		return 1, 0
	case orientLH:
		return 0, 1
	default: // orientHH
		return 1, 1
	}
}

// at returns the coefficient at sub-band-local (i,j) for level l,
// orientation o (or the LL band when ll is true, valid only at the
// deepest level).
func (p *Plane) at(l, o, i, j int, ll bool) int32 {
	return p.Coef[p.index(l, o, i, j, ll)]
}

func (p *Plane) set(l, o, i, j int, ll bool, v int32) {
	p.Coef[p.index(l, o, i, j, ll)] = v
}

func (p *Plane) index(l, o, i, j int, ll bool) int {
	stride := p.Stride << uint(l)
	hstride := 1 << uint(l)
	dx, dy := 0, 0
	if !ll {
		dx, dy = orientOffset(o)
	}
	return (2*j+dy)*stride + (2*i+dx)*hstride
}
