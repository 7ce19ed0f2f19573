/*
DESCRIPTION
  kernels.go implements the four per-level lifting kernels (base spec
  §4.B), ported formula-for-formula from the reference encoder's
  vc2enc_dwt.c so integer rounding matches a conformant decoder exactly.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dwt

// haarLevel applies the Haar transform (with or without the 1-bit
// precision shift) to the 2*width x 2*height block at buf[base:], first
// horizontally then vertically. Both passes are simple pairwise
// differences; there is no boundary special-casing because width and
// height are always even after padding.
func haarLevel(buf []int32, base, stride, hstride, width, height int, shift uint) {
	sw, sh := width<<1, height<<1

	for y := 0; y < sh; y++ {
		row := base + y*stride
		for x := 0; x < sw; x += 2 {
			i0 := row + x*hstride
			i1 := row + (x+1)*hstride
			a := buf[i0] << shift
			b := buf[i1] << shift
			d := b - a
			buf[i1] = d
			buf[i0] = a + ((d + 1) >> 1)
		}
	}

	for x := 0; x < sw; x++ {
		col := base + x*hstride
		for y := 0; y < sh; y += 2 {
			i0 := col + y*stride
			i1 := col + (y+1)*stride
			a := buf[i0]
			b := buf[i1]
			d := b - a
			buf[i1] = d
			buf[i0] = a + ((d + 1) >> 1)
		}
	}
}

// legall53Level applies the LeGall (5,3) transform, ported from
// vc2_subband_dwt_53 in the reference encoder: a 1-bit precision shift,
// then a 2-tap predict (odd positions) and 2-tap update (even positions)
// pass along rows, then the same pair of passes along columns, with the
// first position and the last two positions of an axis using the mirror-adjusted
// coefficients the reference encoder hardcodes rather than a general
// mirror-extension rule.
func legall53Level(buf []int32, base, stride, hstride, width, height int) {
	sw, sh := width<<1, height<<1

	for y := 0; y < sh; y++ {
		row := base + y*stride
		for x := 0; x < sw; x++ {
			buf[row+x*hstride] <<= 1
		}
	}

	for y := 0; y < sh; y++ {
		row := base + y*stride
		at := func(x int) int32 { return buf[row+x*hstride] }
		set := func(x int, v int32) { buf[row+x*hstride] = v }
		lift53Axis(at, set, width, sw)
	}

	for x := 0; x < sw; x++ {
		col := base + x*hstride
		at := func(y int) int32 { return buf[col+y*stride] }
		set := func(y int, v int32) { buf[col+y*stride] = v }
		lift53Axis(at, set, height, sh)
	}
}

// lift53Axis performs the predict-then-update lifting pass for the (5,3)
// wavelet along one axis of length n (where n is the sub-band dimension
// and synthN == 2*n is the sample count along that axis).
func lift53Axis(at func(int) int32, set func(int, int32), n, synthN int) {
	for x := 0; x < n-1; x++ {
		set(2*x+1, at(2*x+1)-((at(2*x)+at(2*x+2)+1)>>1))
	}
	set(synthN-1, at(synthN-1)-((2*at(synthN-2)+1)>>1))

	set(0, at(0)+((2*at(1)+2)>>2))
	for x := 1; x < n-1; x++ {
		set(2*x, at(2*x)+((at(2*x-1)+at(2*x+1)+2)>>2))
	}
	set(synthN-2, at(synthN-2)+((at(synthN-3)+at(synthN-1)+2)>>2))
}

// dd97Level applies the Deslauriers-Dubuc (9,7) transform, ported from
// vc2_subband_dwt_97: a 1-bit precision shift, then a 4-tap predict and
// 2-tap update pass per axis, with the first two and last three positions
// of each axis using the reference encoder's literal boundary coefficients.
func dd97Level(buf []int32, base, stride, hstride, width, height int) {
	sw, sh := width<<1, height<<1

	for y := 0; y < sh; y++ {
		row := base + y*stride
		for x := 0; x < sw; x++ {
			buf[row+x*hstride] <<= 1
		}
	}

	for y := 0; y < sh; y++ {
		row := base + y*stride
		at := func(x int) int32 { return buf[row+x*hstride] }
		set := func(x int, v int32) { buf[row+x*hstride] = v }
		lift97Axis(at, set, width, sw)
	}

	for x := 0; x < sw; x++ {
		col := base + x*hstride
		at := func(y int) int32 { return buf[col+y*stride] }
		set := func(y int, v int32) { buf[col+y*stride] = v }
		lift97Axis(at, set, height, sh)
	}
}

// lift97Axis performs the predict-then-update lifting pass for the (9,7)
// wavelet along one axis. n must be at least 3 (synthN >= 6) for the
// boundary taps to stay in range; callers are responsible for padding
// sub-bands smaller than that (see Margin).
func lift97Axis(at func(int) int32, set func(int, int32), n, synthN int) {
	set(1, at(1)-((8*at(0)+9*at(2)-at(4)+8)>>4))
	for x := 1; x < n-2; x++ {
		set(2*x+1, at(2*x+1)-((9*at(2*x)+9*at(2*x+2)-at(2*x+4)-at(2*x-2)+8)>>4))
	}
	set(synthN-1, at(synthN-1)-((17*at(synthN-2)-at(synthN-4)+8)>>4))
	set(synthN-3, at(synthN-3)-((8*at(synthN-2)+9*at(synthN-4)-at(synthN-6)+8)>>4))

	set(0, at(0)+((at(1)+at(1)+2)>>2))
	for x := 1; x < n-1; x++ {
		set(2*x, at(2*x)+((at(2*x-1)+at(2*x+1)+2)>>2))
	}
	set(synthN-2, at(synthN-2)+((at(synthN-3)+at(synthN-1)+2)>>2))
}
