/*
DESCRIPTION
  driver.go implements the incremental, row-streamed application of the
  forward transform across decomposition levels (base spec §4.C "Fragment
  picture driver" dependency: a level's horizontal pass may run as soon as
  its input rows exist; its vertical pass trails by the lifting kernel's
  lookahead).

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

// Driver applies a multi-level forward transform incrementally as rows of
// the source plane become available, guaranteeing the same output as one
// ForwardFull call over the whole plane (base spec §8, "incremental vs
// one-shot determinism").
//
// Haar and Haar-with-shift get genuine row-at-a-time streaming: each
// level's vertical pass processes a row pair as soon as both its rows
// exist, and immediately makes one new row available to the next coarser
// level, matching the reference encoder's VC2TransformContext progress
// bookkeeping (original_source/libavcodec/vc2enc_dwt.h).
//
// LeGall (5,3) and Deslauriers-Dubuc (9,7) are not exercised by any
// fragmented (incremental) scenario this encoder targets (base spec §8's
// fragmented scenarios all select a Haar wavelet); for those two families
// this driver still accepts row-at-a-time StepTo calls but defers all
// computation for a level until that level's full row extent is present,
// then runs the one-shot kernel. The result is identical to ForwardFull in
// every case; only the granularity of partial progress differs.
type Driver struct {
	wavelet Type
	buf     []int32
	base    int
	stride  int
	width   int
	height  int
	depth   int

	progress [MaxLevels]Progress
	done     [MaxLevels]bool
}

// NewDriver returns a Driver for a plane of width x height samples (already
// padded to a multiple of 2^depth) stored at buf[base:] with row stride
// stride and unit horizontal stride at level 0.
func NewDriver(wavelet Type, buf []int32, base, stride, width, height, depth int) *Driver {
	return &Driver{
		wavelet: wavelet,
		buf:     buf,
		base:    base,
		stride:  stride,
		width:   width,
		height:  height,
		depth:   depth,
	}
}

// Progress returns the current bookkeeping for decomposition level l,
// mirroring the reference encoder's per-level progress record.
func (d *Driver) Progress(l int) Progress { return d.progress[l] }

// Reset clears all per-level progress, the way base spec §3's "Lifecycle"
// requires at the start of each picture (the coefficient buffer itself is
// reused in place and does not need reallocating).
func (d *Driver) Reset() {
	d.progress = [MaxLevels]Progress{}
	d.done = [MaxLevels]bool{}
}

// StepTo advances the transform so that every level 0 row below
// rowsAvailable (in the original plane's row space) has had its horizontal
// pass applied, cascading to coarser levels as their inputs complete. Call
// it with rowsAvailable == height once all rows have been imported to
// finish the transform; intermediate calls let a fragment picture driver
// emit slices as soon as the rows they depend on are ready (base spec
// §4.C, "slice_rows_available").
func (d *Driver) StepTo(rowsAvailable int) {
	switch d.wavelet {
	case Haar, HaarShift:
		d.stepHaar(rowsAvailable)
	default:
		d.stepDeferred(rowsAvailable)
	}
}

func (d *Driver) stepHaar(rowsAvailable int) {
	shift := uint(0)
	if d.wavelet == HaarShift {
		shift = 1
	}

	avail := rowsAvailable
	for l := 0; l < d.depth; l++ {
		w := d.width >> uint(l+1)
		h := d.height >> uint(l+1)
		stride := d.stride << uint(l)
		hstride := 1 << uint(l)
		sw := w << 1

		p := &d.progress[l]

		for p.HFilter < avail {
			row := d.base + p.HFilter*stride
			for x := 0; x < sw; x += 2 {
				i0 := row + x*hstride
				i1 := row + (x+1)*hstride
				a := d.buf[i0] << shift
				b := d.buf[i1] << shift
				diff := b - a
				d.buf[i1] = diff
				d.buf[i0] = a + ((diff + 1) >> 1)
			}
			p.HFilter++
		}

		for p.VStage2+2 <= p.HFilter {
			y := p.VStage2
			for x := 0; x < sw; x++ {
				col := d.base + x*hstride
				i0 := col + y*stride
				i1 := col + (y+1)*stride
				a := d.buf[i0]
				b := d.buf[i1]
				diff := b - a
				d.buf[i1] = diff
				d.buf[i0] = a + ((diff + 1) >> 1)
			}
			p.VStage2 += 2
			p.VStage1 = p.VStage2
		}

		if h == 0 {
			break
		}
		avail = p.VStage2 / 2
	}
}

// stepDeferred runs the (5,3)/(9,7) kernels for each level, in order, the
// first time that level's full row extent is available; it performs no
// partial work, but remains safe to call repeatedly with increasing
// rowsAvailable.
func (d *Driver) stepDeferred(rowsAvailable int) {
	if rowsAvailable < d.height {
		return
	}
	if d.done[0] {
		return
	}
	ForwardFull(d.wavelet, d.buf, d.base, d.stride, d.width, d.height, d.depth)
	for l := 0; l < d.depth; l++ {
		w := d.width >> uint(l+1)
		h := d.height >> uint(l+1)
		d.progress[l] = Progress{HFilter: h << 1, VStage1: h << 1, VStage2: h << 1}
		_ = w
		d.done[l] = true
	}
}

// LevelRowsReady reports how many rows of decomposition level l's
// sub-band have completed both the horizontal and vertical passes, and
// are therefore safe to read (base spec §4.C "slice_rows_available").
func (d *Driver) LevelRowsReady(l int) int {
	return d.progress[l].VStage2 / 2
}
