/*
DESCRIPTION
  lut.go precomputes the code-length LUT of base spec §4.D: for every
  (quant_idx, |coefficient|) pair in a bounded range, the ue code a slice
  writer would emit for the quantized magnitude. The trailing sign bit is
  not folded into the stored pattern (the writer appends it separately,
  see slicewriter.go) but is counted by costOf for rate purposes.

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

import (
	"github.com/ausocean/vc2enc/bits"
	"github.com/ausocean/vc2enc/tables"
)

// CoefLUTTab is the exclusive upper bound on the magnitudes the LUT covers
// (base spec §4.D, COEF_LUT_TAB).
const CoefLUTTab = 2048

// lutEntry is the ue code (length, pattern) of one quantized magnitude.
// ueLen == 1 (with uePattern == 1) is the only way the quantized value is
// zero, since EncodeUE(0) is the unique length-1 code; every other
// magnitude needs a trailing sign bit, counted in costOf but not present
// in uePattern.
type lutEntry struct {
	ueLen     uint8
	uePattern uint32
}

// nonzero reports whether the quantized magnitude this entry codes for is
// nonzero, and therefore needs a sign bit.
func (e lutEntry) nonzero() bool { return e.ueLen > 1 }

// costOf returns the total bit cost of emitting e: its ue code plus a
// sign bit when nonzero (base spec §4.D: "If nbits > 1, ... nbits += 1").
func (e lutEntry) costOf() int {
	if e.nonzero() {
		return int(e.ueLen) + 1
	}
	return int(e.ueLen)
}

// codeLUT is one quant_idx's row of entries, indexed by |coefficient|.
type codeLUT [CoefLUTTab]lutEntry

// buildLUT computes the full Q_ceil x CoefLUTTab table described in base
// spec §4.D. It is built once at encoder open and treated as immutable for
// the lifetime of the encoder (base spec §5 "Shared resources").
func buildLUT() []codeLUT {
	lut := make([]codeLUT, tables.MaxQuantIndex)
	for q := 0; q < tables.MaxQuantIndex; q++ {
		scale := tables.QScale[q]
		for c := 0; c < CoefLUTTab; c++ {
			cq := (uint32(c) << 2) / uint32(scale)
			nbits, pattern := bits.EncodeUE(cq)
			lut[q][c] = lutEntry{ueLen: uint8(nbits), uePattern: pattern}
		}
	}
	return lut
}

// quantize applies the slice quantizer to a coefficient's magnitude: the
// shared (c<<2)/qscale[q] division used identically by the LUT builder,
// the cost function and the slow (non-LUT) path, base spec §4.D/§4.E.
func quantize(mag uint32, q int) uint32 {
	return (mag << 2) / uint32(tables.QScale[q])
}

// codeFor returns the ue code for a coefficient of the given magnitude and
// effective quantizer, using the LUT for magnitudes below CoefLUTTab and
// falling back to the slow path above it (base spec §4.E, §8 "Coefficient
// magnitudes >= 2048 exercise the non-LUT ue path").
func codeFor(lut []codeLUT, mag uint32, qe int) lutEntry {
	if mag < CoefLUTTab {
		return lut[qe][mag]
	}
	cq := quantize(mag, qe)
	n, p := bits.EncodeUE(cq)
	return lutEntry{ueLen: uint8(n), uePattern: p}
}
