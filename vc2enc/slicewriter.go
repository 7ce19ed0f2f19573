/*
DESCRIPTION
  slicewriter.go emits one HQ slice's bytes: prefix padding, quant index,
  and the three plane payloads with size_scaler-aligned padding (base spec
  §4.G).

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

import "github.com/ausocean/vc2enc/bits"

// writeSlice emits slice sl into w, which must already be positioned at
// the slice's byte offset. It writes exactly sl.Bytes bytes (base spec
// §4.G "Constraint").
func (pic *Picture) writeSlice(w *bits.Writer, lut []codeLUT, sl *Slice) {
	start := w.Len()

	w.PadBytes(pic.PrefixBytes, 0)
	w.PutBits(8, uint32(sl.QuantIdx))

	for pi, p := range pic.Planes {
		lenPos := w.Len()
		w.PadBytes(1, 0) // placeholder length byte.

		writePlaneCoefficients(w, p, lut, pic.QM, sl.QuantIdx, sl.SX, sl.SY)
		w.AlignToByte()

		blen := w.Len() - lenPos - 1
		padGranules := (blen + pic.SizeScaler - 1) / pic.SizeScaler
		if pi == len(pic.Planes)-1 {
			// Absorb any slack so the slice exactly fills its allocation
			// (base spec §4.G step d).
			wantTotal := start + sl.Bytes
			remaining := wantTotal - w.Len()
			if remaining > 0 {
				extraGranules := (blen + remaining + pic.SizeScaler - 1) / pic.SizeScaler
				if extraGranules > padGranules {
					padGranules = extraGranules
				}
			}
		}
		w.OverwriteByte(lenPos, byte(padGranules))

		padBytes := padGranules*pic.SizeScaler - blen
		w.PadBytes(padBytes, 0xFF)
	}
}

// writePlaneCoefficients emits every coefficient of plane p's slice
// rectangle, LL first at the deepest level, then HL/LH/HH at every level
// from coarsest to finest, each entry as a ue magnitude code plus a
// trailing sign bit when nonzero (base spec §4.G step b).
func writePlaneCoefficients(w *bits.Writer, p *Plane, lut []codeLUT, qm [5][4]uint8, q, sx, sy int) {
	for l := p.Depth - 1; l >= 0; l-- {
		x0, x1, y0, y1 := p.subbandRect(l, sx, sy)

		if l == p.Depth-1 {
			qe := clampQuant(q - int(qm[l][0]))
			for j := y0; j < y1; j++ {
				for i := x0; i < x1; i++ {
					putCoefficient(w, lut, p.at(l, 0, i, j, true), qe)
				}
			}
		}
		for _, o := range []int{orientHL, orientLH, orientHH} {
			qe := clampQuant(q - int(qm[l][o+1]))
			for j := y0; j < y1; j++ {
				for i := x0; i < x1; i++ {
					putCoefficient(w, lut, p.at(l, o, i, j, false), qe)
				}
			}
		}
	}
}

// putCoefficient writes one coefficient's ue magnitude (LUT fast path or
// slow path above CoefLUTTab) followed by its sign bit when nonzero.
func putCoefficient(w *bits.Writer, lut []codeLUT, c int32, qe int) {
	mag := uint32(c)
	neg := c < 0
	if neg {
		mag = uint32(-c)
	}
	e := codeFor(lut, mag, qe)
	w.PutBits(int(e.ueLen), e.uePattern)
	if e.nonzero() {
		w.PutBit(neg)
	}
}
