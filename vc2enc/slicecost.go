/*
DESCRIPTION
  slicecost.go implements the per-slice bit-cost function of base spec
  §4.E: the exact bit cost of encoding one slice's coefficients at a given
  quantizer index, cached per (slice, quant_idx).

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

// planeBits returns the bit cost of plane p's contribution to slice
// (sx,sy) at effective-quantizer-before-matrix-offset q, using lut for
// magnitudes under CoefLUTTab and the slow ue path above it.
func planeBits(p *Plane, lut []codeLUT, qm [5][4]uint8, q, sx, sy int) int {
	total := 0
	for l := 0; l < p.Depth; l++ {
		orients := []int{orientHL, orientLH, orientHH}
		x0, x1, y0, y1 := p.subbandRect(l, sx, sy)

		if l == p.Depth-1 {
			qe := clampQuant(q - int(qm[l][0]))
			for j := y0; j < y1; j++ {
				for i := x0; i < x1; i++ {
					total += coefBits(lut, p.at(l, 0, i, j, true), qe)
				}
			}
		}
		for _, o := range orients {
			qe := clampQuant(q - int(qm[l][o+1]))
			for j := y0; j < y1; j++ {
				for i := x0; i < x1; i++ {
					total += coefBits(lut, p.at(l, o, i, j, false), qe)
				}
			}
		}
	}
	return total
}

func clampQuant(q int) int {
	if q < 0 {
		return 0
	}
	return q
}

// coefBits returns the bit cost (ue length, plus a sign bit if nonzero) of
// one coefficient at effective quantizer qe.
func coefBits(lut []codeLUT, c int32, qe int) int {
	mag := uint32(c)
	if c < 0 {
		mag = uint32(-c)
	}
	return codeFor(lut, mag, qe).costOf()
}

// sliceCost computes (and caches) the total byte cost of slice sl at
// quant_idx q, across all three planes, per base spec §4.E. The "align to
// the next byte between planes" fix noted as an Open Question in base
// spec §9 is applied here rather than the reference encoder's dead-code
// no-op, and each plane is further rounded up to whole size_scaler
// granules, as writeSlice pads it.
func (pic *Picture) sliceCost(lut []codeLUT, sl *Slice, q int) int {
	if c := sl.Cache[q]; c != 0 {
		return c
	}
	totalBits := 0
	for _, p := range pic.Planes {
		b := planeBits(p, lut, pic.QM, q, sl.SX, sl.SY)
		totalBits += alignUp(alignUp8(b)/8, pic.SizeScaler) * 8
	}
	totalBits += 8*pic.PrefixBytes + 8 + 8*3
	bytes := ssizeRound(totalBits, pic.SizeScaler, pic.PrefixBytes)
	sl.Cache[q] = bytes
	return bytes
}

func alignUp8(b int) int { return (b + 7) &^ 7 }

// ssizeRound implements SSIZE_ROUND(b) from base spec §4.E: align_up(b/8,
// size_scaler) + 4 + prefix_bytes, where b is already a whole number of
// bits (guaranteed by the per-plane byte alignment above).
func ssizeRound(bits, sizeScaler, prefixBytes int) int {
	rawBytes := bits / 8
	granules := alignUp(rawBytes, sizeScaler)
	return granules + 4 + prefixBytes
}

func alignUp(v, align int) int {
	if align <= 0 {
		return v
	}
	return (v + align - 1) / align * align
}
