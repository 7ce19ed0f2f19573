/*
DESCRIPTION
  ratecontrol.go implements the per-slice quantizer bisection search and
  the two-pass rate allocator of base spec §4.E/§4.F.

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
	"sort"

	"github.com/ausocean/vc2enc/tables"
)

// topK is the bounded redistribution pool size of base spec §4.F/§9 ("Two
// pass, bounded top-K redistribution").
const topK = 150

// rateControl runs the bisection search of base spec §4.E for one slice,
// setting its QuantIdx and Bytes so that Bytes*8 never exceeds ceilBits
// (unless the coarsest quantizer still overflows) and, where possible, is
// at least floorBits.
func (pic *Picture) rateControl(lut []codeLUT, sl *Slice, ceilBits, floorBits, q0 int) {
	q := q0
	step := tables.MaxQuantIndex / 4
	if step < 1 {
		step = 1
	}
	maxStep := (tables.MaxQuantIndex - 1) / 2

	var prevQ [2]int = [2]int{-1, -1}
	bitsAt := pic.sliceCost(lut, sl, q) * 8

	for bitsAt > ceilBits || bitsAt < floorBits {
		if q == prevQ[0] {
			// Oscillation: pick the larger (more conservative, smaller
			// byte count) of the two most recent candidates.
			a, b := prevQ[0], prevQ[1]
			if a > b {
				a, b = b, a
			}
			q = b
			bitsAt = pic.sliceCost(lut, sl, q) * 8
			break
		}
		prevQ[0], prevQ[1] = prevQ[1], q

		if bitsAt > ceilBits {
			q += step
		} else {
			q -= step
		}
		if q < 0 {
			q = 0
		}
		if q > tables.MaxQuantIndex-1 {
			q = tables.MaxQuantIndex - 1
		}

		bitsAt = pic.sliceCost(lut, sl, q) * 8

		step /= 2
		if step < 1 {
			step = 1
		}
		if step > maxStep {
			step = maxStep
		}
		if q == 0 && bitsAt < floorBits {
			break // finest quantizer still under the floor; no lower quant_idx to try.
		}
		if q == tables.MaxQuantIndex-1 {
			break // coarsest quantizer; accepted even if still over budget (base spec §7 BudgetExhausted).
		}
	}

	sl.QuantIdx = q
	sl.Bytes = pic.sliceCost(lut, sl, q)
}

// Allocate runs the two-pass rate allocator of base spec §4.F across every
// slice named by idxs (all slices for a non-fragmented picture, or the
// newly-decodable rows' slices in fragmented mode). ex runs the per-slice
// bisection in parallel (base spec §5).
func (pic *Picture) Allocate(ex *Executor, lut []codeLUT, idxs []int, ceilBytes, floorBytes, frameMaxBytes int) (bytesLeft int, avgQuant float64) {
	ceilBits, floorBits := ceilBytes*8, floorBytes*8
	q0 := tables.MaxQuantIndex / 2

	ex.ForEach(len(idxs), func(k int) {
		pic.rateControl(lut, &pic.Slices[idxs[k]], ceilBits, floorBits, q0)
	})

	total := 0
	for _, i := range idxs {
		total += pic.Slices[i].Bytes
	}
	bytesLeft = frameMaxBytes - total

	redistribute(pic, lut, idxs, &bytesLeft)

	sumQ := 0
	for _, i := range idxs {
		sumQ += pic.Slices[i].QuantIdx
	}
	if len(idxs) > 0 {
		avgQuant = float64(sumQ) / float64(len(idxs))
	}
	return bytesLeft, avgQuant
}

// redistribute implements pass 2: repeatedly hand leftover bytes to the
// largest slices by decrementing their quantizer one step, stopping when a
// full pass commits nothing (base spec §4.F).
func redistribute(pic *Picture, lut []codeLUT, idxs []int, bytesLeft *int) {
	k := topK
	if k > len(idxs) {
		k = len(idxs)
	}

	for *bytesLeft > 0 {
		ranked := append([]int(nil), idxs...)
		sort.Slice(ranked, func(a, b int) bool {
			return pic.Slices[ranked[a]].Bytes > pic.Slices[ranked[b]].Bytes
		})
		ranked = ranked[:k]

		committed := false
		for _, i := range ranked {
			sl := &pic.Slices[i]
			if sl.QuantIdx == 0 {
				continue
			}
			oldBytes := sl.Bytes
			newBytes := pic.sliceCost(lut, sl, sl.QuantIdx-1)
			delta := newBytes - oldBytes
			if *bytesLeft-delta < 0 {
				continue
			}
			sl.QuantIdx--
			sl.Bytes = newBytes
			*bytesLeft -= delta
			committed = true
		}
		if !committed {
			break
		}
	}
}
