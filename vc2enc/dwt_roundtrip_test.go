/*
DESCRIPTION
  dwt_roundtrip_test.go checks the DWT round-trip invariant of base spec
  §8: composing the forward transform with its lifting inverse recovers
  the original samples exactly. The decoder side is out of scope for this
  module (base spec §1), so the inverse used here is a test-local helper,
  not production code; it exists only to validate the forward kernel's
  bit-exact invertibility, the same property a conformant decoder relies on.

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
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/ausocean/vc2enc/dwt"
)

// inverseHaarLevel undoes one level of haarLevel (dwt/kernels.go), in
// place, over the same 2*width x 2*height block.
func inverseHaarLevel(buf []int32, base, stride, hstride, width, height int, shift uint) {
	sw, sh := width<<1, height<<1

	for x := 0; x < sw; x++ {
		col := base + x*hstride
		for y := 0; y < sh; y += 2 {
			i0 := col + y*stride
			i1 := col + (y+1)*stride
			l := buf[i0]
			h := buf[i1]
			a := l - ((h + 1) >> 1)
			b := h + a
			buf[i0] = a
			buf[i1] = b
		}
	}

	for y := 0; y < sh; y++ {
		row := base + y*stride
		for x := 0; x < sw; x += 2 {
			i0 := row + x*hstride
			i1 := row + (x+1)*hstride
			l := buf[i0]
			h := buf[i1]
			a := l - ((h + 1) >> 1)
			b := h + a
			buf[i0] = a >> shift
			buf[i1] = b >> shift
		}
	}
}

func TestHaarRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name  string
		t     dwt.Type
		shift uint
	}{
		{"haar_noshift", dwt.Haar, 0},
		{"haar_shift", dwt.HaarShift, 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			width, height := 16, 12
			stride := width
			orig := make([]int32, stride*height)
			r := rand.New(rand.NewSource(7))
			for i := range orig {
				orig[i] = int32(r.Intn(512) - 256)
			}

			work := append([]int32(nil), orig...)
			dwt.Level(tt.t, work, 0, stride, 1, width/2, height/2)

			inverseHaarLevel(work, 0, stride, 1, width/2, height/2, tt.shift)

			origF := make([]float64, len(orig))
			gotF := make([]float64, len(work))
			for i := range orig {
				origF[i] = float64(orig[i])
				gotF[i] = float64(work[i])
			}
			if dist := floats.Distance(origF, gotF, 2); dist != 0 {
				t.Errorf("%s round trip: L2 distance = %v, want 0 (bit-exact)", tt.name, dist)
			}
		})
	}
}
