/*
DESCRIPTION
  lut_test.go checks that the precomputed code-length LUT agrees with the
  slow (non-LUT) ue path across the full magnitude range, and that
  codeFor's behaviour above CoefLUTTab matches quantize+EncodeUE directly.

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
	"testing"

	"github.com/ausocean/vc2enc/bits"
	"github.com/ausocean/vc2enc/tables"
)

func TestLUTMatchesSlowPath(t *testing.T) {
	lut := buildLUT()
	for _, q := range []int{0, 1, 57, 114, tables.MaxQuantIndex - 1} {
		for c := uint32(0); c < CoefLUTTab; c++ {
			want := quantize(c, q)
			wantLen, wantPattern := bits.EncodeUE(want)

			got := codeFor(lut, c, q)
			if int(got.ueLen) != wantLen || got.uePattern != wantPattern {
				t.Fatalf("codeFor(lut, %d, %d) = {%d,%d}, want {%d,%d}",
					c, q, got.ueLen, got.uePattern, wantLen, wantPattern)
			}
		}
	}
}

func TestCodeForAboveLUTRange(t *testing.T) {
	lut := buildLUT()
	q := 40
	for _, mag := range []uint32{CoefLUTTab, CoefLUTTab + 1, 1 << 20} {
		want := quantize(mag, q)
		wantLen, wantPattern := bits.EncodeUE(want)
		got := codeFor(lut, mag, q)
		if int(got.ueLen) != wantLen || got.uePattern != wantPattern {
			t.Errorf("codeFor(lut, %d, %d) = {%d,%d}, want {%d,%d}", mag, q, got.ueLen, got.uePattern, wantLen, wantPattern)
		}
	}
}

func TestLutEntryCostOf(t *testing.T) {
	zero := lutEntry{ueLen: 1, uePattern: 1}
	if zero.nonzero() {
		t.Error("zero entry reported nonzero")
	}
	if got := zero.costOf(); got != 1 {
		t.Errorf("costOf(zero) = %d, want 1", got)
	}

	nz := lutEntry{ueLen: 3, uePattern: 0b101}
	if !nz.nonzero() {
		t.Error("nonzero entry reported zero")
	}
	if got := nz.costOf(); got != 4 {
		t.Errorf("costOf(nonzero) = %d, want 4 (ue bits + sign bit)", got)
	}
}
