package bits

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPutBitsMSBFirst(t *testing.T) {
	w := NewWriter(nil)
	w.PutBits(4, 0xA) // 1010
	w.PutBits(4, 0x5) // 0101
	got := w.Bytes()
	want := []byte{0xA5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("PutBits mismatch (-want +got):\n%s", diff)
	}
}

func TestPutBitsSpanningBytes(t *testing.T) {
	w := NewWriter(nil)
	w.PutBits(12, 0xABC)
	w.AlignToByte()
	got := w.Bytes()
	want := []byte{0xAB, 0xC0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("spanning bits mismatch (-want +got):\n%s", diff)
	}
}

func TestPutBits32(t *testing.T) {
	w := NewWriter(nil)
	w.PutBits32(0x01020304)
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if diff := cmp.Diff(want, w.Bytes()); diff != "" {
		t.Fatalf("PutBits32 mismatch (-want +got):\n%s", diff)
	}
}

func TestOverwriteUint32BE(t *testing.T) {
	w := NewWriter(nil)
	w.PutString("BBCD")
	w.PutBits32(0)
	w.OverwriteUint32BE(4, 0xdeadbeef)
	want := []byte{'B', 'B', 'C', 'D', 0xde, 0xad, 0xbe, 0xef}
	if diff := cmp.Diff(want, w.Bytes()); diff != "" {
		t.Fatalf("OverwriteUint32BE mismatch (-want +got):\n%s", diff)
	}
}

// TestUECodeTable checks the ue code for the first several non-negative
// values against the known VC-2 table (base spec §4.A).
func TestUECodeTable(t *testing.T) {
	cases := []struct {
		v     uint32
		nbits int
		p     uint32
	}{
		{0, 1, 0b1},
		{1, 3, 0b001},
		{2, 3, 0b011},
		{3, 5, 0b00001},
		{4, 5, 0b00011},
		{5, 5, 0b01001},
		{6, 5, 0b01011},
	}
	for _, c := range cases {
		n, p := EncodeUE(c.v)
		if n != c.nbits || p != c.p {
			t.Errorf("EncodeUE(%d) = (%d, %#b), want (%d, %#b)", c.v, n, p, c.nbits, c.p)
		}
		if got := CountUE(c.v); got != c.nbits {
			t.Errorf("CountUE(%d) = %d, want %d", c.v, got, c.nbits)
		}
	}
}

func TestPutUEWritesCountedBits(t *testing.T) {
	for v := uint32(0); v < 4096; v++ {
		w := NewWriter(nil)
		w.PutUE(v)
		if w.BitLen() != CountUE(v) {
			t.Fatalf("PutUE(%d): wrote %d bits, CountUE says %d", v, w.BitLen(), CountUE(v))
		}
	}
}

func TestAlignToByteIdempotent(t *testing.T) {
	w := NewWriter(nil)
	w.PutBits(3, 0x5)
	w.AlignToByte()
	n1 := w.BitLen()
	w.AlignToByte()
	if w.BitLen() != n1 {
		t.Fatalf("second AlignToByte changed bit length: %d -> %d", n1, w.BitLen())
	}
}
