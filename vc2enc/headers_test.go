/*
DESCRIPTION
  headers_test.go checks the parse_info forward/backward offset chain and
  the base_video_format table lookup.

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
	"encoding/binary"
	"testing"

	"github.com/ausocean/vc2enc/bits"
)

func TestParseInfoOffsetChain(t *testing.T) {
	w := bits.NewWriter(nil)
	var po parseOffsets

	po.putParseInfo(w, pcSeqHeader)

	w.PadBytes(10, 0xAA) // stand-in payload between parse_infos.

	po.putParseInfo(w, pcPictureHQ)

	w.PadBytes(20, 0xBB)

	po.putParseInfo(w, pcEndSeq)

	buf := w.Bytes()

	// First parse_info's next_offset should equal the distance to the second.
	firstNext := binary.BigEndian.Uint32(buf[5:9])
	secondPos := findNextBBCD(t, buf, 1)
	if int(firstNext) != secondPos {
		t.Errorf("first next_offset = %d, want %d", firstNext, secondPos)
	}

	secondNext := binary.BigEndian.Uint32(buf[secondPos+5 : secondPos+9])
	thirdPos := findNextBBCD(t, buf, secondPos+1)
	if int(secondNext) != thirdPos-secondPos {
		t.Errorf("second next_offset = %d, want %d", secondNext, thirdPos-secondPos)
	}

	secondPrev := binary.BigEndian.Uint32(buf[secondPos+9 : secondPos+13])
	if int(secondPrev) != secondPos {
		t.Errorf("second prev_offset = %d, want %d", secondPrev, secondPos)
	}

	// Last record's next_offset is left at the zero placeholder.
	lastNext := binary.BigEndian.Uint32(buf[thirdPos+5 : thirdPos+9])
	if lastNext != 0 {
		t.Errorf("final next_offset = %d, want 0", lastNext)
	}
}

func findNextBBCD(t *testing.T, buf []byte, from int) int {
	t.Helper()
	for i := from; i+4 <= len(buf); i++ {
		if string(buf[i:i+4]) == "BBCD" {
			return i
		}
	}
	t.Fatalf("no BBCD marker found from offset %d", from)
	return -1
}

func TestMatchBaseVideoFormat(t *testing.T) {
	c := &Config{
		Width: 1920, Height: 1080, PixFormat: YUV422P,
		TimeBaseNum: 1, TimeBaseDen: 25,
	}
	idx, ok := matchBaseVideoFormat(c)
	if !ok || idx != 9 {
		t.Errorf("matchBaseVideoFormat() = (%d,%v), want (9,true)", idx, ok)
	}

	c.Width = 1921
	if _, ok := matchBaseVideoFormat(c); ok {
		t.Error("matchBaseVideoFormat() matched an unlisted geometry")
	}
}
