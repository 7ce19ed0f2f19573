/*
DESCRIPTION
  headers.go emits the VC-2 out-of-band framing: parse_info, sequence_
  header, picture_header, transform_parameters and fragment_header (base
  spec §4.H), plus the base_video_fmts table lookup carried over from the
  reference encoder (SPEC_FULL.md Supplemented Feature 1).

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
	"github.com/ausocean/vc2enc/dwt"
	"github.com/ausocean/vc2enc/tables"
)

// parse_code values used by this encoder (base spec §6). pcAux is the AUX
// data unit code named in base spec §4.I's fragmented-mode framing; this
// encoder never emits one (it carries no auxiliary payload to signal), so
// the constant is kept only as the documented slot in the parse_code space
// a caller's own AUX inserter would use ahead of the first fragment_header.
const (
	pcSeqHeader  = 0x00
	pcEndSeq     = 0x10
	pcAux        = 0x20
	pcPictureHQ  = 0xE8
	pcFragmentHQ = 0xEC
)

const (
	majorFrames = 2
	majorFrags  = 3
	profileHQ   = 3
)

// parseOffsets tracks the VC-2 parse_info forward/backward offset chain
// (base spec §9 "Parse-offset backfill"): the position of the last
// emitted parse_info and the value it needs backfilled once the next one
// is written.
type parseOffsets struct {
	lastPos    int // byte offset of the last parse_info's "BBCD" in w.
	havePrev   bool
	prevOffset uint32 // not read; putParseInfo derives prev_offset from lastPos.
}

// reset clears the chain at the start of a new picture sequence (base
// spec §3 "Lifecycle").
func (p *parseOffsets) reset() { *p = parseOffsets{} }

// putParseInfo writes a parse_info record at the writer's current
// (byte-aligned) position, backfilling the previous record's next_offset
// field now that its distance is known.
func (p *parseOffsets) putParseInfo(w *bits.Writer, parseCode byte) {
	pos := w.Len()
	if p.havePrev {
		dist := uint32(pos - p.lastPos)
		w.OverwriteUint32BE(p.lastPos+5, dist)
	}
	w.PutString("BBCD")
	w.PutBits(8, uint32(parseCode))
	w.PutBits32(0) // next_offset placeholder, backfilled by the following parse_info (or left 0 for END_SEQ).
	prevDist := uint32(0)
	if p.havePrev {
		prevDist = uint32(pos - p.lastPos)
	}
	w.PutBits32(prevDist)
	p.havePrev = true
	p.lastPos = pos
}

// baseVideoFormat is one row of the VC-2 Annex base-format table
// (SPEC_FULL.md Supplemented Feature 1), enough fields to match a picture's
// geometry/frame-rate/interlace combination and skip explicit source_params
// overrides when it does.
type baseVideoFormat struct {
	index                int
	width, height        int
	interlaced           bool
	frameRateNum, frameRateDen int
	chromaX, chromaY     uint
}

// baseVideoFmts reproduces the subset of the reference encoder's
// base_video_fmts[] relevant to the formats this encoder targets
// (original_source/libavcodec/vc2enc.c).
var baseVideoFmts = []baseVideoFormat{
	{index: 1, width: 176, height: 120, frameRateNum: 15000, frameRateDen: 1001, chromaX: 1, chromaY: 1},
	{index: 9, width: 1920, height: 1080, frameRateNum: 25, frameRateDen: 1, chromaX: 1, chromaY: 0},
	{index: 10, width: 1920, height: 1080, interlaced: true, frameRateNum: 30000, frameRateDen: 1001, chromaX: 1, chromaY: 0},
	{index: 16, width: 3840, height: 2160, frameRateNum: 60, frameRateDen: 1, chromaX: 1, chromaY: 0},
}

// matchBaseVideoFormat returns the base_video_format index matching cfg's
// geometry exactly, and whether a match was found. No match means the
// sequence_header must fall back to explicit source_parameters overrides
// (base spec §7, "downgraded to non-strict compliance mode").
func matchBaseVideoFormat(cfg *Config) (index int, ok bool) {
	cx, cy := cfg.chromaShift()
	for _, f := range baseVideoFmts {
		if f.width == cfg.Width && f.height == cfg.Height && f.interlaced == cfg.Interlaced &&
			f.chromaX == cx && f.chromaY == cy &&
			f.frameRateNum == cfg.TimeBaseDen && f.frameRateDen == cfg.TimeBaseNum {
			return f.index, true
		}
	}
	return 0, false
}

// putSequenceHeader emits parse_params, the base_video_format index (or a
// fallback plus full source_parameters overrides) and picture_coding_mode
// (base spec §4.H).
func putSequenceHeader(w *bits.Writer, cfg *Config, fragmented bool) {
	major := majorFrames
	if fragmented {
		major = majorFrags
	}
	w.PutBits(8, uint32(major))
	w.PutBits(8, 0) // minor.
	w.PutBits(8, profileHQ)
	w.PutUE(uint32(levelFor(cfg)))

	idx, strict := matchBaseVideoFormat(cfg)
	w.PutUE(uint32(idx))

	// Eight custom_* override flag bits; all 0 when strict, all 1
	// otherwise (base spec §4.H, SPEC_FULL.md Supplemented Feature 1).
	for i := 0; i < 8; i++ {
		w.PutBit(!strict)
	}
	if !strict {
		w.PutUE(uint32(cfg.Width))
		w.PutUE(uint32(cfg.Height))
		cx, cy := cfg.chromaShift()
		w.PutUE(uint32(cx))
		w.PutUE(uint32(cy))
		w.PutBit(cfg.Interlaced)
		w.PutUE(uint32(cfg.TimeBaseDen))
		w.PutUE(uint32(cfg.TimeBaseNum))
		w.PutUE(1) // aspect_ratio_index: unspecified/custom placeholder.
		w.PutUE(0) // clean_area: none signalled.
		w.PutUE(0) // signal_range_index: default.
		w.PutUE(0) // color_spec_index: default.
	}

	pictureCodingMode := 0
	if cfg.Interlaced {
		pictureCodingMode = 1
	}
	w.PutUE(uint32(pictureCodingMode))
}

func levelFor(cfg *Config) int {
	if cfg.BitDepth > 8 {
		return 3
	}
	return 1
}

// putPictureHeader emits the picture_header (base spec §4.H): a single
// 32-bit picture number.
func putPictureHeader(w *bits.Writer, pictureNumber uint32) {
	w.PutBits32(pictureNumber)
}

// putFragmentHeader emits a fragment_header (base spec §4.H, major>=3
// only). sliceCount==0 signals the initial fragment carrying only
// transform_parameters.
func putFragmentHeader(w *bits.Writer, pictureNumber uint32, dataLength, sliceCount, xOffset, yOffset uint16) {
	w.PutBits32(pictureNumber)
	w.PutBits(16, uint32(dataLength))
	w.PutBits(16, uint32(sliceCount))
	if sliceCount > 0 {
		w.PutBits(16, uint32(xOffset))
		w.PutBits(16, uint32(yOffset))
	}
}

// putTransformParameters emits transform_parameters (base spec §4.H):
// wavelet index, depth, slice_parameters and an optional custom quant
// matrix.
func putTransformParameters(w *bits.Writer, cfg *Config, fragmented bool, pic *Picture, qmCustom bool) {
	w.PutUE(uint32(waveletIndex(cfg.Wavelet)))
	w.PutUE(uint32(cfg.WaveletDepth))
	if fragmented {
		w.PutBit(false)
		w.PutBit(false)
	}
	w.PutUE(uint32(pic.NumX))
	w.PutUE(uint32(pic.NumY))
	w.PutUE(uint32(pic.PrefixBytes))
	w.PutUE(uint32(pic.SizeScaler))

	w.PutBit(qmCustom)
	if qmCustom {
		// quant_matrix() (base spec §4.H): the LL value at the coarsest
		// level first, then HL/LH/HH at every level from coarsest to
		// finest (l runs WaveletDepth-1 down to 0 in this codebase's
		// finest-first level indexing, base spec §9).
		w.PutUE(uint32(pic.QM[cfg.WaveletDepth-1][tables.OrientLL]))
		for l := cfg.WaveletDepth - 1; l >= 0; l-- {
			w.PutUE(uint32(pic.QM[l][tables.OrientHL]))
			w.PutUE(uint32(pic.QM[l][tables.OrientLH]))
			w.PutUE(uint32(pic.QM[l][tables.OrientHH]))
		}
	}
}

// waveletIndex maps a dwt.Type to the VC-2 wavelet_index syntax value.
func waveletIndex(t dwt.Type) int {
	switch t {
	case dwt.Deslauriers9_7:
		return 0
	case dwt.LeGall5_3:
		return 1
	case dwt.Haar:
		return 3
	case dwt.HaarShift:
		return 4
	default:
		return 0
	}
}
