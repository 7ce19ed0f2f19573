/*
DESCRIPTION
  encoder.go is the top-level Encoder type: construction, option
  application, and dispatch between the non-fragmented (picture.go) and
  fragmented (fragment.go) picture drivers. Modeled on mts.NewEncoder's
  constructor shape (dst/log/options...).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vc2enc implements the core of a SMPTE VC-2 (Dirac HQ profile)
// video encoder: the discrete wavelet transform, the HQ slice encoder and
// bitstream writer, and the picture/fragment driver that composes a
// conformant VC-2 stream at a target bit rate.
package vc2enc

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"
)

// Encoder holds everything the picture and fragment drivers share: the
// validated Config, the immutable code-length LUT and quant matrix (base
// spec §5 "Shared resources"), the parallel-for executor, the parse-info
// offset chain, and per-picture bookkeeping.
type Encoder struct {
	cfg Config
	log logging.Logger
	ex  *Executor

	lut      []codeLUT
	qmCustom bool

	pic *Picture // reused across frames/fields (base spec §3 "Lifecycle").

	parseOffsets  parseOffsets
	pictureNumber uint32

	frag  fragmentState
	stats statsTracker
}

// NewEncoder validates cfg (after applying opts), precomputes the
// code-length LUT, allocates the picture's coefficient buffers and slice
// grid, and returns a ready-to-use Encoder. log receives structured
// Debug/Info/Warning/Error calls throughout encoding, the same contract
// every stateful type in the teacher library takes at construction.
func NewEncoder(cfg Config, log logging.Logger, opts ...Option) (*Encoder, error) {
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, errors.Wrap(ErrConfigInvalid, err.Error())
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		var w io.Writer = os.Stderr
		if lj := cfg.openLogWriter(); lj != nil {
			w = lj
		}
		log = logging.New(logging.Info, w, true)
	}

	e := &Encoder{
		cfg: cfg,
		log: log,
		ex:  NewExecutor(0),
		lut: buildLUT(),
	}
	e.pic = e.buildPicture()
	e.frag.expectedPosY = 0
	log.Debug("vc2enc: encoder initialised",
		"width", cfg.Width, "height", cfg.Height, "bitDepth", cfg.BitDepth,
		"wavelet", cfg.Wavelet.String(), "depth", cfg.WaveletDepth,
		"sliceWidth", cfg.SliceWidth, "sliceHeight", cfg.SliceHeight,
		"numX", e.pic.NumX, "numY", e.pic.NumY,
		"fragmented", cfg.FragmentSize > 0)
	return e, nil
}

// Encode routes frame to the non-fragmented or fragmented picture driver
// depending on how the Encoder was configured (base spec §6
// "fragment_size"). In fragmented mode a nil, nil return means frame did
// not make any new slice rows decodable and no packet was produced.
func (e *Encoder) Encode(frame *Frame) ([]byte, error) {
	if e.cfg.FragmentSize > 0 {
		return e.EncodeFragment(frame)
	}
	return e.EncodeFrame(frame)
}

// Stats returns the diagnostics accumulated across every picture or
// fragment encoded so far (SPEC_FULL.md Supplemented Feature 5).
func (e *Encoder) Stats() Stats { return e.stats.snapshot() }

// Close releases nothing explicitly (the Encoder holds no OS resources of
// its own) but is provided for symmetry with the teacher's Close-ing
// encoders/devices, and as the natural place a future SIMD kernel handle
// or file-backed LUT cache would be released (base spec §9 "SIMD").
func (e *Encoder) Close() error { return nil }
