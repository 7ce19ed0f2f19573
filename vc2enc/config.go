/*
DESCRIPTION
  config.go holds the encoder's tunable Config, its Validate() method and
  the functional-option constructors layered on top of it, modeled on
  revid/config/config.go's Config.Validate() and mts.NewEncoder's
  option-function constructor style.

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
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/vc2enc/dwt"
	"github.com/ausocean/vc2enc/tables"
)

// PixelFormat names the chroma subsampling of the input planes (base spec
// §6 "Input contract").
type PixelFormat int

const (
	YUV420P PixelFormat = iota
	YUV422P
	YUV444P
)

// Config holds every tunable named in base spec §6 ("Configuration
// options"), plus the geometry the caller must supply up front.
type Config struct {
	Width, Height int
	PixFormat     PixelFormat
	BitDepth      int // 8, 10 or 12.
	Interlaced    bool

	Tolerance    float64 // 0.0-45.0.
	SliceWidth   int     // 32-1024.
	SliceHeight  int     // 8-1024.
	WaveletDepth int     // 1-5.
	Wavelet      dwt.Type
	QM           tables.Preset
	FragmentSize int // slices per fragment, 0 disables fragmented mode.

	BitRate       int64 // bits/s.
	TimeBaseNum   int
	TimeBaseDen   int
	ConstQuant    int // if ConstQuantSet, overrides rate control.
	ConstQuantSet bool

	Logger  logging.Logger
	LogPath string // if non-empty, LogPath feeds a lumberjack.Logger (WithLogFile).
}

// diffOffset returns the mid-level bias subtracted from every sample
// (base spec §3 "Picture geometry").
func (c *Config) diffOffset() int32 {
	switch c.BitDepth {
	case 8:
		return 128
	case 10:
		return 512
	case 12:
		return 2048
	default:
		return 128
	}
}

// chromaShift returns the chroma subsampling shifts for the configured
// pixel format.
func (c *Config) chromaShift() (x, y uint) {
	switch c.PixFormat {
	case YUV420P:
		return 1, 1
	case YUV422P:
		return 1, 0
	default:
		return 0, 0
	}
}

// Validate checks the configuration for the failure modes enumerated under
// ConfigInvalid in base spec §7, mirroring revid's Config.Validate in
// spirit (a flat sequence of named checks, first failure wins).
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Wrap(ErrConfigInvalid, "width and height must be positive")
	case c.BitDepth != 8 && c.BitDepth != 10 && c.BitDepth != 12:
		return errors.Wrapf(ErrConfigInvalid, "unsupported bit depth %d", c.BitDepth)
	case c.Tolerance < 0 || c.Tolerance > 45:
		return errors.Wrapf(ErrConfigInvalid, "tolerance %.1f out of range [0,45]", c.Tolerance)
	case c.SliceWidth < 32 || c.SliceWidth > 1024:
		return errors.Wrapf(ErrConfigInvalid, "slice_width %d out of range [32,1024]", c.SliceWidth)
	case c.SliceHeight < 8 || c.SliceHeight > 1024:
		return errors.Wrapf(ErrConfigInvalid, "slice_height %d out of range [8,1024]", c.SliceHeight)
	case c.WaveletDepth < 1 || c.WaveletDepth > dwt.MaxLevels:
		return errors.Wrapf(ErrConfigInvalid, "wavelet_depth %d out of range [1,%d]", c.WaveletDepth, dwt.MaxLevels)
	case c.SliceWidth < 1<<uint(c.WaveletDepth):
		return errors.Wrapf(ErrConfigInvalid, "slice_width %d smaller than 2^depth (%d)", c.SliceWidth, 1<<uint(c.WaveletDepth))
	case c.SliceHeight < 1<<uint(c.WaveletDepth):
		return errors.Wrapf(ErrConfigInvalid, "slice_height %d smaller than 2^depth (%d)", c.SliceHeight, 1<<uint(c.WaveletDepth))
	case c.ConstQuantSet && (c.ConstQuant < 0 || c.ConstQuant >= tables.MaxQuantIndex):
		return errors.Wrapf(ErrConfigInvalid, "const_quant %d out of range [0,%d)", c.ConstQuant, tables.MaxQuantIndex)
	case c.FragmentSize < 0:
		return errors.Wrap(ErrConfigInvalid, "fragment_size must be >= 0")
	}

	padded := padUp(c.Width, 1<<uint(c.WaveletDepth))
	padded = padUp(padded, c.SliceWidth)
	numX := padded / c.SliceWidth
	if c.FragmentSize > 0 && numX%c.FragmentSize != 0 {
		return errors.Wrapf(ErrConfigInvalid, "fragment_size %d does not divide num_x %d", c.FragmentSize, numX)
	}
	return nil
}

func padUp(v, align int) int {
	if align <= 0 {
		return v
	}
	return (v + align - 1) / align * align
}

// Option configures a Config in the functional-options style used
// throughout the teacher's constructors (mts.NewEncoder(dst, log,
// options...)).
type Option func(*Config) error

// WithTolerance sets Config.Tolerance.
func WithTolerance(pct float64) Option {
	return func(c *Config) error { c.Tolerance = pct; return nil }
}

// WithSliceSize sets Config.SliceWidth and Config.SliceHeight.
func WithSliceSize(w, h int) Option {
	return func(c *Config) error { c.SliceWidth, c.SliceHeight = w, h; return nil }
}

// WithWavelet sets Config.Wavelet and Config.WaveletDepth.
func WithWavelet(t dwt.Type, depth int) Option {
	return func(c *Config) error { c.Wavelet = t; c.WaveletDepth = depth; return nil }
}

// WithQuantMatrix sets Config.QM.
func WithQuantMatrix(p tables.Preset) Option {
	return func(c *Config) error { c.QM = p; return nil }
}

// WithFragmentSize sets Config.FragmentSize, switching the picture driver
// into fragmented mode (base spec §4.I).
func WithFragmentSize(slices int) Option {
	return func(c *Config) error { c.FragmentSize = slices; return nil }
}

// WithBitRate sets the target bit rate and its governing time base.
func WithBitRate(bitsPerSec int64, timeBaseNum, timeBaseDen int) Option {
	return func(c *Config) error {
		c.BitRate, c.TimeBaseNum, c.TimeBaseDen = bitsPerSec, timeBaseNum, timeBaseDen
		return nil
	}
}

// WithConstQuant disables rate control and fixes every slice's quantizer
// index, the Go analogue of AV_CODEC_FLAG_QSCALE in the reference encoder
// (SPEC_FULL.md Supplemented Feature 2).
func WithConstQuant(q int) Option {
	return func(c *Config) error { c.ConstQuant, c.ConstQuantSet = q, true; return nil }
}

// WithLogFile routes the encoder's log output through a rotating
// lumberjack.Logger at path, the same operational pattern the teacher's
// long-running capture processes rely on for log rotation.
func WithLogFile(path string) Option {
	return func(c *Config) error { c.LogPath = path; return nil }
}

// frameBudget returns the target byte budget for one picture/field (base
// spec §6: "bit_rate · time_base_num / time_base_den / 8").
func (c *Config) frameBudget() int {
	if c.BitRate == 0 || c.TimeBaseDen == 0 {
		return 0
	}
	return int(c.BitRate * int64(c.TimeBaseNum) / int64(c.TimeBaseDen) / 8)
}

// openLogWriter builds the lumberjack rotation sink for LogPath, if set.
func (c *Config) openLogWriter() *lumberjack.Logger {
	if c.LogPath == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   c.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     28,
	}
}
