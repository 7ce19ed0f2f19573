/*
DESCRIPTION
  picture.go implements the non-fragmented picture driver of base spec
  §4.I: sample import with the mid-level bias subtraction, geometry
  padding, size_scaler selection, and the per-field orchestration of the
  DWT driver, rate allocator, header encoders and slice writer.

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

	"github.com/pkg/errors"

	"github.com/ausocean/vc2enc/bits"
	"github.com/ausocean/vc2enc/tables"
)

// Frame is the per-call input named in base spec §6 ("Input contract"): one
// complete planar picture in non-fragmented mode, or one row-band of a
// picture in fragmented mode (see fragment.go). Supplying and demuxing this
// value is the external ingest layer's job (base spec §1, "Out of scope");
// this module only consumes it.
type Frame struct {
	// PosX, PosY locate this band within the full picture; PosX must
	// always be 0, and in fragmented mode successive calls must supply
	// PosY == previous PosY + previous Height, starting at 0.
	PosX, PosY int

	// Width, Height are this band's luma dimensions in samples.
	Width, Height int

	// Planes holds the raw sample bytes for each of the three planes,
	// row-major, linesize[i] bytes per row. 8-bit samples are one byte
	// each; 10/12-bit samples are 16-bit little-endian host integers
	// (base spec §6 treats the receiver's native endianness as the
	// implementer's choice; this module reads little-endian, see
	// DESIGN.md).
	Planes   [3][]byte
	Linesize [3]int
}

// pictureHeight returns the height of one coded picture: the full frame
// height in progressive mode, or one field's height in interlaced mode
// (SPEC_FULL.md Supplemented Feature 4 — each field is encoded as a
// complete, independent non-fragmented picture at half the frame height).
func (c *Config) pictureHeight() int {
	if c.Interlaced {
		return c.Height / 2
	}
	return c.Height
}

// planeGeometry returns the padded width/height and slice dimensions for
// plane pi (0 = luma, 1/2 = chroma), per base spec §3 "Picture geometry":
// chroma planes are subsampled by chroma_x_shift/chroma_y_shift, and their
// slice dimensions shrink by the same shifts so every plane shares one
// NumX x NumY slice grid (base spec §3 "SubBand descriptor" invariant).
func (c *Config) planeGeometry(pi int) (width, height, sliceW, sliceH int) {
	width, height = c.Width, c.pictureHeight()
	sliceW, sliceH = c.SliceWidth, c.SliceHeight
	if pi > 0 {
		cx, cy := c.chromaShift()
		width >>= cx
		height >>= cy
		sliceW >>= cx
		sliceH >>= cy
	}
	align := 1 << uint(c.WaveletDepth)
	width = padUp(width, align)
	width = padUp(width, sliceW)
	height = padUp(height, align)
	height = padUp(height, sliceH)
	return
}

// importPlaneBand copies validWidth x rows samples from raw (linesize
// bytes per row, bitDepth bits per sample) into p.Coef starting at
// coefficient row rowOffset, subtracting diffOffset to recentre around
// zero (base spec §3). Columns beyond validWidth, up to p.Width, are
// edge-extended by replicating the last valid sample, the same whole-
// sample symmetric-extension spirit the DWT kernels themselves use at
// sub-band boundaries (base spec §4.B "Edge handling").
func importPlaneBand(p *Plane, raw []byte, linesize, bitDepth int, diffOffset int32, rowOffset, rows, validWidth int) {
	for y := 0; y < rows; y++ {
		dstRow := (rowOffset + y) * p.Stride
		srcRow := y * linesize
		if bitDepth == 8 {
			for x := 0; x < validWidth; x++ {
				p.Coef[dstRow+x] = int32(raw[srcRow+x]) - diffOffset
			}
		} else {
			for x := 0; x < validWidth; x++ {
				v := binary.LittleEndian.Uint16(raw[srcRow+2*x:])
				p.Coef[dstRow+x] = int32(v) - diffOffset
			}
		}
		for x := validWidth; x < p.Width; x++ {
			p.Coef[dstRow+x] = p.Coef[dstRow+validWidth-1]
		}
	}
}

// extendBottom replicates the last valid row into a plane's vertical
// padding once every real row has been imported (base spec §3 "Picture
// geometry" padding).
func (p *Plane) extendBottom(validHeight int) {
	if validHeight >= p.Height || validHeight <= 0 {
		return
	}
	last := (validHeight - 1) * p.Stride
	for y := validHeight; y < p.Height; y++ {
		copy(p.Coef[y*p.Stride:y*p.Stride+p.Width], p.Coef[last:last+p.Width])
	}
}

// buildPicture allocates the three coefficient planes and the shared slice
// grid for the encoder's configured geometry (base spec §3 "Lifecycle":
// allocated once and reused unless geometry changes).
func (e *Encoder) buildPicture() *Picture {
	var planes [3]*Plane
	for pi := range planes {
		w, h, sw, sh := e.cfg.planeGeometry(pi)
		planes[pi] = NewPlane(e.cfg.Wavelet, w, h, sw, sh, e.cfg.WaveletDepth)
	}
	qm, custom := tables.QuantMatrix(e.cfg.QM, e.cfg.WaveletDepth)
	e.qmCustom = custom
	return NewPicture(planes, qm)
}

// chooseSizeScaler picks the smallest power-of-two size_scaler for which
// every slice's signalled per-plane length (base spec §6, "size_scaler")
// fits in its one-byte field, and returns the resulting per-slice byte
// ceiling (base spec §4.I step 2).
func chooseSizeScaler(frameMaxBytes, numSlices, prefixBytes int) (sizeScaler, sliceMaxBytes int) {
	if numSlices <= 0 {
		return 2, 0
	}
	budget := frameMaxBytes / numSlices
	sizeScaler = 2
	for {
		granules := alignUp(budget, sizeScaler) / sizeScaler
		if granules <= 255 || sizeScaler >= 1<<16 {
			break
		}
		sizeScaler *= 2
	}
	sliceMaxBytes = alignUp(budget, sizeScaler) + 4 + prefixBytes
	return
}

// allSliceIndices returns 0..numX*numY-1 in raster (sy-major) order.
func allSliceIndices(numX, numY int) []int {
	idxs := make([]int, numX*numY)
	for i := range idxs {
		idxs[i] = i
	}
	return idxs
}

// applyConstQuant costs every named slice at the fixed quantizer q,
// bypassing rate control entirely (SPEC_FULL.md Supplemented Feature 2,
// base spec §6 "const_quant").
func (pic *Picture) applyConstQuant(lut []codeLUT, idxs []int, q int) {
	for _, i := range idxs {
		sl := &pic.Slices[i]
		sl.QuantIdx = q
		sl.Bytes = pic.sliceCost(lut, sl, q)
	}
}

// checkFrameGeometry validates a non-fragmented Frame against the
// encoder's configured dimensions (base spec §7 "GeometryMismatch").
func (e *Encoder) checkFrameGeometry(frame *Frame) error {
	// A full frame is always delivered, even in interlaced mode; fields
	// are split out internally by importFrame.
	if frame.PosX != 0 || frame.PosY != 0 {
		return errors.Wrapf(ErrGeometryMismatch, "non-fragmented frame must start at (0,0), got (%d,%d)", frame.PosX, frame.PosY)
	}
	if frame.Width != e.cfg.Width || frame.Height != e.cfg.Height {
		return errors.Wrapf(ErrGeometryMismatch, "frame is %dx%d, encoder configured for %dx%d", frame.Width, frame.Height, e.cfg.Width, e.cfg.Height)
	}
	return nil
}

// importFrame copies frame's samples into pic's coefficient buffers. When
// fieldIdx >= 0 only every totalFields-th row, offset by fieldIdx, is
// imported (base spec §6 "interlaced", SPEC_FULL.md Supplemented Feature
// 4): the resulting plane height is halved and the driver operates on a
// complete, independent field picture.
func (e *Encoder) importFrame(pic *Picture, frame *Frame, fieldIdx, totalFields int) {
	diffOffset := e.cfg.diffOffset()
	for pi, p := range pic.Planes {
		cx, cy := e.cfg.chromaShift()
		shiftX, shiftY := uint(0), uint(0)
		if pi > 0 {
			shiftX, shiftY = cx, cy
		}
		validWidth := frame.Width >> shiftX
		srcLinesize := frame.Linesize[pi]

		if totalFields <= 1 {
			validHeight := frame.Height >> shiftY
			rowBytes := srcLinesize
			importPlaneBand(p, frame.Planes[pi], rowBytes, e.cfg.BitDepth, diffOffset, 0, validHeight, validWidth)
			p.extendBottom(validHeight)
			continue
		}

		// Interlaced: gather every totalFields-th source row into a
		// contiguous field-local plane, starting at fieldIdx.
		srcRows := frame.Height >> shiftY
		fieldRows := 0
		for y := fieldIdx; y < srcRows; y += totalFields {
			dstRow := fieldRows * p.Stride
			srcRow := y * srcLinesize
			copyRowSamples(p.Coef[dstRow:dstRow+validWidth], frame.Planes[pi][srcRow:], e.cfg.BitDepth, diffOffset, validWidth)
			for x := validWidth; x < p.Width; x++ {
				p.Coef[dstRow+x] = p.Coef[dstRow+validWidth-1]
			}
			fieldRows++
		}
		p.extendBottom(fieldRows)
	}
}

// copyRowSamples converts one source row of raw samples into recentred
// int32 coefficients.
func copyRowSamples(dst []int32, src []byte, bitDepth int, diffOffset int32, n int) {
	if bitDepth == 8 {
		for x := 0; x < n; x++ {
			dst[x] = int32(src[x]) - diffOffset
		}
		return
	}
	for x := 0; x < n; x++ {
		v := binary.LittleEndian.Uint16(src[2*x:])
		dst[x] = int32(v) - diffOffset
	}
}

// runDWT drives every plane's forward transform to completion, in
// parallel (base spec §5, "one task per plane").
func (e *Encoder) runDWT(pic *Picture) {
	e.ex.ForEach(len(pic.Planes), func(pi int) {
		p := pic.Planes[pi]
		p.Driver.Reset()
		p.Driver.StepTo(p.Height)
	})
}

// encodeField runs one complete non-fragmented picture or field through
// DWT, rate control and slice/header emission, appending its bytes to w
// (base spec §4.I "Non-fragmented mode").
func (e *Encoder) encodeField(w *bits.Writer, pic *Picture, frame *Frame, fieldIdx, totalFields int) error {
	e.importFrame(pic, frame, fieldIdx, totalFields)
	e.runDWT(pic)
	pic.resetCaches()

	pic.PrefixBytes = 0
	frameMax := e.cfg.frameBudget()
	if totalFields > 1 {
		frameMax /= totalFields
	}
	numSlices := pic.NumX * pic.NumY
	pic.SizeScaler, _ = chooseSizeScaler(frameMax, numSlices, pic.PrefixBytes)
	sliceMax := alignUp(frameMax/maxInt(numSlices, 1), pic.SizeScaler) + 4 + pic.PrefixBytes
	sliceMin := int(float64(sliceMax) * (1 - e.cfg.Tolerance/100))

	idxs := allSliceIndices(pic.NumX, pic.NumY)
	var avgQuant float64
	if e.cfg.ConstQuantSet {
		pic.applyConstQuant(e.lut, idxs, e.cfg.ConstQuant)
		sum := 0
		for _, i := range idxs {
			sum += pic.Slices[i].QuantIdx
		}
		avgQuant = float64(sum) / float64(len(idxs))
	} else {
		_, avgQuant = pic.Allocate(e.ex, e.lut, idxs, sliceMax, sliceMin, frameMax)
	}
	if avgQuant > 50 {
		e.log.Warning("vc2enc: average quantizer very large", "avgQuant", avgQuant)
	}
	e.stats.recordPicture(pic, idxs, avgQuant)

	e.parseOffsets.putParseInfo(w, pcSeqHeader)
	putSequenceHeader(w, &e.cfg, false)
	w.AlignToByte()

	e.parseOffsets.putParseInfo(w, pcPictureHQ)
	putPictureHeader(w, e.pictureNumber)
	putTransformParameters(w, &e.cfg, false, pic, e.qmCustom)
	w.AlignToByte()

	e.writeSlices(w, pic, idxs)

	e.parseOffsets.putParseInfo(w, pcEndSeq)
	e.pictureNumber++
	return nil
}

// writeSlices encodes every slice named by idxs into its own Writer in
// parallel (base spec §5, "one task per slice"), then splices the results
// into w serially in raster order, so the emitted bytes are independent of
// the executor's dispatch order (base spec §5 "Ordering guarantees").
func (e *Encoder) writeSlices(w *bits.Writer, pic *Picture, idxs []int) {
	bufs := make([][]byte, len(idxs))
	e.ex.ForEach(len(idxs), func(k int) {
		sl := &pic.Slices[idxs[k]]
		sw := bits.NewWriter(make([]byte, 0, sl.Bytes))
		pic.writeSlice(sw, e.lut, sl)
		bufs[k] = sw.Bytes()
	})
	for _, b := range bufs {
		w.PutBytes(b)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// EncodeFrame runs the non-fragmented picture driver (base spec §4.I) over
// one complete Frame, returning the bytes of a self-contained packet:
// sequence_header(s), picture_header(s), slices and a closing END_SEQ per
// field.
func (e *Encoder) EncodeFrame(frame *Frame) ([]byte, error) {
	if e.cfg.FragmentSize > 0 {
		return nil, errors.Wrap(ErrConfigInvalid, "EncodeFrame called on an encoder configured for fragmented mode")
	}
	if err := e.checkFrameGeometry(frame); err != nil {
		return nil, err
	}

	e.parseOffsets.reset()
	w := bits.NewWriter(nil)

	fields := 1
	if e.cfg.Interlaced {
		fields = 2
	}
	for f := 0; f < fields; f++ {
		if err := e.encodeField(w, e.pic, frame, f, fields); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}
