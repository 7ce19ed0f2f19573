/*
DESCRIPTION
  fragment.go implements the fragmented picture driver of base spec §4.I
  ("Fragmented mode"): the encoder is fed successive row-bands of a
  picture and emits zero or one packet per call, maintaining the DWT
  progress and slice-row bookkeeping across calls within a picture; each
  packet carries its own parse_info offset chain.

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

	"github.com/ausocean/vc2enc/bits"
)

// fragmentState is the persisted, picture-scoped state fragmented mode
// needs between calls (base spec §6 "Persisted state"): the next row the
// caller must supply, how many slice-rows have already been emitted, and
// whether this picture's initial (transform_parameters-only) fragment has
// gone out yet.
type fragmentState struct {
	expectedPosY    int
	rowsEmitted     int
	firstHeaderSent bool
}

// decodableSliceRows returns how many whole slice-rows (in the shared
// NumX x NumY grid) every plane has produced enough DWT output to encode,
// the "slice_rows_available()" of base spec §4.C/§4.I: each plane's
// binding constraint is whichever decomposition level has converted the
// fewest of its sub-band rows back into full-resolution row coverage.
func (pic *Picture) decodableSliceRows() int {
	minSliceRows := pic.NumY
	for _, p := range pic.Planes {
		rows := p.Height
		for l := 0; l < p.Depth; l++ {
			ready := p.Driver.LevelRowsReady(l) << uint(l+1)
			if ready < rows {
				rows = ready
			}
		}
		sliceRows := rows / p.SliceH
		if sliceRows < minSliceRows {
			minSliceRows = sliceRows
		}
	}
	return minSliceRows
}

// importFragmentBand copies frame's samples into pic's coefficient
// buffers at the row offset the chroma shift implies, edge-extending the
// picture's bottom padding once the last real row arrives.
func (e *Encoder) importFragmentBand(pic *Picture, frame *Frame) {
	diffOffset := e.cfg.diffOffset()
	cx, cy := e.cfg.chromaShift()
	for pi, p := range pic.Planes {
		shiftX, shiftY := uint(0), uint(0)
		if pi > 0 {
			shiftX, shiftY = cx, cy
		}
		rowOffset := frame.PosY >> shiftY
		rows := frame.Height >> shiftY
		validWidth := frame.Width >> shiftX
		importPlaneBand(p, frame.Planes[pi], frame.Linesize[pi], e.cfg.BitDepth, diffOffset, rowOffset, rows, validWidth)

		validHeight := e.cfg.pictureHeight() >> shiftY
		if rowOffset+rows >= validHeight {
			p.extendBottom(rowOffset + rows)
		}
	}
}

// advanceDWT drives every plane's incremental DWT as far as the rows
// imported so far allow (base spec §4.C "incremental driver"), including
// the bottom padding rows once the last real row has arrived.
func (e *Encoder) advanceDWT(pic *Picture, frame *Frame) {
	_, cy := e.cfg.chromaShift()
	lumaRows := frame.PosY + frame.Height
	lastBand := lumaRows >= e.cfg.pictureHeight()
	e.ex.ForEach(len(pic.Planes), func(pi int) {
		p := pic.Planes[pi]
		shiftY := uint(0)
		if pi > 0 {
			shiftY = cy
		}
		rows := lumaRows >> shiftY
		if rows > p.Height || lastBand {
			rows = p.Height
		}
		p.Driver.StepTo(rows)
	})
}

// transformParamsBytes renders transform_parameters to a standalone
// byte-aligned buffer so its length can be signalled in the initial
// fragment_header's data_length field before it is spliced into the main
// writer.
func (e *Encoder) transformParamsBytes(pic *Picture) []byte {
	sw := bits.NewWriter(nil)
	putTransformParameters(sw, &e.cfg, true, pic, e.qmCustom)
	sw.AlignToByte()
	return sw.Bytes()
}

// EncodeFragment feeds one row-band of a picture into the fragmented
// picture driver (base spec §4.I "Fragmented mode"), returning the bytes
// of the packet this call makes decodable, or (nil, nil) if frame's rows
// did not complete any new slice-row.
func (e *Encoder) EncodeFragment(frame *Frame) ([]byte, error) {
	if e.cfg.FragmentSize <= 0 {
		return nil, errors.Wrap(ErrConfigInvalid, "EncodeFragment called on an encoder not configured for fragmented mode")
	}
	if frame.PosX != 0 || frame.PosY != e.frag.expectedPosY {
		return nil, errors.Wrapf(ErrGeometryMismatch, "fragment pos (%d,%d), expected (0,%d)", frame.PosX, frame.PosY, e.frag.expectedPosY)
	}

	pic := e.pic
	if e.frag.rowsEmitted == 0 && !e.frag.firstHeaderSent {
		for _, p := range pic.Planes {
			p.Driver.Reset()
		}
		pic.PrefixBytes = 0
		pic.SizeScaler, _ = chooseSizeScaler(e.cfg.frameBudget(), pic.NumX*pic.NumY, pic.PrefixBytes)
		pic.resetCaches()
	}

	e.importFragmentBand(pic, frame)
	e.advanceDWT(pic, frame)
	e.frag.expectedPosY = frame.PosY + frame.Height

	newRows := pic.decodableSliceRows() - e.frag.rowsEmitted
	if newRows <= 0 {
		return nil, nil
	}

	w := bits.NewWriter(nil)

	if !e.frag.firstHeaderSent {
		e.parseOffsets.putParseInfo(w, pcSeqHeader)
		putSequenceHeader(w, &e.cfg, true)
		w.AlignToByte()

		tp := e.transformParamsBytes(pic)
		e.parseOffsets.putParseInfo(w, pcFragmentHQ)
		putFragmentHeader(w, e.pictureNumber, uint16(len(tp)), 0, 0, 0)
		w.PutBytes(tp)
		e.frag.firstHeaderSent = true
	}

	idxs := make([]int, 0, newRows*pic.NumX)
	for sy := e.frag.rowsEmitted; sy < e.frag.rowsEmitted+newRows; sy++ {
		for sx := 0; sx < pic.NumX; sx++ {
			idxs = append(idxs, sy*pic.NumX+sx)
		}
	}

	frameMax := e.cfg.frameBudget() * newRows / pic.NumY
	sliceMax := alignUp(frameMax/maxInt(len(idxs), 1), pic.SizeScaler) + 4 + pic.PrefixBytes
	sliceMin := int(float64(sliceMax) * (1 - e.cfg.Tolerance/100))

	var avgQuant float64
	if e.cfg.ConstQuantSet {
		pic.applyConstQuant(e.lut, idxs, e.cfg.ConstQuant)
		avgQuant = float64(e.cfg.ConstQuant)
	} else {
		_, avgQuant = pic.Allocate(e.ex, e.lut, idxs, sliceMax, sliceMin, frameMax)
		if avgQuant > 50 {
			e.log.Warning("vc2enc: average quantizer very large", "avgQuant", avgQuant)
		}
	}
	e.stats.recordPicture(pic, idxs, avgQuant)

	for chunkStart := 0; chunkStart < len(idxs); chunkStart += e.cfg.FragmentSize {
		chunkEnd := chunkStart + e.cfg.FragmentSize
		if chunkEnd > len(idxs) {
			chunkEnd = len(idxs)
		}
		chunk := idxs[chunkStart:chunkEnd]

		bufs := make([][]byte, len(chunk))
		e.ex.ForEach(len(chunk), func(k int) {
			sl := &pic.Slices[chunk[k]]
			sw := bits.NewWriter(make([]byte, 0, sl.Bytes))
			pic.writeSlice(sw, e.lut, sl)
			bufs[k] = sw.Bytes()
		})

		dataLen := 0
		for _, b := range bufs {
			dataLen += len(b)
		}
		first := &pic.Slices[chunk[0]]

		e.parseOffsets.putParseInfo(w, pcFragmentHQ)
		putFragmentHeader(w, e.pictureNumber, uint16(dataLen), uint16(len(chunk)), uint16(first.SX), uint16(first.SY))
		for _, b := range bufs {
			w.PutBytes(b)
		}
	}

	e.frag.rowsEmitted += newRows
	if e.frag.rowsEmitted >= pic.NumY {
		e.parseOffsets.putParseInfo(w, pcEndSeq)
		e.pictureNumber++
		e.frag = fragmentState{}
	}

	// A returned packet can no longer be backfilled, so the next packet
	// starts a fresh parse_info chain.
	e.parseOffsets.reset()
	return w.Bytes(), nil
}
