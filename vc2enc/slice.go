/*
DESCRIPTION
  slice.go defines the Slice descriptor and the Picture grouping of the
  three coefficient planes that share one slice grid (base spec §3
  "Slice").

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

import "github.com/ausocean/vc2enc/tables"

// Slice is the per (sx,sy) quantizer/size state shared across a picture's
// three planes (base spec §3 "Slice").
type Slice struct {
	SX, SY   int
	QuantIdx int
	Bytes    int
	Cache    [tables.MaxQuantIndex]int // 0 == not yet computed.
}

func (s *Slice) resetCache() {
	for i := range s.Cache {
		s.Cache[i] = 0
	}
}

// Picture groups the three coefficient planes and the shared slice grid
// that a single HQ picture (or field, or fragment's worth of rows) is
// encoded against.
type Picture struct {
	Planes [3]*Plane
	NumX   int
	NumY   int
	Slices []Slice

	PrefixBytes int
	SizeScaler  int
	QM          tables.QMatrix

	PictureNumber uint32
}

// NewPicture allocates the slice grid for a picture whose planes have
// already been sized via NewPlane. All three planes must share the same
// NumX/NumY (chroma planes simply have smaller per-sub-band rectangles).
func NewPicture(planes [3]*Plane, qm tables.QMatrix) *Picture {
	numX, numY := planes[0].NumX, planes[0].NumY
	pic := &Picture{
		Planes: planes,
		NumX:   numX,
		NumY:   numY,
		Slices: make([]Slice, numX*numY),
		QM:     qm,
	}
	for sy := 0; sy < numY; sy++ {
		for sx := 0; sx < numX; sx++ {
			pic.Slices[sy*numX+sx] = Slice{SX: sx, SY: sy}
		}
	}
	return pic
}

func (pic *Picture) slice(sx, sy int) *Slice { return &pic.Slices[sy*pic.NumX+sx] }

func (pic *Picture) resetCaches() {
	for i := range pic.Slices {
		pic.Slices[i].resetCache()
	}
}
