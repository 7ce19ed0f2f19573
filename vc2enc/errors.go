/*
DESCRIPTION
  errors.go defines the encoder's error kinds (base spec §7) as typed
  sentinel values, wrapped at each call site with github.com/pkg/errors so
  the originating operation stays attached to the underlying cause.

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

import "github.com/pkg/errors"

// Error kinds named in base spec §7. ConfigInvalid, GeometryMismatch and
// OutOfMemory are fatal; BudgetExhausted is not (the worst-quantiser slice
// is still emitted and a warning logged).
var (
	ErrConfigInvalid    = errors.New("vc2enc: invalid configuration")
	ErrGeometryMismatch = errors.New("vc2enc: frame geometry does not match expected position")
	ErrOutOfMemory      = errors.New("vc2enc: allocation failed")
	ErrBudgetExhausted  = errors.New("vc2enc: rate control could not fit slice within budget at any quantizer")
)

// Is reports whether err (or any error it wraps) is kind, using
// errors.Is.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
