// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lecroy // import "github.com/go-daq/lecroy"

import (
	"fmt"
)

// ScalarTypeError reports a scalar decode with an unknown type tag or a
// byte slice whose length does not match the declared length of the type.
// Either condition is a defect in the caller's field table, not in the
// instrument data.
type ScalarTypeError struct {
	Type ScalarType // requested scalar type
	Len  int        // length of the byte slice that was provided
}

func (e *ScalarTypeError) Error() string {
	if e.Type.Size() == 0 {
		return fmt.Sprintf("lecroy: unknown scalar type tag %d", byte(e.Type))
	}
	return fmt.Sprintf(
		"lecroy: scalar type %v wants %d bytes, got %d",
		e.Type, e.Type.Size(), e.Len,
	)
}

// TruncatedFrameError reports a frame shorter than the declared extent of
// one of its regions. The transfer is incomplete and must be re-acquired;
// retrying the decode cannot help.
type TruncatedFrameError struct {
	Region string // name of the region being decoded
	Need   int    // offset of the first byte past the region
	Len    int    // actual frame length
}

func (e *TruncatedFrameError) Error() string {
	return fmt.Sprintf(
		"lecroy: truncated frame: region %s needs %d bytes, frame has %d",
		e.Region, e.Need, e.Len,
	)
}

// MalformedHeaderError reports a descriptor that cannot be trusted:
// a descriptor tag different from "WAVEDESC" (a wrong transport skip,
// a wrong acquisition mode, or a corrupted transfer), or a negative
// declared region length.
type MalformedHeaderError struct {
	Got    string // the descriptor-name field that was decoded
	Region string // region declaring a negative length, if any
	Len    int32  // the declared region length
}

func (e *MalformedHeaderError) Error() string {
	if e.Region != "" {
		return fmt.Sprintf("lecroy: bad descriptor: region %s declares %d bytes", e.Region, e.Len)
	}
	return fmt.Sprintf("lecroy: bad descriptor tag %q, want %q", e.Got, descriptorName)
}

// BlockLengthError reports a declared block length that is not consistent
// with the block's fixed record size and the declared record count.
type BlockLengthError struct {
	Block   string // name of the block
	Len     int32  // declared block length, in bytes
	RecSize int    // fixed record size, in bytes
	Count   int32  // declared record count
}

func (e *BlockLengthError) Error() string {
	return fmt.Sprintf(
		"lecroy: inconsistent %s block: %d bytes for %d records of %d bytes",
		e.Block, e.Len, e.Count, e.RecSize,
	)
}

// SegmentSplitError reports a sample block that cannot be split evenly
// into the declared number of segments.
type SegmentSplitError struct {
	Bytes    int   // sample block length, in bytes
	Segments int32 // declared segment count
}

func (e *SegmentSplitError) Error() string {
	return fmt.Sprintf(
		"lecroy: cannot split %d sample bytes into %d segments",
		e.Bytes, e.Segments,
	)
}
