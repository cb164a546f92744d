// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lecroy decodes the binary waveform template used by
// LeCroy/Teledyne digital oscilloscopes.
//
// A waveform transfer is one opaque byte buffer: a fixed-layout descriptor
// block ("WAVEDESC") followed by optional user text, an optional array of
// per-segment trigger times, and the raw sample array. All multi-byte
// scalars are big-endian. The descriptor is self-describing: it carries the
// byte lengths of every block that follows it, so the sample and
// trigger-time regions can only be located after the descriptor has been
// decoded.
//
// The decoder is a pure function of its input buffer: it keeps no state
// between calls and concurrent decodes of independent buffers need no
// synchronization.
package lecroy // import "github.com/go-daq/lecroy"

import (
	"bytes"
)

// descriptorName tags the first 16 bytes of a waveform descriptor block.
const descriptorName = "WAVEDESC"

// DefaultSkip is the number of transport bytes preceding the WAVEDESC
// region in the reply to a "Cn:WF? ALL" query issued with CHDR OFF: the
// "ALL," mnemonic followed by the IEEE-488.2 definite-length block prefix
// "#9" and nine ASCII length digits. The value is empirical and tied to
// the instrument family and transport; a wrong skip surfaces as a
// MalformedHeaderError from DecodeHeader.
const DefaultSkip = 15

// A Decoder decodes raw waveform transfer buffers.
//
// The zero value decodes buffers that start directly at the WAVEDESC
// region. NewDecoder returns a decoder configured for the usual
// instrument reply framing.
type Decoder struct {
	// Skip is the number of leading transport bytes to ignore before
	// the WAVEDESC region begins.
	Skip int
}

// NewDecoder returns a Decoder with the default transport skip.
func NewDecoder() *Decoder {
	return &Decoder{Skip: DefaultSkip}
}

// Decode decodes frame with the default transport skip.
func Decode(frame []byte) (*Set, error) {
	return NewDecoder().Decode(frame)
}

// Decode decodes one complete waveform transfer buffer: descriptor,
// trigger-time block and sample array, reassembled into per-segment
// waveforms.
func (dec *Decoder) Decode(frame []byte) (*Set, error) {
	hdr, err := dec.DecodeHeader(frame)
	if err != nil {
		return nil, err
	}

	trigs, err := dec.DecodeTrigTimes(frame, hdr)
	if err != nil {
		return nil, err
	}

	samples, err := dec.DecodeSamples(frame, hdr)
	if err != nil {
		return nil, err
	}

	return Assemble(hdr, trigs, samples)
}

// FindHeader returns the offset of the WAVEDESC descriptor tag inside
// frame. It is meant for buffers whose transport framing differs from
// DefaultSkip (saved trace files, proxied transfers). ok is false when no
// descriptor tag is present.
func FindHeader(frame []byte) (skip int, ok bool) {
	i := bytes.Index(frame, []byte(descriptorName))
	if i < 0 {
		return 0, false
	}
	return i, true
}
