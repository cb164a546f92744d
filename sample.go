// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lecroy // import "github.com/go-daq/lecroy"

import (
	"encoding/binary"
	"math"
)

// Sample is one decoded amplitude value, in the physical units declared
// by the header. A raw code outside the header's valid code range is a
// clipped measurement, not a decode error: the sample is then missing
// (OK is false) and carries no value.
type Sample struct {
	Value float64
	OK    bool
}

// Float64 returns the sample value, or NaN for a missing sample.
func (s Sample) Float64() float64 {
	if !s.OK {
		return math.NaN()
	}
	return s.Value
}

// DecodeSamples decodes the flat sample array of frame: WAVE_ARRAY_1
// bytes of consecutive 2-byte big-endian signed codes, located after the
// descriptor, user-text, trigger-time and RIS-time regions.
//
// Codes inside [MIN_VALUE, MAX_VALUE] (both inclusive) are scaled to
// physical units as code*VERTICAL_GAIN - VERTICAL_OFFSET; codes outside
// the range become missing samples. A frame shorter than the declared
// sample region fails with a *TruncatedFrameError; an odd WAVE_ARRAY_1
// cannot hold whole 2-byte codes and fails with a *SegmentSplitError.
func (dec *Decoder) DecodeSamples(frame []byte, hdr *Header) ([]Sample, error) {
	if int(hdr.WaveArray1)%2 != 0 {
		return nil, &SegmentSplitError{Bytes: int(hdr.WaveArray1), Segments: hdr.SubarrayCount}
	}

	start := dec.Skip + int(hdr.WaveDescriptor) + int(hdr.UserText) +
		int(hdr.TrigtimeArray) + int(hdr.RisTimeArray)
	end := start + int(hdr.WaveArray1)
	if end > len(frame) {
		return nil, &TruncatedFrameError{Region: "WAVE_ARRAY_1", Need: end, Len: len(frame)}
	}

	var (
		buf  = frame[start:end]
		min  = float64(hdr.MinValue)
		max  = float64(hdr.MaxValue)
		gain = float64(hdr.VerticalGain)
		off  = float64(hdr.VerticalOffset)
	)

	samples := make([]Sample, int(hdr.WaveArray1)/2)
	for i := range samples {
		code := float64(int16(binary.BigEndian.Uint16(buf[2*i : 2*i+2])))
		if code < min || code > max {
			continue
		}
		samples[i] = Sample{Value: code*gain - off, OK: true}
	}
	return samples, nil
}
