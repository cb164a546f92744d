// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lecroy // import "github.com/go-daq/lecroy"

// Waveform is one reconstructed trace: a time axis in seconds and an
// equal-length amplitude axis in the physical units declared by the
// header. Missing amplitudes mark clipped samples.
type Waveform struct {
	Time []float64
	Data []Sample
	Unit string // vertical unit label from the header
}

// Set is the result of decoding one waveform transfer: the descriptor,
// the (possibly empty) trigger-time block and one waveform per segment,
// in segment order.
type Set struct {
	Header    *Header
	TrigTimes []TrigTime
	Waveforms []Waveform
}

// Assemble splits the flat sample sequence into SUBARRAY_COUNT
// equal-length segments and builds one time axis per segment.
//
// Sample k of every segment sits at k*HORIZ_INTERVAL seconds relative to
// the segment's own trigger. When trigger-time records are present, each
// segment's axis is shifted by its trigger offset, anchoring all segments
// to the common first-trigger origin; without records the axes are left
// unshifted.
//
// A sample count that does not split evenly into the declared segments
// (or a segment count below one) fails with a *SegmentSplitError; a
// trigger-time record count that does not match the segment count fails
// with a *BlockLengthError.
func Assemble(hdr *Header, trigs []TrigTime, samples []Sample) (*Set, error) {
	nseg := int(hdr.SubarrayCount)
	if nseg < 1 || len(samples)%nseg != 0 {
		return nil, &SegmentSplitError{Bytes: 2 * len(samples), Segments: hdr.SubarrayCount}
	}
	if len(trigs) != 0 && len(trigs) != nseg {
		return nil, &BlockLengthError{
			Block:   "TRIGTIME",
			Len:     int32(len(trigs) * trigTimeSize),
			RecSize: trigTimeSize,
			Count:   hdr.SubarrayCount,
		}
	}

	npts := len(samples) / nseg
	base := make([]float64, npts)
	dt := float64(hdr.HorizInterval)
	for k := range base {
		base[k] = float64(k) * dt
	}

	wfs := make([]Waveform, nseg)
	for i := range wfs {
		axis := make([]float64, npts)
		copy(axis, base)
		if len(trigs) != 0 {
			for k := range axis {
				axis[k] += trigs[i].Offset
			}
		}
		wfs[i] = Waveform{
			Time: axis,
			Data: samples[i*npts : (i+1)*npts],
			Unit: hdr.VertUnit,
		}
	}

	return &Set{Header: hdr, TrigTimes: trigs, Waveforms: wfs}, nil
}
