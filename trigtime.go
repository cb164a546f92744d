// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lecroy // import "github.com/go-daq/lecroy"

// TrigTime is one record of the trigger-time block: the trigger instant
// and the time offset of one segment of a sequence-mode acquisition.
// Record order is segment order.
type TrigTime struct {
	Time   float64 // seconds since the first trigger of the acquisition
	Offset float64 // seconds between the trigger and the segment's first sample
}

// trigTimeSize is the fixed record size of the trigger-time block:
// two big-endian doubles.
const trigTimeSize = 16

// DecodeTrigTimes decodes the trigger-time block of frame, one record per
// segment. An acquisition without sequence mode declares an empty block;
// DecodeTrigTimes then returns nil, which is not an error.
//
// A declared block length that does not equal SUBARRAY_COUNT 16-byte
// records is malformed instrument data and fails with a
// *BlockLengthError; no partial records are decoded.
func (dec *Decoder) DecodeTrigTimes(frame []byte, hdr *Header) ([]TrigTime, error) {
	if hdr.TrigtimeArray == 0 {
		return nil, nil
	}
	if int64(hdr.SubarrayCount)*trigTimeSize != int64(hdr.TrigtimeArray) {
		return nil, &BlockLengthError{
			Block:   "TRIGTIME",
			Len:     hdr.TrigtimeArray,
			RecSize: trigTimeSize,
			Count:   hdr.SubarrayCount,
		}
	}

	start := dec.Skip + int(hdr.WaveDescriptor) + int(hdr.UserText)
	end := start + int(hdr.TrigtimeArray)
	if end > len(frame) {
		return nil, &TruncatedFrameError{Region: "TRIGTIME", Need: end, Len: len(frame)}
	}

	buf := frame[start:end]
	trigs := make([]TrigTime, hdr.SubarrayCount)
	for i := range trigs {
		rec := buf[i*trigTimeSize : (i+1)*trigTimeSize]
		trigs[i] = TrigTime{
			Time:   f64be(rec[0:8]),
			Offset: f64be(rec[8:16]),
		}
	}
	return trigs, nil
}
