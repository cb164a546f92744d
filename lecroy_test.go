// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lecroy_test

import (
	"encoding/binary"
	"fmt"
	"math"
)

// testFrame builds synthetic waveform transfer buffers for the tests.
type testFrame struct {
	desc      string // descriptor tag, "WAVEDESC" unless the test says otherwise
	userText  []byte
	trigs     [][2]float64 // (trigger_time, trigger_offset) pairs
	samples   []int16      // raw sample codes
	subarrays int32

	gain, offset float32
	min, max     float32
	horiz        float32
	unit         string
}

func (tf testFrame) header() []byte {
	hdr := make([]byte, 346)

	be32 := func(off int, v int32) { binary.BigEndian.PutUint32(hdr[off:], uint32(v)) }
	bef32 := func(off int, v float32) { binary.BigEndian.PutUint32(hdr[off:], math.Float32bits(v)) }

	copy(hdr[0:], tf.desc)
	copy(hdr[16:], "LECROY_2_3")
	binary.BigEndian.PutUint16(hdr[32:], 1) // COMM_TYPE: word
	be32(36, 346)                           // WAVE_DESCRIPTOR
	be32(40, int32(len(tf.userText)))       // USER_TEXT
	be32(48, int32(len(tf.trigs)*16))       // TRIGTIME_ARRAY
	be32(52, 0)                             // RIS_TIME_ARRAY
	be32(60, int32(len(tf.samples)*2))      // WAVE_ARRAY_1
	be32(116, int32(len(tf.samples)))       // WAVE_ARRAY_COUNT
	be32(144, tf.subarrays)                 // SUBARRAY_COUNT
	bef32(156, tf.gain)                     // VERTICAL_GAIN
	bef32(160, tf.offset)                   // VERTICAL_OFFSET
	bef32(164, tf.max)                      // MAX_VALUE
	bef32(168, tf.min)                      // MIN_VALUE
	bef32(176, tf.horiz)                    // HORIZ_INTERVAL
	copy(hdr[196:], tf.unit)                // VERTUNIT

	return hdr
}

// bytes assembles the raw transfer buffer without any transport prefix.
func (tf testFrame) bytes() []byte {
	buf := tf.header()
	buf = append(buf, tf.userText...)
	for _, tt := range tf.trigs {
		var rec [16]byte
		binary.BigEndian.PutUint64(rec[0:], math.Float64bits(tt[0]))
		binary.BigEndian.PutUint64(rec[8:], math.Float64bits(tt[1]))
		buf = append(buf, rec[:]...)
	}
	for _, code := range tf.samples {
		var rec [2]byte
		binary.BigEndian.PutUint16(rec[:], uint16(code))
		buf = append(buf, rec[:]...)
	}
	return buf
}

// reply assembles the raw transfer buffer with the usual instrument reply
// framing ("ALL," plus a #9 definite-length block prefix).
func (tf testFrame) reply() []byte {
	body := tf.bytes()
	pre := fmt.Sprintf("ALL,#9%09d", len(body))
	return append([]byte(pre), body...)
}

func floatEq(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
