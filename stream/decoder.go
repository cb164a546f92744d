// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream // import "github.com/go-daq/lecroy/stream"

import (
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/xerrors"
)

// A Decoder reads the waveform stream wire format. The first error
// sticks: subsequent reads return zero values and Err reports it.
type Decoder struct {
	r   io.Reader
	err error
	buf []byte
}

// NewDecoder returns a new Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, buf: make([]byte, 8)}
}

// Err returns the first error encountered by the decoder.
func (dec *Decoder) Err() error { return dec.err }

func (dec *Decoder) load(n int) {
	if dec.err != nil {
		copy(dec.buf, []byte{0, 0, 0, 0, 0, 0, 0, 0})
		return
	}
	_, dec.err = io.ReadFull(dec.r, dec.buf[:n])
}

func (dec *Decoder) ReadU8() uint8 {
	dec.load(1)
	return dec.buf[0]
}

func (dec *Decoder) ReadU16() uint16 {
	dec.load(2)
	return binary.LittleEndian.Uint16(dec.buf[:2])
}

func (dec *Decoder) ReadI32() int32 {
	dec.load(4)
	return int32(binary.LittleEndian.Uint32(dec.buf[:4]))
}

func (dec *Decoder) ReadU32() uint32 {
	dec.load(4)
	return binary.LittleEndian.Uint32(dec.buf[:4])
}

func (dec *Decoder) ReadU64() uint64 {
	dec.load(8)
	return binary.LittleEndian.Uint64(dec.buf[:8])
}

func (dec *Decoder) ReadF32() float32 {
	dec.load(4)
	return math.Float32frombits(binary.LittleEndian.Uint32(dec.buf[:4]))
}

func (dec *Decoder) ReadF64() float64 {
	dec.load(8)
	return math.Float64frombits(binary.LittleEndian.Uint64(dec.buf[:8]))
}

func (dec *Decoder) ReadBool() bool {
	return dec.ReadU8() != 0
}

// maxStrLen bounds wire-supplied string lengths; the format only
// carries instrument names, trace labels and unit strings.
const maxStrLen = 1 << 20

func (dec *Decoder) ReadStr() string {
	n := dec.ReadU64()
	if n == 0 || dec.err != nil {
		return ""
	}
	if n > maxStrLen {
		dec.err = xerrors.Errorf("stream: corrupt string length %d", n)
		return ""
	}
	str := make([]byte, n)
	_, dec.err = io.ReadFull(dec.r, str)
	return string(str)
}
