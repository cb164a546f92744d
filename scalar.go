// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lecroy // import "github.com/go-daq/lecroy"

import (
	"encoding/binary"
	"math"
	"strings"
	"time"
)

// ScalarType enumerates the scalar types of the waveform template.
// Every type has a fixed byte length.
type ScalarType byte

const (
	TypeByte      ScalarType = iota // 8-bit signed integer
	TypeWord                        // 16-bit signed integer
	TypeLong                        // 32-bit signed integer
	TypeEnum                        // 16-bit unsigned enumeration
	TypeFloat                       // IEEE-754 single precision
	TypeDouble                      // IEEE-754 double precision
	TypeString                      // 16-byte NUL-padded ASCII text
	TypeUnit                        // 48-byte NUL-padded unit definition
	TypeTimeStamp                   // 16-byte composite calendar timestamp
)

// Size returns the byte length of values of type typ, or 0 for an
// unknown type tag.
func (typ ScalarType) Size() int {
	switch typ {
	case TypeByte:
		return 1
	case TypeWord, TypeEnum:
		return 2
	case TypeLong, TypeFloat:
		return 4
	case TypeDouble:
		return 8
	case TypeString, TypeTimeStamp:
		return 16
	case TypeUnit:
		return 48
	}
	return 0
}

func (typ ScalarType) String() string {
	switch typ {
	case TypeByte:
		return "byte"
	case TypeWord:
		return "word"
	case TypeLong:
		return "long"
	case TypeEnum:
		return "enum"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeUnit:
		return "unit_definition"
	case TypeTimeStamp:
		return "time_stamp"
	}
	return "unknown"
}

// TimeStamp is the composite calendar timestamp of the waveform template:
// seconds (with sub-second fraction) plus verbatim calendar fields.
type TimeStamp struct {
	Seconds float64
	Minutes uint8
	Hours   uint8
	Days    uint8
	Months  uint8
	Year    uint16
}

// Time converts the timestamp to a time.Time in UTC.
func (ts TimeStamp) Time() time.Time {
	sec := math.Floor(ts.Seconds)
	nsec := math.Round((ts.Seconds - sec) * 1e9)
	return time.Date(
		int(ts.Year), time.Month(ts.Months), int(ts.Days),
		int(ts.Hours), int(ts.Minutes), int(sec), int(nsec),
		time.UTC,
	)
}

// DecodeScalar decodes exactly one scalar of type typ from p.
//
// The concrete type of the returned value depends on typ: int8 (byte),
// int16 (word), int32 (long), uint16 (enum), float32 (float), float64
// (double), string (string, unit_definition) or TimeStamp (time_stamp).
// DecodeScalar fails with a *ScalarTypeError when typ is unknown or when
// len(p) differs from the declared length of typ.
func DecodeScalar(typ ScalarType, p []byte) (interface{}, error) {
	if n := typ.Size(); n == 0 || len(p) != n {
		return nil, &ScalarTypeError{Type: typ, Len: len(p)}
	}
	switch typ {
	case TypeByte:
		return int8(p[0]), nil
	case TypeWord:
		return int16(binary.BigEndian.Uint16(p)), nil
	case TypeLong:
		return int32(binary.BigEndian.Uint32(p)), nil
	case TypeEnum:
		return binary.BigEndian.Uint16(p), nil
	case TypeFloat:
		return f32be(p), nil
	case TypeDouble:
		return f64be(p), nil
	case TypeString, TypeUnit:
		return cstring(p), nil
	case TypeTimeStamp:
		return TimeStamp{
			Seconds: f64be(p[0:8]),
			Minutes: p[8],
			Hours:   p[9],
			Days:    p[10],
			Months:  p[11],
			Year:    binary.BigEndian.Uint16(p[12:14]),
		}, nil
	}
	return nil, &ScalarTypeError{Type: typ, Len: len(p)}
}

func f32be(p []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(p))
}

func f64be(p []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(p))
}

// cstring strips the trailing NUL padding of a fixed-length text field.
// Embedded non-NUL bytes are kept verbatim.
func cstring(p []byte) string {
	return strings.TrimRight(string(p), "\x00")
}
