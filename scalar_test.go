// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lecroy_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/go-daq/lecroy"
	"golang.org/x/xerrors"
)

func TestDecodeScalar(t *testing.T) {
	for _, tt := range []struct {
		name string
		typ  lecroy.ScalarType
		raw  []byte
		want interface{}
	}{
		{
			name: "byte",
			typ:  lecroy.TypeByte,
			raw:  []byte{0xd6},
			want: int8(-42),
		},
		{
			name: "word",
			typ:  lecroy.TypeWord,
			raw:  []byte{0xff, 0x80},
			want: int16(-128),
		},
		{
			name: "long",
			typ:  lecroy.TypeLong,
			raw:  []byte{0x00, 0x00, 0x01, 0x5a},
			want: int32(346),
		},
		{
			name: "enum",
			typ:  lecroy.TypeEnum,
			raw:  []byte{0xff, 0xfe},
			want: uint16(0xfffe),
		},
		{
			name: "float",
			typ:  lecroy.TypeFloat,
			raw:  []byte{0x3c, 0x23, 0xd7, 0x0a},
			want: float32(0.01),
		},
		{
			name: "double",
			typ:  lecroy.TypeDouble,
			raw:  []byte{0x3f, 0xf8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			want: float64(1.5),
		},
		{
			name: "string",
			typ:  lecroy.TypeString,
			raw:  append([]byte("WAVEDESC"), make([]byte, 8)...),
			want: "WAVEDESC",
		},
		{
			name: "string-embedded-nul",
			typ:  lecroy.TypeString,
			raw:  append([]byte("AB\x00C"), make([]byte, 12)...),
			want: "AB\x00C",
		},
		{
			name: "unit",
			typ:  lecroy.TypeUnit,
			raw:  append([]byte("V"), make([]byte, 47)...),
			want: "V",
		},
		{
			name: "time-stamp",
			typ:  lecroy.TypeTimeStamp,
			raw: []byte{
				0x40, 0x46, 0xd0, 0x00, 0x00, 0x00, 0x00, 0x00, // 45.625 s
				34, 12, 27, 11, // min, hour, day, month
				0x07, 0xe5, // year 2021
				0, 0,
			},
			want: lecroy.TimeStamp{
				Seconds: 45.625,
				Minutes: 34,
				Hours:   12,
				Days:    27,
				Months:  11,
				Year:    2021,
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lecroy.DecodeScalar(tt.typ, tt.raw)
			if err != nil {
				t.Fatalf("could not decode scalar: %+v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("invalid value:\ngot = %v\nwant= %v\n", got, tt.want)
			}

			// same bytes, same value.
			again, err := lecroy.DecodeScalar(tt.typ, tt.raw)
			if err != nil {
				t.Fatalf("could not re-decode scalar: %+v", err)
			}
			if !reflect.DeepEqual(again, got) {
				t.Fatalf("decode is not idempotent:\nfirst = %v\nsecond= %v\n", got, again)
			}

			// wrong lengths always fail.
			for _, n := range []int{0, len(tt.raw) - 1, len(tt.raw) + 1} {
				if n < 0 {
					continue
				}
				raw := make([]byte, n)
				copy(raw, tt.raw)
				_, err := lecroy.DecodeScalar(tt.typ, raw)
				var serr *lecroy.ScalarTypeError
				if !xerrors.As(err, &serr) {
					t.Fatalf("len=%d: got err=%+v, want *ScalarTypeError", n, err)
				}
			}
		})
	}
}

func TestDecodeScalarUnknownType(t *testing.T) {
	_, err := lecroy.DecodeScalar(lecroy.ScalarType(42), []byte{0x00})
	var serr *lecroy.ScalarTypeError
	if !xerrors.As(err, &serr) {
		t.Fatalf("got err=%+v, want *ScalarTypeError", err)
	}
}

func TestScalarTypeSize(t *testing.T) {
	for _, tt := range []struct {
		typ  lecroy.ScalarType
		want int
	}{
		{lecroy.TypeByte, 1},
		{lecroy.TypeWord, 2},
		{lecroy.TypeLong, 4},
		{lecroy.TypeEnum, 2},
		{lecroy.TypeFloat, 4},
		{lecroy.TypeDouble, 8},
		{lecroy.TypeString, 16},
		{lecroy.TypeUnit, 48},
		{lecroy.TypeTimeStamp, 16},
		{lecroy.ScalarType(42), 0},
	} {
		if got := tt.typ.Size(); got != tt.want {
			t.Errorf("%v: got size=%d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestTimeStampTime(t *testing.T) {
	ts := lecroy.TimeStamp{
		Seconds: 45.5,
		Minutes: 34,
		Hours:   12,
		Days:    27,
		Months:  11,
		Year:    2021,
	}
	want := time.Date(2021, time.November, 27, 12, 34, 45, 500000000, time.UTC)
	if got := ts.Time(); !got.Equal(want) {
		t.Fatalf("invalid time:\ngot = %v\nwant= %v\n", got, want)
	}
}
