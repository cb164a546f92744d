// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lecroy // import "github.com/go-daq/lecroy"

// Header is the decoded WAVEDESC descriptor block. Field names follow the
// vendor template; offsets are relative to the start of the descriptor
// region inside the frame.
//
// Only a handful of fields drive waveform reconstruction (the block
// lengths, SubarrayCount, the vertical gain/offset pair, the valid code
// range, HorizInterval and VertUnit). The remaining fields are decoded for
// completeness and carried verbatim.
type Header struct {
	DescriptorName   string
	TemplateName     string
	CommType         uint16
	CommOrder        uint16
	WaveDescriptor   int32 // length of the descriptor region, bytes
	UserText         int32 // length of the user-text region, bytes
	ResDesc1         int32
	TrigtimeArray    int32 // length of the trigger-time block, bytes
	RisTimeArray     int32 // length of the RIS time block, bytes
	ResArray1        int32
	WaveArray1       int32 // length of the sample array, bytes
	WaveArray2       int32
	ResArray2        int32
	ResArray3        int32
	InstrumentName   string
	InstrumentNumber int32
	TraceLabel       string
	Reserved1        int16
	Reserved2        int16
	WaveArrayCount   int32
	PointsPerScreen  int32
	FirstValidPoint  int32
	LastValidPoint   int32
	FirstPoint       int32
	SparsingFactor   int32
	SegmentIndex     int32
	SubarrayCount    int32 // number of segments in the acquisition
	SweepsPerAcq     int32
	PointsPerPair    int16
	PairOffset       int16
	VerticalGain     float32
	VerticalOffset   float32
	MaxValue         float32 // largest valid raw sample code
	MinValue         float32 // smallest valid raw sample code
	NominalBits      int16
	NomSubarrayCount int16
	HorizInterval    float32 // sampling interval, seconds
	HorizOffset      float64
	PixelOffset      float64
	VertUnit         string
	HorUnit          string
	HorizUncertainty float32
	TriggerTime      TimeStamp
	AcqDuration      float32
	RecordType       uint16
	ProcessingDone   uint16
	Reserved5        int16
	RisSweeps        int16
	TimeBase         uint16
	VertCoupling     uint16
	ProbeAtt         float32
	FixedVertGain    uint16
	BandwidthLimit   uint16
	VerticalVernier  float32
	AcqVertOffset    float32
	WaveSource       uint16
}

// Field is one entry of the WAVEDESC field table.
type Field struct {
	Name string     // vendor field name
	Off  int        // byte offset inside the descriptor region
	Type ScalarType // scalar type of the field

	set func(h *Header, v interface{})
}

// wavedescSize is the extent of the field table: byte 0 through the end
// of WAVE_SOURCE. It matches the smallest WAVE_DESCRIPTOR value declared
// by this instrument family.
const wavedescSize = 346

// wavedesc is the WAVEDESC field table, transcribed from the vendor
// template. It drives the decode loop in DecodeHeader; each entry assigns
// one Header field.
var wavedesc = []Field{
	{"DESCRIPTOR_NAME", 0, TypeString, func(h *Header, v interface{}) { h.DescriptorName = v.(string) }},
	{"TEMPLATE_NAME", 16, TypeString, func(h *Header, v interface{}) { h.TemplateName = v.(string) }},
	{"COMM_TYPE", 32, TypeEnum, func(h *Header, v interface{}) { h.CommType = v.(uint16) }},
	{"COMM_ORDER", 34, TypeEnum, func(h *Header, v interface{}) { h.CommOrder = v.(uint16) }},
	{"WAVE_DESCRIPTOR", 36, TypeLong, func(h *Header, v interface{}) { h.WaveDescriptor = v.(int32) }},
	{"USER_TEXT", 40, TypeLong, func(h *Header, v interface{}) { h.UserText = v.(int32) }},
	{"RES_DESC1", 44, TypeLong, func(h *Header, v interface{}) { h.ResDesc1 = v.(int32) }},
	{"TRIGTIME_ARRAY", 48, TypeLong, func(h *Header, v interface{}) { h.TrigtimeArray = v.(int32) }},
	{"RIS_TIME_ARRAY", 52, TypeLong, func(h *Header, v interface{}) { h.RisTimeArray = v.(int32) }},
	{"RES_ARRAY1", 56, TypeLong, func(h *Header, v interface{}) { h.ResArray1 = v.(int32) }},
	{"WAVE_ARRAY_1", 60, TypeLong, func(h *Header, v interface{}) { h.WaveArray1 = v.(int32) }},
	{"WAVE_ARRAY_2", 64, TypeLong, func(h *Header, v interface{}) { h.WaveArray2 = v.(int32) }},
	{"RES_ARRAY2", 68, TypeLong, func(h *Header, v interface{}) { h.ResArray2 = v.(int32) }},
	{"RES_ARRAY3", 72, TypeLong, func(h *Header, v interface{}) { h.ResArray3 = v.(int32) }},
	{"INSTRUMENT_NAME", 76, TypeString, func(h *Header, v interface{}) { h.InstrumentName = v.(string) }},
	{"INSTRUMENT_NUMBER", 92, TypeLong, func(h *Header, v interface{}) { h.InstrumentNumber = v.(int32) }},
	{"TRACE_LABEL", 96, TypeString, func(h *Header, v interface{}) { h.TraceLabel = v.(string) }},
	{"RESERVED1", 112, TypeWord, func(h *Header, v interface{}) { h.Reserved1 = v.(int16) }},
	{"RESERVED2", 114, TypeWord, func(h *Header, v interface{}) { h.Reserved2 = v.(int16) }},
	{"WAVE_ARRAY_COUNT", 116, TypeLong, func(h *Header, v interface{}) { h.WaveArrayCount = v.(int32) }},
	{"PNTS_PER_SCREEN", 120, TypeLong, func(h *Header, v interface{}) { h.PointsPerScreen = v.(int32) }},
	{"FIRST_VALID_PNT", 124, TypeLong, func(h *Header, v interface{}) { h.FirstValidPoint = v.(int32) }},
	{"LAST_VALID_PNT", 128, TypeLong, func(h *Header, v interface{}) { h.LastValidPoint = v.(int32) }},
	{"FIRST_POINT", 132, TypeLong, func(h *Header, v interface{}) { h.FirstPoint = v.(int32) }},
	{"SPARSING_FACTOR", 136, TypeLong, func(h *Header, v interface{}) { h.SparsingFactor = v.(int32) }},
	{"SEGMENT_INDEX", 140, TypeLong, func(h *Header, v interface{}) { h.SegmentIndex = v.(int32) }},
	{"SUBARRAY_COUNT", 144, TypeLong, func(h *Header, v interface{}) { h.SubarrayCount = v.(int32) }},
	{"SWEEPS_PER_ACQ", 148, TypeLong, func(h *Header, v interface{}) { h.SweepsPerAcq = v.(int32) }},
	{"POINTS_PER_PAIR", 152, TypeWord, func(h *Header, v interface{}) { h.PointsPerPair = v.(int16) }},
	{"PAIR_OFFSET", 154, TypeWord, func(h *Header, v interface{}) { h.PairOffset = v.(int16) }},
	{"VERTICAL_GAIN", 156, TypeFloat, func(h *Header, v interface{}) { h.VerticalGain = v.(float32) }},
	{"VERTICAL_OFFSET", 160, TypeFloat, func(h *Header, v interface{}) { h.VerticalOffset = v.(float32) }},
	{"MAX_VALUE", 164, TypeFloat, func(h *Header, v interface{}) { h.MaxValue = v.(float32) }},
	{"MIN_VALUE", 168, TypeFloat, func(h *Header, v interface{}) { h.MinValue = v.(float32) }},
	{"NOMINAL_BITS", 172, TypeWord, func(h *Header, v interface{}) { h.NominalBits = v.(int16) }},
	{"NOM_SUBARRAY_COUNT", 174, TypeWord, func(h *Header, v interface{}) { h.NomSubarrayCount = v.(int16) }},
	{"HORIZ_INTERVAL", 176, TypeFloat, func(h *Header, v interface{}) { h.HorizInterval = v.(float32) }},
	{"HORIZ_OFFSET", 180, TypeDouble, func(h *Header, v interface{}) { h.HorizOffset = v.(float64) }},
	{"PIXEL_OFFSET", 188, TypeDouble, func(h *Header, v interface{}) { h.PixelOffset = v.(float64) }},
	{"VERTUNIT", 196, TypeUnit, func(h *Header, v interface{}) { h.VertUnit = v.(string) }},
	{"HORUNIT", 244, TypeUnit, func(h *Header, v interface{}) { h.HorUnit = v.(string) }},
	{"HORIZ_UNCERTAINTY", 292, TypeFloat, func(h *Header, v interface{}) { h.HorizUncertainty = v.(float32) }},
	{"TRIGGER_TIME", 296, TypeTimeStamp, func(h *Header, v interface{}) { h.TriggerTime = v.(TimeStamp) }},
	{"ACQ_DURATION", 312, TypeFloat, func(h *Header, v interface{}) { h.AcqDuration = v.(float32) }},
	{"RECORD_TYPE", 316, TypeEnum, func(h *Header, v interface{}) { h.RecordType = v.(uint16) }},
	{"PROCESSING_DONE", 318, TypeEnum, func(h *Header, v interface{}) { h.ProcessingDone = v.(uint16) }},
	{"RESERVED5", 320, TypeWord, func(h *Header, v interface{}) { h.Reserved5 = v.(int16) }},
	{"RIS_SWEEPS", 322, TypeWord, func(h *Header, v interface{}) { h.RisSweeps = v.(int16) }},
	{"TIMEBASE", 324, TypeEnum, func(h *Header, v interface{}) { h.TimeBase = v.(uint16) }},
	{"VERT_COUPLING", 326, TypeEnum, func(h *Header, v interface{}) { h.VertCoupling = v.(uint16) }},
	{"PROBE_ATT", 328, TypeFloat, func(h *Header, v interface{}) { h.ProbeAtt = v.(float32) }},
	{"FIXED_VERT_GAIN", 332, TypeEnum, func(h *Header, v interface{}) { h.FixedVertGain = v.(uint16) }},
	{"BANDWIDTH_LIMIT", 334, TypeEnum, func(h *Header, v interface{}) { h.BandwidthLimit = v.(uint16) }},
	{"VERTICAL_VERNIER", 336, TypeFloat, func(h *Header, v interface{}) { h.VerticalVernier = v.(float32) }},
	{"ACQ_VERT_OFFSET", 340, TypeFloat, func(h *Header, v interface{}) { h.AcqVertOffset = v.(float32) }},
	{"WAVE_SOURCE", 344, TypeEnum, func(h *Header, v interface{}) { h.WaveSource = v.(uint16) }},
}

// Fields returns a copy of the WAVEDESC field table, for auditing the
// decoder against the vendor specification.
func Fields() []Field {
	fields := make([]Field, len(wavedesc))
	copy(fields, wavedesc)
	return fields
}

// DecodeHeader decodes the WAVEDESC descriptor block of frame.
//
// The descriptor region starts dec.Skip bytes into the frame. A frame too
// short for the full field table fails with a *TruncatedFrameError; a
// descriptor-name field different from "WAVEDESC", or a negative declared
// region length, fails with a *MalformedHeaderError. Unknown and reserved
// fields are decoded but not interpreted.
func (dec *Decoder) DecodeHeader(frame []byte) (*Header, error) {
	if need := dec.Skip + wavedescSize; dec.Skip < 0 || len(frame) < need {
		return nil, &TruncatedFrameError{Region: "WAVEDESC", Need: need, Len: len(frame)}
	}
	buf := frame[dec.Skip:]

	var hdr Header
	for _, f := range wavedesc {
		v, err := DecodeScalar(f.Type, buf[f.Off:f.Off+f.Type.Size()])
		if err != nil {
			return nil, err
		}
		f.set(&hdr, v)
	}

	if hdr.DescriptorName != descriptorName {
		return nil, &MalformedHeaderError{Got: hdr.DescriptorName}
	}

	// the region lengths drive the slice arithmetic of the block
	// decoders; a negative one is corrupt instrument data.
	for _, r := range []struct {
		name string
		n    int32
	}{
		{"WAVE_DESCRIPTOR", hdr.WaveDescriptor},
		{"USER_TEXT", hdr.UserText},
		{"TRIGTIME_ARRAY", hdr.TrigtimeArray},
		{"RIS_TIME_ARRAY", hdr.RisTimeArray},
		{"WAVE_ARRAY_1", hdr.WaveArray1},
	} {
		if r.n < 0 {
			return nil, &MalformedHeaderError{Region: r.name, Len: r.n}
		}
	}
	return &hdr, nil
}
