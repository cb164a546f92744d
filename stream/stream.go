// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stream publishes decoded waveform sets over nanomsg pub/sub
// sockets, with a compact little-endian wire format.
package stream // import "github.com/go-daq/lecroy/stream"

import (
	"bytes"

	"github.com/go-daq/lecroy"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"
	"golang.org/x/xerrors"

	_ "go.nanomsg.org/mangos/v3/transport/ipc"
	_ "go.nanomsg.org/mangos/v3/transport/tcp"
)

const (
	magic   = 0x4c435746 // "LCWF"
	version = 1
)

// Marshal encodes set into the stream wire format.
//
// The wire format carries the acquisition parameters needed downstream
// (segment count, scaling, sample interval, unit labels), the
// trigger-time block and the reconstructed waveforms; the remaining
// descriptor fields are not transported.
func Marshal(set *lecroy.Set) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)

	enc.WriteU32(magic)
	enc.WriteU8(version)

	hdr := set.Header
	enc.WriteStr(hdr.InstrumentName)
	enc.WriteStr(hdr.TraceLabel)
	enc.WriteI32(hdr.WaveArrayCount)
	enc.WriteI32(hdr.SubarrayCount)
	enc.WriteF32(hdr.VerticalGain)
	enc.WriteF32(hdr.VerticalOffset)
	enc.WriteF32(hdr.MaxValue)
	enc.WriteF32(hdr.MinValue)
	enc.WriteF32(hdr.HorizInterval)
	enc.WriteF64(hdr.HorizOffset)
	enc.WriteStr(hdr.VertUnit)
	enc.WriteStr(hdr.HorUnit)

	enc.WriteU32(uint32(len(set.TrigTimes)))
	for _, tt := range set.TrigTimes {
		enc.WriteF64(tt.Time)
		enc.WriteF64(tt.Offset)
	}

	enc.WriteU32(uint32(len(set.Waveforms)))
	for _, wf := range set.Waveforms {
		enc.WriteStr(wf.Unit)
		enc.WriteU64(uint64(len(wf.Time)))
		for _, t := range wf.Time {
			enc.WriteF64(t)
		}
		for _, v := range wf.Data {
			enc.WriteF64(v.Value)
			enc.WriteBool(v.OK)
		}
	}

	if err := enc.Err(); err != nil {
		return nil, xerrors.Errorf("stream: could not marshal waveform set: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a waveform set from the stream wire format.
//
// The returned set carries a partial header: only the fields transported
// by Marshal are populated.
func Unmarshal(p []byte) (*lecroy.Set, error) {
	dec := NewDecoder(bytes.NewReader(p))

	if m := dec.ReadU32(); m != magic || dec.Err() != nil {
		return nil, xerrors.Errorf("stream: bad magic 0x%x", m)
	}
	if v := dec.ReadU8(); v != version {
		return nil, xerrors.Errorf("stream: unknown stream version %d", v)
	}

	var hdr lecroy.Header
	hdr.InstrumentName = dec.ReadStr()
	hdr.TraceLabel = dec.ReadStr()
	hdr.WaveArrayCount = dec.ReadI32()
	hdr.SubarrayCount = dec.ReadI32()
	hdr.VerticalGain = dec.ReadF32()
	hdr.VerticalOffset = dec.ReadF32()
	hdr.MaxValue = dec.ReadF32()
	hdr.MinValue = dec.ReadF32()
	hdr.HorizInterval = dec.ReadF32()
	hdr.HorizOffset = dec.ReadF64()
	hdr.VertUnit = dec.ReadStr()
	hdr.HorUnit = dec.ReadStr()

	// bound wire-supplied counts by the message length before allocating:
	// a trigger record is 16 wire bytes, a waveform at least 16, a sample
	// point 17 (time, value, ok flag).
	ntrig := dec.ReadU32()
	if uint64(ntrig)*16 > uint64(len(p)) {
		return nil, xerrors.Errorf("stream: corrupt trigger-time count %d in %d-byte message", ntrig, len(p))
	}
	trigs := make([]lecroy.TrigTime, ntrig)
	for i := range trigs {
		trigs[i].Time = dec.ReadF64()
		trigs[i].Offset = dec.ReadF64()
	}
	if len(trigs) == 0 {
		trigs = nil
	}

	nwf := dec.ReadU32()
	if uint64(nwf)*16 > uint64(len(p)) {
		return nil, xerrors.Errorf("stream: corrupt waveform count %d in %d-byte message", nwf, len(p))
	}
	wfs := make([]lecroy.Waveform, nwf)
	for i := range wfs {
		wfs[i].Unit = dec.ReadStr()
		n := dec.ReadU64()
		if dec.Err() != nil {
			break
		}
		if n > uint64(len(p))/17 {
			return nil, xerrors.Errorf("stream: corrupt sample count %d in %d-byte message", n, len(p))
		}
		wfs[i].Time = make([]float64, n)
		for k := range wfs[i].Time {
			wfs[i].Time[k] = dec.ReadF64()
		}
		wfs[i].Data = make([]lecroy.Sample, n)
		for k := range wfs[i].Data {
			wfs[i].Data[k].Value = dec.ReadF64()
			wfs[i].Data[k].OK = dec.ReadBool()
		}
	}

	if err := dec.Err(); err != nil {
		return nil, xerrors.Errorf("stream: could not unmarshal waveform set: %w", err)
	}
	return &lecroy.Set{Header: &hdr, TrigTimes: trigs, Waveforms: wfs}, nil
}

// A Publisher publishes waveform sets on a pub socket.
type Publisher struct {
	sck mangos.Socket
	lis mangos.Listener
}

// NewPublisher creates a pub socket and listens on ep
// (e.g. "tcp://:44100" or "ipc:///tmp/lecroy.sock").
func NewPublisher(ep string) (*Publisher, error) {
	sck, lis, err := makeListener(pub.NewSocket, ep)
	if err != nil {
		return nil, err
	}
	return &Publisher{sck: sck, lis: lis}, nil
}

// Send publishes one waveform set.
func (p *Publisher) Send(set *lecroy.Set) error {
	buf, err := Marshal(set)
	if err != nil {
		return err
	}
	err = p.sck.Send(buf)
	if err != nil {
		return xerrors.Errorf("stream: could not publish waveform set: %w", err)
	}
	return nil
}

// Close closes the publisher socket.
func (p *Publisher) Close() error {
	err := p.lis.Close()
	if err2 := p.sck.Close(); err == nil {
		err = err2
	}
	return err
}

// A Subscriber receives waveform sets from a pub end-point.
type Subscriber struct {
	sck mangos.Socket
}

// NewSubscriber creates a sub socket and dials the publisher at ep.
func NewSubscriber(ep string) (*Subscriber, error) {
	sck, err := sub.NewSocket()
	if err != nil {
		return nil, xerrors.Errorf("stream: could not create sub socket: %w", err)
	}

	err = sck.SetOption(mangos.OptionSubscribe, []byte(""))
	if err != nil {
		_ = sck.Close()
		return nil, xerrors.Errorf("stream: could not subscribe: %w", err)
	}

	err = sck.Dial(ep)
	if err != nil {
		_ = sck.Close()
		return nil, xerrors.Errorf("stream: could not dial %q: %w", ep, err)
	}

	return &Subscriber{sck: sck}, nil
}

// Recv receives the next waveform set, blocking until one arrives.
func (s *Subscriber) Recv() (*lecroy.Set, error) {
	raw, err := s.sck.Recv()
	if err != nil {
		return nil, xerrors.Errorf("stream: could not receive waveform set: %w", err)
	}
	return Unmarshal(raw)
}

// Close closes the subscriber socket.
func (s *Subscriber) Close() error {
	return s.sck.Close()
}

func makeListener(fun func() (mangos.Socket, error), ep string) (mangos.Socket, mangos.Listener, error) {
	sck, err := fun()
	if err != nil {
		return nil, nil, xerrors.Errorf("stream: could not create socket %q: %w", ep, err)
	}

	lis, err := sck.NewListener(ep, nil)
	if err != nil {
		_ = sck.Close()
		return nil, nil, xerrors.Errorf("stream: could not create listener %q: %w", ep, err)
	}

	err = lis.Listen()
	if err != nil {
		_ = lis.Close()
		_ = sck.Close()
		return nil, nil, xerrors.Errorf("stream: could not listen on %q: %w", ep, err)
	}

	return sck, lis, nil
}
