// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scope

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeInstrument answers a canned subset of the remote command set on one
// end of a net.Pipe.
type fakeInstrument struct {
	conn net.Conn
	vdiv float64
	trmd []string // successive replies to TRMD?

	mu   sync.Mutex
	seen []string // commands received, in order
}

func (ins *fakeInstrument) commands() []string {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	cmds := make([]string, len(ins.seen))
	copy(cmds, ins.seen)
	return cmds
}

func (ins *fakeInstrument) run(t *testing.T) {
	t.Helper()

	r := bufio.NewReader(ins.conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimRight(line, "\r\n")
		ins.mu.Lock()
		ins.seen = append(ins.seen, cmd)
		ins.mu.Unlock()

		switch {
		case cmd == "*IDN?":
			fmt.Fprintf(ins.conn, "LECROY,WAVERUNNER8254M,LCRY0001,8.1.0\n")
		case cmd == "TRMD?":
			reply := "STOP"
			if len(ins.trmd) > 0 {
				reply, ins.trmd = ins.trmd[0], ins.trmd[1:]
			}
			fmt.Fprintf(ins.conn, "%s\n", reply)
		case cmd == "C1:VDIV?":
			fmt.Fprintf(ins.conn, "%.2E\n", ins.vdiv)
		case strings.HasSuffix(cmd, ":WF? ALL"):
			body := testWaveBody()
			fmt.Fprintf(ins.conn, "ALL,#9%09d", len(body))
			_, _ = ins.conn.Write(body)
			_, _ = ins.conn.Write([]byte("\n"))
		default:
			// setters have no reply.
		}
	}
}

// testWaveBody builds a minimal descriptor plus two samples (codes 10
// and -128, the latter below MIN_VALUE).
func testWaveBody() []byte {
	hdr := make([]byte, 346)
	copy(hdr[0:], "WAVEDESC")
	copy(hdr[16:], "LECROY_2_3")
	binary.BigEndian.PutUint32(hdr[36:], 346) // WAVE_DESCRIPTOR
	binary.BigEndian.PutUint32(hdr[60:], 4)   // WAVE_ARRAY_1
	binary.BigEndian.PutUint32(hdr[116:], 2)  // WAVE_ARRAY_COUNT
	binary.BigEndian.PutUint32(hdr[144:], 1)  // SUBARRAY_COUNT
	binary.BigEndian.PutUint32(hdr[156:], math.Float32bits(0.01)) // VERTICAL_GAIN
	binary.BigEndian.PutUint32(hdr[164:], math.Float32bits(127))  // MAX_VALUE
	binary.BigEndian.PutUint32(hdr[168:], math.Float32bits(-127)) // MIN_VALUE
	binary.BigEndian.PutUint32(hdr[176:], math.Float32bits(1e-9)) // HORIZ_INTERVAL
	copy(hdr[196:], "V")

	return append(hdr, 0x00, 0x0a, 0xff, 0x80)
}

func newTestScope(t *testing.T) (*Scope, *fakeInstrument) {
	t.Helper()

	client, server := net.Pipe()
	ins := &fakeInstrument{conn: server, vdiv: 0.01}
	go ins.run(t)

	s, err := New(client, 0, nil)
	if err != nil {
		t.Fatalf("could not create scope: %+v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
		_ = server.Close()
	})
	return s, ins
}

func TestScopeSession(t *testing.T) {
	s, ins := newTestScope(t)

	idn, err := s.IDN()
	if err != nil {
		t.Fatalf("could not query IDN: %+v", err)
	}
	if !strings.HasPrefix(idn, "LECROY,") {
		t.Fatalf("invalid IDN reply %q", idn)
	}

	if cmds := ins.commands(); len(cmds) == 0 || cmds[0] != "CHDR OFF" {
		t.Fatalf("first command: got %q, want %q", cmds, "CHDR OFF")
	}
}

func TestScopeSetters(t *testing.T) {
	s, ins := newTestScope(t)

	if err := s.SetTrigMode(TrigSingle); err != nil {
		t.Fatalf("could not set trigger mode: %+v", err)
	}
	if err := s.SetVDiv(2, 0.5); err != nil {
		t.Fatalf("could not set vdiv: %+v", err)
	}
	if err := s.SetSequence(10); err != nil {
		t.Fatalf("could not enable sequence mode: %+v", err)
	}
	if err := s.SetSequence(0); err != nil {
		t.Fatalf("could not disable sequence mode: %+v", err)
	}

	// force a round-trip so the setters above have been consumed.
	if _, err := s.GetVDiv(1); err != nil {
		t.Fatalf("could not query vdiv: %+v", err)
	}

	want := []string{
		"CHDR OFF",
		"TRIG_MODE SINGLE",
		"C2:VDIV 5.000000E-01",
		"SEQUENCE ON,10",
		"SEQUENCE OFF",
		"C1:VDIV?",
	}
	cmds := ins.commands()
	for i, cmd := range want {
		if i >= len(cmds) || cmds[i] != cmd {
			t.Fatalf("command %d: got %q, want %q", i, cmds, cmd)
		}
	}
}

func TestScopeInvalidInputs(t *testing.T) {
	s, _ := newTestScope(t)

	if err := s.SetTrigMode(TrigMode("SOMETIMES")); err == nil {
		t.Fatalf("expected an error for invalid trigger mode")
	}
	if err := s.SetVDiv(0, 1.0); err == nil {
		t.Fatalf("expected an error for channel 0")
	}
	if err := s.SetVDiv(5, 1.0); err == nil {
		t.Fatalf("expected an error for channel 5")
	}
	if _, err := s.GetOffset(42); err == nil {
		t.Fatalf("expected an error for channel 42")
	}
	if err := s.SetSequence(-1); err == nil {
		t.Fatalf("expected an error for negative segment count")
	}
}

func TestScopeGetVDiv(t *testing.T) {
	s, _ := newTestScope(t)

	v, err := s.GetVDiv(1)
	if err != nil {
		t.Fatalf("could not query vdiv: %+v", err)
	}
	if got, want := v, 0.01; math.Abs(got-want) > 1e-12 {
		t.Fatalf("vdiv: got %v, want %v", got, want)
	}
}

func TestScopeWaitTrigger(t *testing.T) {
	s, ins := newTestScope(t)
	ins.trmd = []string{"SINGLE", "SINGLE", "STOP"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.WaitTrigger(ctx, time.Millisecond); err != nil {
		t.Fatalf("could not wait for trigger: %+v", err)
	}
}

func TestScopeWaitTriggerCancel(t *testing.T) {
	s, ins := newTestScope(t)
	ins.trmd = []string{"SINGLE", "SINGLE", "SINGLE", "SINGLE", "SINGLE", "SINGLE"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.WaitTrigger(ctx, time.Millisecond); err != context.Canceled {
		t.Fatalf("got err=%v, want context.Canceled", err)
	}
}

func TestScopeWaveform(t *testing.T) {
	s, _ := newTestScope(t)

	set, err := s.Waveform(context.Background(), 1)
	if err != nil {
		t.Fatalf("could not acquire waveform: %+v", err)
	}

	if got, want := len(set.Waveforms), 1; got != want {
		t.Fatalf("got %d waveforms, want %d", got, want)
	}
	wf := set.Waveforms[0]
	if got, want := len(wf.Data), 2; got != want {
		t.Fatalf("got %d samples, want %d", got, want)
	}
	if s0 := wf.Data[0]; !s0.OK || math.Abs(s0.Value-0.10) > 1e-8 {
		t.Errorf("sample 0: got (%v, ok=%v), want (0.10, true)", s0.Value, s0.OK)
	}
	if s1 := wf.Data[1]; s1.OK {
		t.Errorf("sample 1: got (%v, ok=%v), want missing", s1.Value, s1.OK)
	}
	if got, want := wf.Unit, "V"; got != want {
		t.Errorf("unit: got %q, want %q", got, want)
	}
}

func TestScopeWaveformInvalidChannel(t *testing.T) {
	s, _ := newTestScope(t)

	if _, err := s.Waveform(context.Background(), 0); err == nil {
		t.Fatalf("expected an error for channel 0")
	}
}
