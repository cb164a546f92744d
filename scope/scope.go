// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scope drives a LeCroy/Teledyne oscilloscope over its remote
// command port: ASCII command/response exchanges plus raw binary waveform
// transfers, decoded with the lecroy package.
package scope // import "github.com/go-daq/lecroy/scope"

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-daq/lecroy"
	"github.com/go-daq/lecroy/config"
	"github.com/go-daq/lecroy/log"
	"golang.org/x/xerrors"
)

// NumChannels is the number of analog input channels of the supported
// instrument family.
const NumChannels = 4

// TrigMode is an instrument trigger mode.
type TrigMode string

// Trigger modes understood by the instrument.
const (
	TrigAuto   TrigMode = "AUTO"
	TrigNorm   TrigMode = "NORM"
	TrigSingle TrigMode = "SINGLE"
	TrigStop   TrigMode = "STOP"
)

// TrigSlope is an edge-trigger slope.
type TrigSlope string

// Trigger slopes understood by the instrument.
const (
	SlopePos TrigSlope = "POS"
	SlopeNeg TrigSlope = "NEG"
)

// Scope is a connection to one oscilloscope.
//
// Scope is not safe for concurrent use: the instrument interleaves
// replies on a single stream.
type Scope struct {
	conn    net.Conn
	r       *bufio.Reader
	msg     log.MsgStream
	timeout time.Duration
}

// Dial connects to the oscilloscope described by cfg.
func Dial(cfg config.Scope) (*Scope, error) {
	conn, err := net.DialTimeout("tcp", cfg.Addr, cfg.Timeout)
	if err != nil {
		return nil, xerrors.Errorf("scope: could not dial %q: %w", cfg.Addr, err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		setupTCPConn(tcp)
	}
	msg := log.NewMsgStream(cfg.Name, cfg.Level, nil)
	return New(conn, cfg.Timeout, msg)
}

// New wraps an already established connection to an oscilloscope.
//
// New configures the instrument to reply without command-header echo
// (CHDR OFF), so query replies carry numerical data only.
func New(conn net.Conn, timeout time.Duration, msg log.MsgStream) (*Scope, error) {
	if msg == nil {
		msg = log.Default
	}
	s := &Scope{
		conn:    conn,
		r:       bufio.NewReader(conn),
		msg:     msg,
		timeout: timeout,
	}
	if err := s.Write("CHDR OFF"); err != nil {
		return nil, xerrors.Errorf("scope: could not disable command headers: %w", err)
	}
	return s, nil
}

// Close closes the connection to the instrument.
func (s *Scope) Close() error {
	return s.conn.Close()
}

func setupTCPConn(conn *net.TCPConn) {
	var err error

	err = conn.SetKeepAlive(true)
	if err != nil {
		log.Warnf("could not set keep-alive: %v", err)
	}
	err = conn.SetLinger(1)
	if err != nil {
		log.Warnf("could not set linger: %v", err)
	}
}

func (s *Scope) deadline() {
	if s.timeout > 0 {
		_ = s.conn.SetDeadline(time.Now().Add(s.timeout))
	}
}

// Write sends one command to the instrument.
func (s *Scope) Write(cmd string) error {
	s.deadline()
	s.msg.Debugf("-> %s", cmd)
	_, err := fmt.Fprintf(s.conn, "%s\n", cmd)
	if err != nil {
		return xerrors.Errorf("scope: could not send command %q: %w", cmd, err)
	}
	return nil
}

// Query sends one command to the instrument and reads the reply line.
func (s *Scope) Query(cmd string) (string, error) {
	if err := s.Write(cmd); err != nil {
		return "", err
	}
	s.deadline()
	line, err := s.r.ReadString('\n')
	if err != nil {
		return "", xerrors.Errorf("scope: could not read reply to %q: %w", cmd, err)
	}
	line = strings.TrimRight(line, "\r\n")
	s.msg.Debugf("<- %s", line)
	return line, nil
}

func (s *Scope) queryFloat(cmd string) (float64, error) {
	str, err := s.Query(cmd)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, xerrors.Errorf("scope: could not parse reply %q to %q: %w", str, cmd, err)
	}
	return v, nil
}

func validateChannel(ch int) error {
	if ch < 1 || ch > NumChannels {
		return xerrors.Errorf("scope: invalid channel %d (valid: 1..%d)", ch, NumChannels)
	}
	return nil
}

// IDN returns the instrument identification string.
func (s *Scope) IDN() (string, error) {
	return s.Query("*IDN?")
}

// SetTrigMode sets the trigger mode.
func (s *Scope) SetTrigMode(mode TrigMode) error {
	switch mode {
	case TrigAuto, TrigNorm, TrigSingle, TrigStop:
		// ok
	default:
		return xerrors.Errorf("scope: invalid trigger mode %q", mode)
	}
	return s.Write("TRIG_MODE " + string(mode))
}

// GetTrigMode returns the current trigger mode.
func (s *Scope) GetTrigMode() (TrigMode, error) {
	str, err := s.Query("TRMD?")
	if err != nil {
		return "", err
	}
	return TrigMode(strings.ToUpper(strings.TrimSpace(str))), nil
}

// SetTrigSource selects the edge-trigger source channel.
func (s *Scope) SetTrigSource(ch int) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	return s.Write(fmt.Sprintf("TRIG_SELECT EDGE,SR,C%d", ch))
}

// SetTrigSlope sets the edge-trigger slope of channel ch.
func (s *Scope) SetTrigSlope(ch int, slope TrigSlope) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	switch slope {
	case SlopePos, SlopeNeg:
		// ok
	default:
		return xerrors.Errorf("scope: invalid trigger slope %q", slope)
	}
	return s.Write(fmt.Sprintf("C%d:TRIG_SLOPE %s", ch, slope))
}

// SetTrigCoupling sets the trigger coupling of channel ch
// (DC, AC, HFREJ or LFREJ).
func (s *Scope) SetTrigCoupling(ch int, coupling string) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	switch strings.ToUpper(coupling) {
	case "DC", "AC", "HFREJ", "LFREJ":
		// ok
	default:
		return xerrors.Errorf("scope: invalid trigger coupling %q", coupling)
	}
	return s.Write(fmt.Sprintf("C%d:TRIG_COUPLING %s", ch, strings.ToUpper(coupling)))
}

// SetTrigDelay sets the trigger delay, in seconds.
func (s *Scope) SetTrigDelay(seconds float64) error {
	return s.Write(fmt.Sprintf("TRIG_DELAY %E", seconds))
}

// SetTrigLevel sets the trigger level of channel ch, in volts.
func (s *Scope) SetTrigLevel(ch int, volts float64) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	return s.Write(fmt.Sprintf("C%d:TRIG_LEVEL %E", ch, volts))
}

// SetVDiv sets the vertical scale of channel ch, in volts per division.
func (s *Scope) SetVDiv(ch int, volts float64) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	return s.Write(fmt.Sprintf("C%d:VDIV %E", ch, volts))
}

// GetVDiv returns the vertical scale of channel ch, in volts per division.
func (s *Scope) GetVDiv(ch int) (float64, error) {
	if err := validateChannel(ch); err != nil {
		return 0, err
	}
	return s.queryFloat(fmt.Sprintf("C%d:VDIV?", ch))
}

// SetOffset sets the vertical offset of channel ch, in volts.
func (s *Scope) SetOffset(ch int, volts float64) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	return s.Write(fmt.Sprintf("C%d:OFST %E", ch, volts))
}

// GetOffset returns the vertical offset of channel ch, in volts.
func (s *Scope) GetOffset(ch int) (float64, error) {
	if err := validateChannel(ch); err != nil {
		return 0, err
	}
	return s.queryFloat(fmt.Sprintf("C%d:OFST?", ch))
}

// SetTDiv sets the horizontal scale, in seconds per division.
func (s *Scope) SetTDiv(seconds float64) error {
	return s.Write(fmt.Sprintf("TDIV %E", seconds))
}

// GetTDiv returns the horizontal scale, in seconds per division.
func (s *Scope) GetTDiv() (float64, error) {
	return s.queryFloat("TDIV?")
}

// SetSequence enables sequence-mode acquisition with the given number of
// segments, or disables it when segments is zero.
func (s *Scope) SetSequence(segments int) error {
	if segments < 0 {
		return xerrors.Errorf("scope: invalid segment count %d", segments)
	}
	if segments == 0 {
		return s.Write("SEQUENCE OFF")
	}
	return s.Write(fmt.Sprintf("SEQUENCE ON,%d", segments))
}

// Arm arms the acquisition system for a single capture.
func (s *Scope) Arm() error {
	return s.Write("ARM")
}

// ForceTrigger forces one trigger.
func (s *Scope) ForceTrigger() error {
	return s.Write("FORCE_TRIGGER")
}

// WaitTrigger polls the trigger state every interval until the
// acquisition has stopped (trigger mode STOP) or ctx is done.
func (s *Scope) WaitTrigger(ctx context.Context, interval time.Duration) error {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			mode, err := s.GetTrigMode()
			if err != nil {
				return err
			}
			if mode == TrigStop {
				return nil
			}
		}
	}
}

// ReadFrame issues a full waveform query for channel ch and returns the
// complete raw reply buffer together with the number of leading transport
// bytes that precede the WAVEDESC region.
func (s *Scope) ReadFrame(ctx context.Context, ch int) (frame []byte, skip int, err error) {
	if err := validateChannel(ch); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = s.conn.SetDeadline(dl)
	}
	if err := s.Write(fmt.Sprintf("C%d:WF? ALL", ch)); err != nil {
		return nil, 0, err
	}
	return s.readBlock()
}

// readBlock reads one "ALL,#<n><len><data>" definite-length block reply,
// including its trailing newline terminator.
func (s *Scope) readBlock() (frame []byte, skip int, err error) {
	s.deadline()

	var buf bytes.Buffer

	mnem := make([]byte, 4)
	if _, err := io.ReadFull(s.r, mnem); err != nil {
		return nil, 0, xerrors.Errorf("scope: could not read waveform reply: %w", err)
	}
	if string(mnem) != "ALL," {
		return nil, 0, xerrors.Errorf("scope: unexpected waveform reply prefix %q", mnem)
	}
	buf.Write(mnem)

	hash, err := s.r.ReadByte()
	if err != nil {
		return nil, 0, xerrors.Errorf("scope: could not read block marker: %w", err)
	}
	if hash != '#' {
		return nil, 0, xerrors.Errorf("scope: unexpected block marker %q, want '#'", hash)
	}
	buf.WriteByte(hash)

	nd, err := s.r.ReadByte()
	if err != nil {
		return nil, 0, xerrors.Errorf("scope: could not read block length digit: %w", err)
	}
	if nd < '1' || nd > '9' {
		return nil, 0, xerrors.Errorf("scope: invalid block length digit %q", nd)
	}
	buf.WriteByte(nd)

	digits := make([]byte, int(nd-'0'))
	if _, err := io.ReadFull(s.r, digits); err != nil {
		return nil, 0, xerrors.Errorf("scope: could not read block length: %w", err)
	}
	buf.Write(digits)

	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return nil, 0, xerrors.Errorf("scope: invalid block length %q: %w", digits, err)
	}

	skip = buf.Len()

	payload := make([]byte, n)
	if _, err := io.ReadFull(s.r, payload); err != nil {
		return nil, 0, xerrors.Errorf("scope: could not read %d-byte waveform block: %w", n, err)
	}
	buf.Write(payload)

	// trailing terminator
	if b, err := s.r.ReadByte(); err == nil && b != '\n' {
		_ = s.r.UnreadByte()
	}

	return buf.Bytes(), skip, nil
}

// Waveform acquires the waveform of channel ch and decodes it.
func (s *Scope) Waveform(ctx context.Context, ch int) (*lecroy.Set, error) {
	frame, skip, err := s.ReadFrame(ctx, ch)
	if err != nil {
		return nil, err
	}
	dec := &lecroy.Decoder{Skip: skip}
	set, err := dec.Decode(frame)
	if err != nil {
		return nil, xerrors.Errorf("scope: could not decode channel %d waveform: %w", ch, err)
	}
	return set, nil
}
