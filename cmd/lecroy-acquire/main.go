// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lecroy-acquire configures an oscilloscope, waits for triggers
// and saves the acquired waveform transfers to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/go-daq/lecroy/flags"
	"github.com/go-daq/lecroy/log"
	"github.com/go-daq/lecroy/scope"
)

func main() {
	var (
		n        = flag.Int("n", 1, "number of acquisitions")
		odir     = flag.String("o", ".", "output directory for raw trace files")
		vdiv     = flag.Float64("vdiv", 0, "vertical scale, volts per division (0: leave unchanged)")
		tdiv     = flag.Float64("tdiv", 0, "horizontal scale, seconds per division (0: leave unchanged)")
		segments = flag.Int("seq", 0, "sequence-mode segment count (0: sequence mode off)")
		poll     = flag.Duration("poll", 100*time.Millisecond, "trigger poll interval")
	)

	cfg := flags.NewScope("lecroy-acquire")
	msg := log.NewMsgStream(cfg.Name, cfg.Level, os.Stdout)

	s, err := scope.Dial(cfg)
	if err != nil {
		log.Fatalf("could not connect to %q: %+v", cfg.Addr, err)
	}
	defer s.Close()

	idn, err := s.IDN()
	if err != nil {
		log.Fatalf("could not identify instrument: %+v", err)
	}
	msg.Infof("connected to %s", idn)

	if *vdiv > 0 {
		if err := s.SetVDiv(cfg.Channel, *vdiv); err != nil {
			log.Fatalf("could not set vertical scale: %+v", err)
		}
	}
	if *tdiv > 0 {
		if err := s.SetTDiv(*tdiv); err != nil {
			log.Fatalf("could not set horizontal scale: %+v", err)
		}
	}
	if err := s.SetSequence(*segments); err != nil {
		log.Fatalf("could not configure sequence mode: %+v", err)
	}

	ctx := context.Background()
	for i := 0; i < *n; i++ {
		if err := acquire(ctx, s, cfg.Channel, *poll, *odir, i, msg); err != nil {
			log.Fatalf("acquisition %d failed: %+v", i, err)
		}
	}
}

func acquire(ctx context.Context, s *scope.Scope, ch int, poll time.Duration, odir string, i int, msg log.MsgStream) error {
	if err := s.SetTrigMode(scope.TrigSingle); err != nil {
		return err
	}
	if err := s.WaitTrigger(ctx, poll); err != nil {
		return err
	}

	frame, skip, err := s.ReadFrame(ctx, ch)
	if err != nil {
		return err
	}

	fname := filepath.Join(odir, fmt.Sprintf("c%d-%05d.trc", ch, i))
	if err := ioutil.WriteFile(fname, frame[skip:], 0644); err != nil {
		return err
	}

	msg.Infof("wrote %s (%d bytes)", fname, len(frame)-skip)
	return nil
}
