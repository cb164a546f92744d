// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lecroy-monitor subscribes to a waveform publisher and prints a
// per-segment summary of every waveform set it receives.
package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/go-daq/lecroy"
	"github.com/go-daq/lecroy/flags"
	"github.com/go-daq/lecroy/log"
	"github.com/go-daq/lecroy/stream"
	"gonum.org/v1/gonum/stat"
)

func main() {
	cfg := flags.NewStream("lecroy-monitor")
	msg := log.NewMsgStream(cfg.Name, cfg.Level, os.Stdout)

	if cfg.Sub == "" {
		log.Fatalf("missing -sub address of the waveform publisher")
	}

	sck, err := stream.NewSubscriber(cfg.Sub)
	if err != nil {
		log.Fatalf("could not subscribe to %q: %+v", cfg.Sub, err)
	}
	defer sck.Close()
	msg.Infof("subscribed to %s", cfg.Sub)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	closing := make(chan struct{})
	go func() {
		<-quit
		close(closing)
		// unblocks the pending Recv.
		_ = sck.Close()
	}()

	n := 0
	for {
		set, err := sck.Recv()
		if err != nil {
			select {
			case <-closing:
				msg.Infof("received %d waveform set(s)", n)
			default:
				msg.Errorf("could not receive waveform set: %+v", err)
			}
			return
		}
		n++
		report(msg, n, set)
	}
}

func report(msg log.MsgStream, n int, set *lecroy.Set) {
	hdr := set.Header
	msg.Infof("set %d: %s trace %q, %d segment(s), dt=%g s",
		n, hdr.InstrumentName, hdr.TraceLabel, len(set.Waveforms), hdr.HorizInterval,
	)

	for i, wf := range set.Waveforms {
		var (
			vals    []float64
			missing int
		)
		for _, s := range wf.Data {
			if !s.OK {
				missing++
				continue
			}
			vals = append(vals, s.Value)
		}

		line := fmt.Sprintf("  segment %d: %d samples, %d missing", i, len(wf.Data), missing)
		if len(vals) > 0 {
			mean, std := stat.MeanStdDev(vals, nil)
			if math.IsNaN(std) {
				std = 0
			}
			line += fmt.Sprintf(", mean=%g %s, std=%g", mean, wf.Unit, std)
		}
		msg.Infof("%s", line)
	}
}
