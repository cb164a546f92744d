// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lecroy-daq acquires waveforms from an oscilloscope (or
// simulates them) and publishes the decoded sets on a pub end-point.
package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/go-daq/lecroy"
	"github.com/go-daq/lecroy/flags"
	"github.com/go-daq/lecroy/log"
	"github.com/go-daq/lecroy/scope"
	"github.com/go-daq/lecroy/stream"
	"golang.org/x/exp/rand"
)

func main() {
	var (
		ep   = flag.String("pub", "tcp://:44100", "address the waveform publisher listens on")
		sim  = flag.Bool("sim", false, "simulate waveforms instead of driving an instrument")
		seed = flag.Uint64("seed", 1234, "seed for the simulation random number generator")
		freq = flag.Duration("freq", time.Second, "acquisition repeat interval")
		poll = flag.Duration("poll", 100*time.Millisecond, "trigger poll interval")
	)

	cfg := flags.NewScope("lecroy-daq")
	msg := log.NewMsgStream(cfg.Name, cfg.Level, os.Stdout)

	pub, err := stream.NewPublisher(*ep)
	if err != nil {
		log.Fatalf("could not create publisher on %q: %+v", *ep, err)
	}
	defer pub.Close()
	msg.Infof("publishing waveforms on %s", *ep)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var src source
	switch {
	case *sim:
		src = &simSource{rnd: rand.New(rand.NewSource(*seed))}
		msg.Infof("running in simulation mode (seed=%d)", *seed)
	default:
		s, err := scope.Dial(cfg)
		if err != nil {
			log.Fatalf("could not connect to %q: %+v", cfg.Addr, err)
		}
		defer s.Close()
		src = &scopeSource{s: s, ch: cfg.Channel, poll: *poll}
	}

	tick := time.NewTicker(*freq)
	defer tick.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			msg.Infof("published %d waveform set(s)", n)
			return
		case <-tick.C:
			set, err := src.next(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Fatalf("could not acquire waveform: %+v", err)
			}
			if err := pub.Send(set); err != nil {
				log.Fatalf("could not publish waveform: %+v", err)
			}
			n++
			msg.Debugf("published waveform set %d (%d segment(s))", n, len(set.Waveforms))
		}
	}
}

type source interface {
	next(ctx context.Context) (*lecroy.Set, error)
}

type scopeSource struct {
	s    *scope.Scope
	ch   int
	poll time.Duration
}

func (src *scopeSource) next(ctx context.Context) (*lecroy.Set, error) {
	if err := src.s.SetTrigMode(scope.TrigSingle); err != nil {
		return nil, err
	}
	if err := src.s.WaitTrigger(ctx, src.poll); err != nil {
		return nil, err
	}
	return src.s.Waveform(ctx, src.ch)
}

// simSource assembles noisy sine bursts with the same pipeline the real
// decoder uses.
type simSource struct {
	rnd *rand.Rand
	n   int
}

func (src *simSource) next(ctx context.Context) (*lecroy.Set, error) {
	const (
		npts = 1000
		dt   = 1e-9
	)

	hdr := &lecroy.Header{
		InstrumentName: "SIMULATED",
		TraceLabel:     "sim",
		WaveArrayCount: npts,
		SubarrayCount:  1,
		VerticalGain:   1,
		MaxValue:       32767,
		MinValue:       -32768,
		HorizInterval:  dt,
		VertUnit:       "V",
		HorUnit:        "S",
	}

	phase := src.rnd.Float64() * 2 * math.Pi
	samples := make([]lecroy.Sample, npts)
	for k := range samples {
		v := math.Sin(2*math.Pi*1e7*float64(k)*dt+phase) + 0.05*src.rnd.NormFloat64()
		samples[k] = lecroy.Sample{Value: v, OK: true}
	}

	src.n++
	return lecroy.Assemble(hdr, nil, samples)
}
