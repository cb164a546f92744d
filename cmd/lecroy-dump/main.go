// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lecroy-dump decodes saved waveform transfer files and prints
// the descriptor and per-segment statistics.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"sort"

	"github.com/go-daq/lecroy"
	"github.com/go-daq/lecroy/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

func main() {
	var (
		skip = flag.Int("skip", -1, "transport bytes before the WAVEDESC region (-1: locate automatically)")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: lecroy-dump [options] file [file...]\n")
		flag.Usage()
		os.Exit(1)
	}

	sets := make([]*lecroy.Set, flag.NArg())

	var grp errgroup.Group
	for i, fname := range flag.Args() {
		i, fname := i, fname
		grp.Go(func() error {
			set, err := decodeFile(fname, *skip)
			if err != nil {
				return err
			}
			sets[i] = set
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		log.Fatalf("could not decode waveforms: %+v", err)
	}

	for i, set := range sets {
		dump(flag.Arg(i), set)
	}
}

func decodeFile(fname string, skip int) (*lecroy.Set, error) {
	raw, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, err
	}

	if skip < 0 {
		off, ok := lecroy.FindHeader(raw)
		if !ok {
			return nil, &lecroy.MalformedHeaderError{}
		}
		skip = off
	}

	dec := &lecroy.Decoder{Skip: skip}
	return dec.Decode(raw)
}

func dump(fname string, set *lecroy.Set) {
	hdr := set.Header
	fmt.Printf("=== %s\n", fname)
	fmt.Printf("template:     %s\n", hdr.TemplateName)
	fmt.Printf("instrument:   %s (#%d)\n", hdr.InstrumentName, hdr.InstrumentNumber)
	fmt.Printf("trigger time: %v\n", hdr.TriggerTime.Time())
	fmt.Printf("samples:      %d (%d segment(s))\n", hdr.WaveArrayCount, hdr.SubarrayCount)
	fmt.Printf("interval:     %g s\n", hdr.HorizInterval)
	fmt.Printf("gain/offset:  %g / %g %s\n", hdr.VerticalGain, hdr.VerticalOffset, hdr.VertUnit)

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

		fmt.Printf("segment %d: %d samples, %d missing", i, len(wf.Data), missing)
		if len(vals) > 0 {
			sort.Float64s(vals)
			mean, std := stat.MeanStdDev(vals, nil)
			if math.IsNaN(std) {
				std = 0
			}
			fmt.Printf(", mean=%g %s, std=%g, min=%g, max=%g",
				mean, wf.Unit, std, vals[0], vals[len(vals)-1])
		}
		fmt.Printf("\n")
	}
}
