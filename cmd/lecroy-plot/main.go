// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lecroy-plot decodes a saved waveform transfer file and renders
// its segments to a PNG plot.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/go-daq/lecroy"
	"github.com/go-daq/lecroy/log"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func main() {
	var (
		oname = flag.String("o", "waveform.png", "path to the output PNG file")
		skip  = flag.Int("skip", -1, "transport bytes before the WAVEDESC region (-1: locate automatically)")
		title = flag.String("title", "", "plot title (default: the trace label)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: lecroy-plot [options] file\n")
		flag.Usage()
		os.Exit(1)
	}

	raw, err := ioutil.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("could not read %q: %+v", flag.Arg(0), err)
	}

	off := *skip
	if off < 0 {
		var ok bool
		off, ok = lecroy.FindHeader(raw)
		if !ok {
			log.Fatalf("no waveform descriptor in %q", flag.Arg(0))
		}
	}

	dec := &lecroy.Decoder{Skip: off}
	set, err := dec.Decode(raw)
	if err != nil {
		log.Fatalf("could not decode %q: %+v", flag.Arg(0), err)
	}

	p, err := render(set, *title)
	if err != nil {
		log.Fatalf("could not render plot: %+v", err)
	}

	if err := p.Save(20*vg.Centimeter, 15*vg.Centimeter, *oname); err != nil {
		log.Fatalf("could not save plot to %q: %+v", *oname, err)
	}
	log.Infof("wrote %d segment(s) to %s", len(set.Waveforms), *oname)
}

var palette = []string{"blue", "red", "green", "orange", "purple", "brown"}

func render(set *lecroy.Set, title string) (*plot.Plot, error) {
	p := plot.New()
	if title == "" {
		title = set.Header.TraceLabel
	}
	p.Title.Text = title
	p.X.Label.Text = "time (" + orDefault(set.Header.HorUnit, "s") + ")"
	p.Y.Label.Text = "amplitude (" + orDefault(set.Header.VertUnit, "a.u.") + ")"

	for i, wf := range set.Waveforms {
		var xys plotter.XYs
		for k := range wf.Time {
			if !wf.Data[k].OK {
				continue // clipped samples leave a gap
			}
			xys = append(xys, plotter.XY{X: wf.Time[k], Y: wf.Data[k].Value})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.Color = colornames.Map[palette[i%len(palette)]]
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("segment %d", i), line)
	}

	p.Legend.Top = true
	return p, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
