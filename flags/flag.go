// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flags provides an easy creation of standard flag parameters for
// lecroy processes.
package flags // import "github.com/go-daq/lecroy/flags"

import (
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/go-daq/lecroy/config"
	"github.com/go-daq/lecroy/log"
)

// NewScope declares and parses the standard flags of a process that talks
// to an oscilloscope.
func NewScope(name string) config.Scope {
	var (
		cfg = config.Scope{Name: name}
		lvl string
	)

	flag.StringVar(&cfg.Addr, "addr", "localhost:1861", "[addr]:port of the oscilloscope")
	flag.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "I/O timeout for instrument queries")
	flag.IntVar(&cfg.Channel, "chan", 1, "instrument channel to acquire from")
	flag.StringVar(&lvl, "lvl", "INFO", "msgstream level")

	flag.Parse()

	cfg.Args = flag.Args()
	cfg.Level = parseLevel(lvl)
	return cfg
}

// NewStream declares and parses the standard flags of a process on a
// waveform pub/sub stream.
func NewStream(name string) config.Stream {
	var (
		cfg = config.Stream{Name: name}
		lvl string
	)

	flag.StringVar(&cfg.Pub, "pub", "", "address the waveform publisher listens on")
	flag.StringVar(&cfg.Sub, "sub", "", "address of the waveform publisher to subscribe to")
	flag.StringVar(&lvl, "lvl", "INFO", "msgstream level")

	flag.Parse()

	cfg.Args = flag.Args()
	cfg.Level = parseLevel(lvl)
	return cfg
}

func parseLevel(lvl string) log.Level {
	lvl = strings.ToLower(lvl)
	switch {
	case strings.HasPrefix(lvl, "dbg"), strings.HasPrefix(lvl, "debug"):
		return log.LvlDebug
	case strings.HasPrefix(lvl, "info"):
		return log.LvlInfo
	case strings.HasPrefix(lvl, "warn"):
		return log.LvlWarning
	case strings.HasPrefix(lvl, "err"):
		return log.LvlError
	default:
		v, err := strconv.Atoi(lvl)
		if err != nil {
			log.Fatalf("unknown level value %q: %+v", lvl, err)
		}
		return log.Level(v)
	}
}
