// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config describes how lecroy processes should be configured.
package config // import "github.com/go-daq/lecroy/config"

import (
	"time"

	"github.com/go-daq/lecroy/log"
)

// Scope describes how to reach and drive an oscilloscope.
type Scope struct {
	Name    string        // name of the process, for log messages
	Level   log.Level     // verbosity level of the process
	Addr    string        // address ("host:port") of the instrument
	Timeout time.Duration // I/O timeout for command/response exchanges
	Channel int           // instrument channel to acquire from

	Args []string // additional flag arguments
}

// Stream describes the pub/sub end-points of a waveform stream.
type Stream struct {
	Name  string    // name of the process, for log messages
	Level log.Level // verbosity level of the process
	Pub   string    // address the publisher listens on (e.g. "tcp://:44100")
	Sub   string    // address the subscriber dials (e.g. "tcp://localhost:44100")

	Args []string // additional flag arguments
}
