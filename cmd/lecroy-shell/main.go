// Copyright 2021 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lecroy-shell provides an interactive remote-command console for
// an oscilloscope.  Commands ending in '?' are queries and print the
// instrument reply.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-daq/lecroy/flags"
	"github.com/go-daq/lecroy/log"
	"github.com/go-daq/lecroy/scope"
	"github.com/peterh/liner"
)

func main() {
	cfg := flags.NewScope("lecroy-shell")

	s, err := scope.Dial(cfg)
	if err != nil {
		log.Fatalf("could not connect to %q: %+v", cfg.Addr, err)
	}
	defer s.Close()

	idn, err := s.IDN()
	if err != nil {
		log.Fatalf("could not identify instrument: %+v", err)
	}
	fmt.Printf("connected to %s\n", idn)
	fmt.Printf("type instrument commands, 'quit' to exit\n")

	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)

	for {
		line, err := term.Prompt(cfg.Name + "> ")
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				fmt.Printf("\n")
				return
			}
			log.Fatalf("could not read command: %+v", err)
		}

		cmd := strings.TrimSpace(line)
		switch {
		case cmd == "":
			continue
		case cmd == "quit", cmd == "exit":
			return
		}
		term.AppendHistory(cmd)

		switch {
		case strings.HasSuffix(cmd, "?"):
			reply, err := s.Query(cmd)
			if err != nil {
				fmt.Printf("error: %+v\n", err)
				continue
			}
			fmt.Printf("%s\n", reply)
		default:
			if err := s.Write(cmd); err != nil {
				fmt.Printf("error: %+v\n", err)
			}
		}
	}
}
