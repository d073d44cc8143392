// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/jburguete/chnet1d/driver"
	"github.com/jburguete/chnet1d/inp"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	io.PfWhite("\nchnet1d -- 1-D unsteady free-surface flow & transport network simulator\n\n")

	flag.Parse()
	if len(flag.Args()) == 0 {
		chk.Panic("Please, provide a system filename. Ex.: network.json")
	}
	fnamepath := flag.Arg(0)

	sys, err := inp.ReadSystem(fnamepath)
	if err != nil {
		chk.Panic("cannot read system file: %v\n", err)
	}

	d, err := driver.New(sys)
	if err != nil {
		chk.Panic("cannot build mesh: %v\n", err)
	}

	if err := d.Simulate(); err != nil {
		chk.Panic("simulation failed: %v\n", err)
	}
}
