// pk3 allows listing and extracting Quake 3 PK3 files.
package main

// QPov
//
// Copyright (C) Thomas Habets <thomas@habets.se> 2015
// https://github.com/ThomasHabets/qpov
//
//   This program is free software; you can redistribute it and/or modify
//   it under the terms of the GNU General Public License as published by
//   the Free Software Foundation; either version 2 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU General Public License for more details.
//
//   You should have received a copy of the GNU General Public License along
//   with this program; if not, write to the Free Software Foundation, Inc.,
//   51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ThomasHabets/bspconv/pkg/pak"
)

var (
	outDir = flag.String("out", ".", "Directory to extract into.")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <pk3files> command [command args...]\n\nCommands: list, extract [files...], extractall\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}

	p, err := pak.MultiOpen(strings.Split(flag.Arg(0), ",")...)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()
	switch flag.Arg(1) {
	case "list":
		for _, k := range p.List() {
			fmt.Printf("%s\n", k)
		}
	case "extract":
		for _, fn := range flag.Args()[2:] {
			f, ok := p.Find(fn)
			if !ok {
				log.Fatalf("%q not found", fn)
			}
			out, err := f.Extract(fn, *outDir)
			if err != nil {
				log.Fatalf("Failed to extract %q: %v", fn, err)
			}
			log.Infof("Extracted %q", out)
		}
	case "extractall":
		for _, f := range p {
			if err := f.ExtractAll(*outDir); err != nil {
				log.Fatalf("Extracting %q: %v", f.File.Name(), err)
			}
		}
	default:
		log.Fatalf("Unknown command %q", flag.Arg(1))
	}
}
