// bspconv converts Quake 3 levels to Source levels.
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
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/ThomasHabets/bspconv/pkg/content"
	"github.com/ThomasHabets/bspconv/pkg/convert"
	"github.com/ThomasHabets/bspconv/pkg/q3bsp"
	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

var (
	verbose = flag.Bool("v", false, "Log debug output.")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] command [command args...]\n\nCommands: convert, info\n", os.Args[0])
	flag.PrintDefaults()
}

// job is what is shared by all levels of one convert run.
type job struct {
	opts   convert.Options
	mats   convert.Materials
	report bool
	up     *uploader
	prefix string // Object name prefix for uploads.
}

func convertCmd(args ...string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s convert [options] <level.bsp|pack.pk3>...\n", os.Args[0])
		fs.PrintDefaults()
	}
	configFile := fs.String("config", "", "YAML file with conversion options. Flags override it.")
	materialsFile := fs.String("materials", "", "YAML file with material overrides.")
	outDir := fs.String("out", ".", "Output directory.")
	noPak := fs.Bool("nopak", false, "Write custom assets next to the map instead of into it.")
	power := fs.Int("power", 4, "Displacement power, 2 to 4.")
	minDamage := fs.Int("mindamage", 50, "Smallest trigger_hurt damage that teleports back to the start.")
	oldBSP := fs.Bool("oldbsp", false, "Write the older file version.")
	prefix := fs.String("prefix", "df_", "Prefix for output map names.")
	ignoreZones := fs.Bool("ignore_zones", false, "Don't create timer zones.")
	report := fs.Bool("report", false, "Write a JSON report next to each map.")
	bucket := fs.String("gcs_bucket", "", "Google Cloud Storage bucket to upload maps to.")
	bucketDir := fs.String("gcs_dir", "maps", "Directory in the bucket.")
	cloudCredentials := fs.String("cloud_credentials", "", "Path to JSON file containing credentials.")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}

	j := &job{
		opts:   convert.DefaultOptions(),
		report: *report,
		prefix: *bucketDir,
	}
	if *configFile != "" {
		var err error
		if j.opts, err = convert.LoadOptions(*configFile); err != nil {
			log.Fatalf("Loading options: %v", err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			j.opts.OutputDir = *outDir
		case "nopak":
			j.opts.NoPak = *noPak
		case "power":
			j.opts.DisplacementPower = *power
		case "mindamage":
			j.opts.MinDamage = *minDamage
		case "oldbsp":
			j.opts.OldBSP = *oldBSP
		case "prefix":
			j.opts.Prefix = *prefix
		case "ignore_zones":
			j.opts.IgnoreZones = *ignoreZones
		}
	})
	j.opts.Clamp()

	if *materialsFile != "" {
		var err error
		if j.mats, err = convert.LoadMaterials(*materialsFile); err != nil {
			log.Fatalf("Loading materials: %v", err)
		}
	}

	ctx := context.Background()
	if *bucket != "" {
		var err error
		if j.up, err = newUploader(ctx, *bucket, *cloudCredentials); err != nil {
			log.Fatalf("Connecting to cloud storage: %v", err)
		}
		defer j.up.Close()
	}

	for _, fn := range fs.Args() {
		if err := j.convertInput(ctx, fn); err != nil {
			log.Fatalf("Converting %q: %v", fn, err)
		}
	}
}

// convertInput converts every level of one input file.
func (j *job) convertInput(ctx context.Context, fn string) error {
	d, err := content.Stage(fn)
	if err != nil {
		return err
	}
	defer d.Close()
	for _, m := range d.Maps {
		if err := j.convertMap(ctx, d, m); err != nil {
			return err
		}
	}
	return nil
}

func (j *job) convertMap(ctx context.Context, d *content.Dir, fn string) error {
	id := uuid.New().String()
	e := log.WithFields(log.Fields{"run": id, "input": path.Base(fn)})
	logger := convert.NewLogrusLogger(e)

	raw, err := q3bsp.Open(fn)
	if err != nil {
		return err
	}
	c := convert.New(raw, j.opts, logger)
	if j.mats != nil {
		c.SetMaterials(j.mats)
	}
	c.SetExternalLightmaps(d.LoadLightmaps(c.Materials().ExternalLightmaps(), logger))
	doc, err := c.Convert()
	if err != nil {
		return err
	}

	files, err := d.Gather(c.Sounds(), logger)
	if err != nil {
		return err
	}
	if j.opts.NoPak {
		if err := content.Export(files, j.opts.OutputDir); err != nil {
			return err
		}
	} else if doc.PakFile, err = vbsp.BuildPakFile(files); err != nil {
		return err
	}

	out := j.opts.OutputPath(fn)
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	if err := doc.WriteFile(out); err != nil {
		return err
	}
	e.Infof("Wrote %q with %d faces", out, len(doc.Faces))

	r := c.Report()
	r.RunID = id
	r.Input = fn
	r.Output = out
	if j.report {
		b, err := r.JSON()
		if err != nil {
			return err
		}
		rfn := strings.TrimSuffix(out, ".bsp") + ".report.json"
		if err := ioutil.WriteFile(rfn, b, 0644); err != nil {
			return err
		}
		e.Debugf("Wrote report %q", rfn)
	}

	if j.up != nil {
		name := path.Join(j.prefix, filepath.Base(out))
		if err := j.up.upload(ctx, out, name); err != nil {
			return err
		}
		e.Infof("Uploaded to gs://%s/%s", j.up.bucket, name)
	}
	return nil
}

func info(args ...string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s info <level.bsp>\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() == 0 {
		log.Fatalf("Need to specify a map name.")
	}
	fn := fs.Arg(0)
	magic, err := readMagic(fn)
	if err != nil {
		log.Fatalf("Reading %q: %v", fn, err)
	}
	switch magic {
	case q3bsp.Magic:
		raw, err := q3bsp.Open(fn)
		if err != nil {
			log.Fatalf("Loading map: %v", err)
		}
		fmt.Printf("Format: %s %d\n", q3bsp.Magic, raw.Header.Version)
		fmt.Printf("Lump          Bytes\n")
		for n, l := range raw.Header.Lumps {
			fmt.Printf("%-12s %6d\n", q3bsp.LumpName(n), l.Size)
		}
		fmt.Printf("Model  Faces  Brushes\n")
		for n, m := range raw.Models {
			fmt.Printf("%5d  %5d  %7d\n", n, m.NumFaces, m.NumBrushes)
		}
	case vbsp.Magic:
		doc, err := vbsp.Open(fn)
		if err != nil {
			log.Fatalf("Loading map: %v", err)
		}
		fmt.Printf("Format: %s %d\n", vbsp.Magic, doc.Version)
		fmt.Printf("Lump                  Records\n")
		for id := vbsp.LumpID(0); id < vbsp.NumLumps; id++ {
			if n := doc.Len(id); n > 0 {
				fmt.Printf("%-20s %8d\n", id, n)
			}
		}
	default:
		log.Fatalf("%q: unknown file type %q", fn, magic)
	}
}

func readMagic(fn string) (string, error) {
	f, err := os.Open(fn)
	if err != nil {
		return "", err
	}
	defer f.Close()
	b := make([]byte, 4)
	if _, err := io.ReadFull(f, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	switch flag.Arg(0) {
	case "convert":
		convertCmd(flag.Args()[1:]...)
	case "info":
		info(flag.Args()[1:]...)
	default:
		log.Fatalf("Unknown command %q", flag.Arg(0))
	}
}
