// Package main reads the standard HDF5 test container and prints its records.
//
// Usage:
//
//	h5load [-i testfile.hdf5] [-dump 0] [-v]
//
// With -dump N the first N bytes of the file are printed as a hex dump
// before the records.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/scigolib/h5loader"
	"github.com/scigolib/h5loader/internal/hexdump"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("h5load: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("h5load", flag.ContinueOnError)
	path := fs.String("i", h5loader.DefaultPath, "Container to read")
	dump := fs.Int("dump", 0, "Number of leading bytes to hex dump (0 disables)")
	verbose := fs.Bool("v", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	r, err := h5loader.OpenForRead(*path, h5loader.WithLogger(newLogger(*verbose)))
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	if *dump > 0 {
		if err := dumpHeader(stdout, *path, *dump); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout, r.ListRecordNames())
	for _, name := range h5loader.FixtureRecordNames {
		rec, err := r.ReadRecord(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, rec.Values())
	}
	return r.Close()
}

func dumpHeader(w io.Writer, path string, length int) error {
	//nolint:gosec // G304: user-provided path is the point of the tool
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	n := 0
	if readLen := min(int64(length), info.Size()); readLen > 0 {
		if n, err = hexdump.Dump(w, f, 0, int(readLen)); err != nil {
			return err
		}
	}
	if n < length {
		fmt.Fprintf(w, "(file holds %d of %d requested bytes)\n", n, length)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
