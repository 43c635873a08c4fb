// Package main writes the standard HDF5 test container.
//
// Usage:
//
//	h5create [-o testfile.hdf5] [-floats literal|divided] [-v]
//
// The arrays are printed before they are written; afterwards the record
// names and the shape of the twoD record are read back and printed.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/scigolib/h5loader"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("h5create: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("h5create", flag.ContinueOnError)
	path := fs.String("o", h5loader.DefaultPath, "Container to create (overwritten if it exists)")
	floats := fs.String("floats", h5loader.FloatsLiteral.String(), "How floats are derived: literal or divided")
	verbose := fs.Bool("v", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	mode, err := h5loader.ParseFloatMode(*floats)
	if err != nil {
		return err
	}

	opts := []h5loader.Option{h5loader.WithLogger(newLogger(*verbose))}

	fx := h5loader.NewFixture(mode)
	fmt.Fprintln(stdout, fx.Integers)
	fmt.Fprintln(stdout, fx.Floats)
	fmt.Fprintln(stdout, fx.Strings)
	fmt.Fprintln(stdout, fx.TwoD)

	if err := h5loader.WriteFixture(*path, fx, opts...); err != nil {
		return err
	}

	r, err := h5loader.OpenForRead(*path, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	fmt.Fprintln(stdout, r.ListRecordNames())
	twoD, err := r.ReadRecord(h5loader.RecordTwoD)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "dataset %q: shape %v, type %s\n", twoD.Name, twoD.Shape, twoD.Kind)
	return r.Close()
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
