package h5loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/scigolib/h5loader/internal/utils"
	"github.com/scigolib/hdf5"
)

// Writer is a container opened for writing. It is not safe for concurrent use.
type Writer struct {
	fw     *hdf5.FileWriter
	path   string
	names  []string
	seen   map[string]struct{}
	logger *slog.Logger
}

// OpenForWrite creates a container at path, destroying any existing file.
//
// Example:
//
//	w, err := h5loader.OpenForWrite("testfile.hdf5")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	err = w.CreateRecord(h5loader.NewInt64Record("integers", nil, []int64{0, 1, 2}))
func OpenForWrite(path string, opts ...Option) (*Writer, error) {
	cfg := newConfig(opts)

	if cfg.superblockVersion != SuperblockV2 {
		err := fmt.Errorf("superblock version %d cannot hold records (want %d)", cfg.superblockVersion, SuperblockV2)
		cfg.logger.Error("container create failed", "path", path, "error", err)
		return nil, newError("create", path, "", ErrFileAccess, err)
	}

	fw, err := hdf5.CreateForWrite(path, hdf5.CreateTruncate,
		hdf5.WithSuperblockVersion(cfg.superblockVersion))
	if err != nil {
		cfg.logger.Error("container create failed", "path", path, "error", err)
		return nil, newError("create", path, "", ErrFileAccess, err)
	}

	cfg.logger.Debug("container created", "path", path, "superblock", cfg.superblockVersion)
	return &Writer{
		fw:     fw,
		path:   path,
		seen:   make(map[string]struct{}),
		logger: cfg.logger.With("path", path),
	}, nil
}

// CreateRecord stores rec under rec.Name. The record's kind and shape are
// fixed from this point on; names may not be reused within a container.
func (w *Writer) CreateRecord(rec *Record) error {
	if rec == nil {
		return newError("create", w.path, "", ErrTypeMismatch, errors.New("nil record"))
	}
	if w.fw == nil {
		return newError("create", w.path, rec.Name, ErrClosed, nil)
	}
	if err := rec.validate(); err != nil {
		return newError("create", w.path, rec.Name, ErrTypeMismatch, err)
	}
	if _, dup := w.seen[rec.Name]; dup {
		return newError("create", w.path, rec.Name, ErrDuplicateRecord, nil)
	}

	if err := w.store(rec); err != nil {
		w.logger.Error("record write failed", "record", rec.Name, "error", err)
		return newError("create", w.path, rec.Name, ErrFileAccess, err)
	}

	w.seen[rec.Name] = struct{}{}
	w.names = append(w.names, rec.Name)
	w.logger.Debug("record written", "record", rec.Name, "kind", rec.Kind, "shape", rec.Shape)
	return nil
}

func (w *Writer) store(rec *Record) error {
	var (
		dtype hdf5.Datatype
		data  interface{}
		opts  []hdf5.DatasetOption
	)
	switch rec.Kind {
	case Int64:
		dtype, data = hdf5.Int64, rec.Ints
	case Float64:
		dtype, data = hdf5.Float64, rec.Floats
	case String:
		dtype, data = hdf5.String, rec.Strings
		opts = append(opts, hdf5.WithStringSize(uint32(rec.width()))) //nolint:gosec // G115: bounded by MaxStringSize
	default:
		return fmt.Errorf("unsupported record kind %s", rec.Kind)
	}

	ds, err := w.fw.CreateDataset("/"+rec.Name, dtype, rec.Shape, opts...)
	if err != nil {
		return err
	}
	if err := ds.Write(data); err != nil {
		_ = ds.Close()
		return err
	}
	return ds.Close()
}

// Names returns the names written so far, in write order.
func (w *Writer) Names() []string {
	return append([]string(nil), w.names...)
}

// Close flushes the container to storage and releases the file handle.
// It is safe to call Close multiple times.
func (w *Writer) Close() error {
	if w.fw == nil {
		return nil
	}
	err := w.fw.Close()
	w.fw = nil
	if err != nil {
		w.logger.Error("container close failed", "error", err)
		return newError("close", w.path, "", ErrFileAccess, err)
	}
	w.logger.Info("container written", "records", len(w.names))
	return nil
}

// Reader is a container opened read-only. It is not safe for concurrent use.
type Reader struct {
	file     *hdf5.File
	path     string
	datasets map[string]*hdf5.Dataset
	names    []string
	logger   *slog.Logger
}

// OpenForRead opens an existing container. It fails with ErrFileAccess when
// path does not exist or is not an HDF5 file.
func OpenForRead(path string, opts ...Option) (*Reader, error) {
	cfg := newConfig(opts)

	if _, err := os.Stat(path); err != nil {
		cfg.logger.Error("container open failed", "path", path, "error", err)
		return nil, newError("open", path, "", ErrFileAccess, err)
	}

	f, err := hdf5.Open(path)
	if err != nil {
		cfg.logger.Error("container open failed", "path", path, "error", err)
		return nil, newError("open", path, "", ErrFileAccess, err)
	}

	r := &Reader{
		file:     f,
		path:     path,
		datasets: make(map[string]*hdf5.Dataset),
		logger:   cfg.logger.With("path", path),
	}

	// Only datasets linked directly under the root group are records.
	f.Walk(func(p string, obj hdf5.Object) {
		ds, ok := obj.(*hdf5.Dataset)
		if !ok {
			return
		}
		name := strings.TrimPrefix(p, "/")
		if name == "" || strings.Contains(name, "/") {
			return
		}
		r.datasets[name] = ds
		r.names = append(r.names, name)
	})
	sort.Strings(r.names)

	r.logger.Debug("container opened", "records", len(r.names))
	return r, nil
}

// ListRecordNames returns the names of all records, sorted.
func (r *Reader) ListRecordNames() []string {
	return append([]string(nil), r.names...)
}

// Has reports whether the container holds a record called name.
func (r *Reader) Has(name string) bool {
	_, ok := r.datasets[name]
	return ok
}

// ReadRecord loads the full contents of the named record.
func (r *Reader) ReadRecord(name string) (*Record, error) {
	if r.file == nil {
		return nil, newError("read", r.path, name, ErrClosed, nil)
	}
	ds, ok := r.datasets[name]
	if !ok {
		return nil, newError("read", r.path, name, ErrMissingRecord, nil)
	}

	rec, err := readDataset(ds, name)
	if err != nil {
		r.logger.Error("record read failed", "record", name, "error", err)
		return nil, wrapError("read", r.path, name, err)
	}

	r.logger.Debug("record read", "record", name, "kind", rec.Kind, "shape", rec.Shape)
	return rec, nil
}

func readDataset(ds *hdf5.Dataset, name string) (*Record, error) {
	raw, err := ds.Info()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	info, err := parseDatasetInfo(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	kind, err := info.kind()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	count, err := utils.ElementCount(info.shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}

	rec := &Record{Name: name, Kind: kind, Shape: info.shape}
	switch kind {
	case Int64:
		// The collaborator widens integers to float64 on read.
		values, err := ds.Read()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
		}
		rec.Ints = make([]int64, len(values))
		for i, v := range values {
			if rec.Ints[i], err = utils.ExactInt64(v); err != nil {
				return nil, fmt.Errorf("%w: element %d: %w", ErrTypeMismatch, i, err)
			}
		}
	case Float64:
		if rec.Floats, err = ds.Read(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
		}
	case String:
		if rec.Strings, err = ds.ReadStrings(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
		}
		rec.StringSize = info.size
	}

	if uint64(rec.Len()) != count {
		return nil, fmt.Errorf("%w: read %d values, shape %v needs %d", ErrTypeMismatch, rec.Len(), rec.Shape, count)
	}
	return rec, nil
}

// Close releases the file handle. It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if err != nil {
		return newError("close", r.path, "", ErrFileAccess, err)
	}
	return nil
}
