package h5loader

import (
	"fmt"
	"strings"

	"github.com/scigolib/h5loader/internal/utils"
)

// Kind is the element type of a record.
type Kind int

const (
	// Int64 represents 64-bit signed integer records.
	Int64 Kind = iota
	// Float64 represents 64-bit floating point records.
	Float64
	// String represents fixed-width byte string records.
	String
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Record is a named, typed, shaped array stored in a container.
//
// Values are kept flat in row-major order; exactly one of Ints, Floats and
// Strings is populated, matching Kind.
type Record struct {
	Name  string
	Kind  Kind
	Shape []uint64

	// StringSize is the element width in bytes for String records. Zero means
	// the width of the longest value.
	StringSize uint32

	Ints    []int64
	Floats  []float64
	Strings []string
}

// NewInt64Record creates an integer record. A nil shape means 1-D.
func NewInt64Record(name string, shape []uint64, data []int64) *Record {
	return &Record{Name: name, Kind: Int64, Shape: shapeOrLen(shape, len(data)), Ints: data}
}

// NewFloat64Record creates a floating point record. A nil shape means 1-D.
func NewFloat64Record(name string, shape []uint64, data []float64) *Record {
	return &Record{Name: name, Kind: Float64, Shape: shapeOrLen(shape, len(data)), Floats: data}
}

// NewStringRecord creates a 1-D fixed-width string record sized to its
// longest value.
func NewStringRecord(name string, data []string) *Record {
	return &Record{Name: name, Kind: String, Shape: shapeOrLen(nil, len(data)), Strings: data}
}

// NewInt64Matrix creates a 2-D integer record from rows of equal length.
func NewInt64Matrix(name string, rows [][]int64) (*Record, error) {
	flat, shape, err := flatten(rows)
	if err != nil {
		return nil, newError("create", "", name, ErrTypeMismatch, err)
	}
	return &Record{Name: name, Kind: Int64, Shape: shape, Ints: flat}, nil
}

// NewFloat64Matrix creates a 2-D floating point record from rows of equal length.
func NewFloat64Matrix(name string, rows [][]float64) (*Record, error) {
	flat, shape, err := flatten(rows)
	if err != nil {
		return nil, newError("create", "", name, ErrTypeMismatch, err)
	}
	return &Record{Name: name, Kind: Float64, Shape: shape, Floats: flat}, nil
}

func shapeOrLen(shape []uint64, n int) []uint64 {
	if shape != nil {
		return shape
	}
	return []uint64{uint64(n)}
}

func flatten[T any](rows [][]T) ([]T, []uint64, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("matrix has no rows")
	}
	cols := len(rows[0])
	flat := make([]T, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return flat, []uint64{uint64(len(rows)), uint64(cols)}, nil
}

func unflatten[T any](flat []T, shape []uint64) ([][]T, error) {
	if len(shape) != 2 {
		return nil, fmt.Errorf("record has rank %d, want 2", len(shape))
	}
	rows, cols := int(shape[0]), int(shape[1])
	if rows*cols != len(flat) {
		return nil, fmt.Errorf("record holds %d values, shape %v needs %d", len(flat), shape, rows*cols)
	}
	out := make([][]T, rows)
	for i := range out {
		out[i] = flat[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return out, nil
}

// Len returns the number of stored values.
func (r *Record) Len() int {
	switch r.Kind {
	case Int64:
		return len(r.Ints)
	case Float64:
		return len(r.Floats)
	case String:
		return len(r.Strings)
	default:
		return 0
	}
}

// Rank returns the number of dimensions.
func (r *Record) Rank() int {
	return len(r.Shape)
}

// Int64Matrix returns a 2-D integer record as rows. The rows share the
// record's backing array.
func (r *Record) Int64Matrix() ([][]int64, error) {
	if r.Kind != Int64 {
		return nil, newError("read", "", r.Name, ErrTypeMismatch, fmt.Errorf("record is %s, want int64", r.Kind))
	}
	rows, err := unflatten(r.Ints, r.Shape)
	if err != nil {
		return nil, newError("read", "", r.Name, ErrTypeMismatch, err)
	}
	return rows, nil
}

// Float64Matrix returns a 2-D floating point record as rows. The rows share
// the record's backing array.
func (r *Record) Float64Matrix() ([][]float64, error) {
	if r.Kind != Float64 {
		return nil, newError("read", "", r.Name, ErrTypeMismatch, fmt.Errorf("record is %s, want float64", r.Kind))
	}
	rows, err := unflatten(r.Floats, r.Shape)
	if err != nil {
		return nil, newError("read", "", r.Name, ErrTypeMismatch, err)
	}
	return rows, nil
}

// Values returns the populated value slice as an interface, for printing.
func (r *Record) Values() interface{} {
	switch r.Kind {
	case Int64:
		if len(r.Shape) == 2 {
			if rows, err := r.Int64Matrix(); err == nil {
				return rows
			}
		}
		return r.Ints
	case Float64:
		if len(r.Shape) == 2 {
			if rows, err := r.Float64Matrix(); err == nil {
				return rows
			}
		}
		return r.Floats
	case String:
		return r.Strings
	default:
		return nil
	}
}

// width returns the on-disk element width of a String record.
func (r *Record) width() int {
	if r.StringSize > 0 {
		return int(r.StringSize)
	}
	width := 1
	for _, s := range r.Strings {
		if len(s) > width {
			width = len(s)
		}
	}
	return width
}

// validate checks name, shape and data consistency before a write.
func (r *Record) validate() error {
	if r.Name == "" {
		return fmt.Errorf("record name cannot be empty")
	}
	if strings.Contains(r.Name, "/") {
		return fmt.Errorf("record name %q must not contain '/'", r.Name)
	}
	if err := utils.ValidateDimensions(r.Shape); err != nil {
		return err
	}
	count, err := utils.ElementCount(r.Shape)
	if err != nil {
		return err
	}
	if uint64(r.Len()) != count {
		return fmt.Errorf("shape %v needs %d values, got %d", r.Shape, count, r.Len())
	}

	switch r.Kind {
	case Int64:
		for i, v := range r.Ints {
			if err := utils.CheckExactInteger(v); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	case Float64:
		return nil
	case String:
		return r.validateStrings()
	default:
		return fmt.Errorf("unsupported record kind %s", r.Kind)
	}
}

func (r *Record) validateStrings() error {
	width := r.width()
	if width > utils.MaxStringSize {
		return fmt.Errorf("string width %d exceeds maximum %d", width, utils.MaxStringSize)
	}
	for i, s := range r.Strings {
		if len(s) > width {
			return fmt.Errorf("string %d is %d bytes, width is %d", i, len(s), width)
		}
		if strings.IndexByte(s, 0) >= 0 {
			return fmt.Errorf("string %d contains a NUL byte", i)
		}
	}
	return nil
}
