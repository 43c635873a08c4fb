package h5loader

import (
	"fmt"

	"github.com/scigolib/h5loader/internal/utils"
)

// The Load* helpers open the container at path, read a single record and
// close the container again. Narrowing loaders fail with ErrTypeMismatch
// rather than truncating values that do not fit.

// LoadInt64s loads a 1-D integer record.
func LoadInt64s(path, name string, opts ...Option) ([]int64, error) {
	rec, err := loadRecord(path, name, Int64, 1, opts)
	if err != nil {
		return nil, err
	}
	return rec.Ints, nil
}

// LoadInt32s loads a 1-D integer record narrowed to int32.
func LoadInt32s(path, name string, opts ...Option) ([]int32, error) {
	rec, err := loadRecord(path, name, Int64, 1, opts)
	if err != nil {
		return nil, err
	}
	out, err := narrow(rec.Ints, utils.NarrowInt32)
	if err != nil {
		return nil, newError("read", path, name, ErrTypeMismatch, err)
	}
	return out, nil
}

// LoadFloat64s loads a 1-D floating point record.
func LoadFloat64s(path, name string, opts ...Option) ([]float64, error) {
	rec, err := loadRecord(path, name, Float64, 1, opts)
	if err != nil {
		return nil, err
	}
	return rec.Floats, nil
}

// LoadFloat32s loads a 1-D floating point record narrowed to float32.
func LoadFloat32s(path, name string, opts ...Option) ([]float32, error) {
	rec, err := loadRecord(path, name, Float64, 1, opts)
	if err != nil {
		return nil, err
	}
	out, err := narrow(rec.Floats, utils.NarrowFloat32)
	if err != nil {
		return nil, newError("read", path, name, ErrTypeMismatch, err)
	}
	return out, nil
}

// LoadStrings loads a 1-D fixed-width string record. Padding is stripped.
func LoadStrings(path, name string, opts ...Option) ([]string, error) {
	rec, err := loadRecord(path, name, String, 1, opts)
	if err != nil {
		return nil, err
	}
	return rec.Strings, nil
}

// LoadInt64Matrix loads a 2-D integer record as rows.
func LoadInt64Matrix(path, name string, opts ...Option) ([][]int64, error) {
	rec, err := loadRecord(path, name, Int64, 2, opts)
	if err != nil {
		return nil, err
	}
	return unflattenAt(path, name, rec.Ints, rec.Shape)
}

// LoadInt32Matrix loads a 2-D integer record as rows narrowed to int32.
func LoadInt32Matrix(path, name string, opts ...Option) ([][]int32, error) {
	rec, err := loadRecord(path, name, Int64, 2, opts)
	if err != nil {
		return nil, err
	}
	flat, err := narrow(rec.Ints, utils.NarrowInt32)
	if err != nil {
		return nil, newError("read", path, name, ErrTypeMismatch, err)
	}
	return unflattenAt(path, name, flat, rec.Shape)
}

// LoadFloat64Matrix loads a 2-D floating point record as rows.
func LoadFloat64Matrix(path, name string, opts ...Option) ([][]float64, error) {
	rec, err := loadRecord(path, name, Float64, 2, opts)
	if err != nil {
		return nil, err
	}
	return unflattenAt(path, name, rec.Floats, rec.Shape)
}

// LoadFloat32Matrix loads a 2-D floating point record as rows narrowed to float32.
func LoadFloat32Matrix(path, name string, opts ...Option) ([][]float32, error) {
	rec, err := loadRecord(path, name, Float64, 2, opts)
	if err != nil {
		return nil, err
	}
	flat, err := narrow(rec.Floats, utils.NarrowFloat32)
	if err != nil {
		return nil, newError("read", path, name, ErrTypeMismatch, err)
	}
	return unflattenAt(path, name, flat, rec.Shape)
}

func loadRecord(path, name string, kind Kind, rank int, opts []Option) (rec *Record, err error) {
	r, err := OpenForRead(path, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rec, err = r.ReadRecord(name)
	if err != nil {
		return nil, err
	}
	if rec.Kind != kind || rec.Rank() != rank {
		return nil, newError("read", path, name, ErrTypeMismatch,
			fmt.Errorf("record is %dD %s, want %dD %s", rec.Rank(), rec.Kind, rank, kind))
	}
	return rec, nil
}

func narrow[From, To any](in []From, conv func(From) (To, error)) ([]To, error) {
	out := make([]To, len(in))
	for i, v := range in {
		var err error
		if out[i], err = conv(v); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

func unflattenAt[T any](path, name string, flat []T, shape []uint64) ([][]T, error) {
	rows, err := unflatten(flat, shape)
	if err != nil {
		return nil, newError("read", path, name, ErrTypeMismatch, err)
	}
	return rows, nil
}
