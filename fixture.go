package h5loader

import (
	"fmt"
	"strings"
)

// DefaultPath is the container written and read by the h5create and h5load commands.
const DefaultPath = "testfile.hdf5"

// Record names of the test container.
const (
	RecordIntegers = "integers"
	RecordFloats   = "floats"
	RecordStrings  = "strings"
	RecordTwoD     = "twoD"
)

// FixtureRecordNames lists the records of the test container in write order.
var FixtureRecordNames = []string{RecordIntegers, RecordFloats, RecordStrings, RecordTwoD}

// FloatMode selects how the floats record is derived.
type FloatMode int

const (
	// FloatsLiteral stores the literal sequence 0.0, 0.1, ..., 0.9.
	FloatsLiteral FloatMode = iota
	// FloatsDivided stores the integers record divided by 3.0.
	FloatsDivided
)

// String returns the flag spelling of the mode.
func (m FloatMode) String() string {
	switch m {
	case FloatsLiteral:
		return "literal"
	case FloatsDivided:
		return "divided"
	default:
		return fmt.Sprintf("FloatMode(%d)", int(m))
	}
}

// ParseFloatMode parses "literal" or "divided".
func ParseFloatMode(s string) (FloatMode, error) {
	switch strings.ToLower(s) {
	case "literal":
		return FloatsLiteral, nil
	case "divided":
		return FloatsDivided, nil
	default:
		return 0, fmt.Errorf("unknown float mode %q (want literal or divided)", s)
	}
}

// Fixture holds the four arrays of the test container.
type Fixture struct {
	Integers []int64
	Floats   []float64
	Strings  []string
	TwoD     [][]int64
}

// NewFixture returns the standard test arrays, with floats derived per mode.
func NewFixture(mode FloatMode) *Fixture {
	fx := &Fixture{
		Integers: make([]int64, 10),
		Floats:   make([]float64, 10),
		Strings:  []string{"string1", "string2", "string3", "string4", "string5"},
		TwoD:     [][]int64{{1, 2, 3}, {4, 5, 6}},
	}
	literal := []float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	for i := range fx.Integers {
		fx.Integers[i] = int64(i)
		if mode == FloatsDivided {
			fx.Floats[i] = float64(i) / 3.0
		} else {
			fx.Floats[i] = literal[i]
		}
	}
	return fx
}

// Records converts the fixture into its four records, in write order.
func (fx *Fixture) Records() ([]*Record, error) {
	twoD, err := NewInt64Matrix(RecordTwoD, fx.TwoD)
	if err != nil {
		return nil, err
	}
	return []*Record{
		NewInt64Record(RecordIntegers, nil, fx.Integers),
		NewFloat64Record(RecordFloats, nil, fx.Floats),
		NewStringRecord(RecordStrings, fx.Strings),
		twoD,
	}, nil
}

// WriteFixture writes fx to a fresh container at path, replacing any existing
// file. The container is closed even when a record fails to store.
func WriteFixture(path string, fx *Fixture, opts ...Option) (err error) {
	records, err := fx.Records()
	if err != nil {
		return withPath(err, path)
	}

	w, err := OpenForWrite(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, rec := range records {
		if err := w.CreateRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

// ReadFixture reads the four records of the test container at path. Every
// record must be present with the expected kind; the twoD record must be 2-D.
func ReadFixture(path string, opts ...Option) (fx *Fixture, err error) {
	r, err := OpenForRead(path, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	r.logger.Info("container records", "names", r.ListRecordNames())

	records := make(map[string]*Record, len(FixtureRecordNames))
	for _, name := range FixtureRecordNames {
		rec, err := r.ReadRecord(name)
		if err != nil {
			return nil, err
		}
		records[name] = rec
	}

	if err := expectKind(records, RecordIntegers, Int64, 1); err != nil {
		return nil, wrapError("read", path, RecordIntegers, err)
	}
	if err := expectKind(records, RecordFloats, Float64, 1); err != nil {
		return nil, wrapError("read", path, RecordFloats, err)
	}
	if err := expectKind(records, RecordStrings, String, 1); err != nil {
		return nil, wrapError("read", path, RecordStrings, err)
	}
	twoD, err := records[RecordTwoD].Int64Matrix()
	if err != nil {
		return nil, withPath(err, path)
	}

	return &Fixture{
		Integers: records[RecordIntegers].Ints,
		Floats:   records[RecordFloats].Floats,
		Strings:  records[RecordStrings].Strings,
		TwoD:     twoD,
	}, nil
}

func expectKind(records map[string]*Record, name string, kind Kind, rank int) error {
	rec := records[name]
	if rec.Kind != kind || rec.Rank() != rank {
		return fmt.Errorf("%w: record is %dD %s, want %dD %s", ErrTypeMismatch, rec.Rank(), rec.Kind, rank, kind)
	}
	return nil
}
