package h5loader

import (
	"bytes"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixture(t *testing.T) {
	literal := NewFixture(FloatsLiteral)
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, literal.Integers)
	assert.Equal(t, []float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}, literal.Floats)
	assert.Equal(t, []string{"string1", "string2", "string3", "string4", "string5"}, literal.Strings)
	assert.Equal(t, [][]int64{{1, 2, 3}, {4, 5, 6}}, literal.TwoD)

	divided := NewFixture(FloatsDivided)
	require.Len(t, divided.Floats, 10)
	for i, v := range divided.Floats {
		assert.InDelta(t, float64(i)/3.0, v, 1e-15, "index %d", i)
	}
	assert.Equal(t, literal.Integers, divided.Integers)
}

func TestParseFloatMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FloatMode
		wantErr bool
	}{
		{in: "literal", want: FloatsLiteral},
		{in: "Divided", want: FloatsDivided},
		{in: "DIVIDED", want: FloatsDivided},
		{in: "", wantErr: true},
		{in: "thirds", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFloatMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) FloatMode {
	t.Helper()
	m, err := ParseFloatMode(s)
	require.NoError(t, err)
	return m
}

func TestFixture_RoundTrip(t *testing.T) {
	for _, mode := range []FloatMode{FloatsLiteral, FloatsDivided} {
		t.Run(mode.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultPath)
			want := NewFixture(mode)
			require.NoError(t, WriteFixture(path, want))

			got, err := ReadFixture(path)
			require.NoError(t, err)
			assert.Equal(t, want.Integers, got.Integers)
			assert.Equal(t, want.Strings, got.Strings)
			assert.Equal(t, want.TwoD, got.TwoD)
			require.Len(t, got.Floats, len(want.Floats))
			for i := range want.Floats {
				assert.InDelta(t, want.Floats[i], got.Floats[i], 1e-12, "floats[%d]", i)
			}
		})
	}
}

func TestFixture_Listing(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, WriteFixture(path, NewFixture(FloatsLiteral)))

	r, err := OpenForRead(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	require.Equal(t, []string{"floats", "integers", "strings", "twoD"}, r.ListRecordNames())

	twoD, err := r.ReadRecord(RecordTwoD)
	require.NoError(t, err)
	assert.Equal(t, Int64, twoD.Kind)
	assert.Equal(t, []uint64{2, 3}, twoD.Shape)
	assert.Equal(t, [][]int64{{1, 2, 3}, {4, 5, 6}}, twoD.Values())

	strs, err := r.ReadRecord(RecordStrings)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), strs.StringSize)
}

func TestWriteFixture_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	w, err := OpenForWrite(path)
	require.NoError(t, err)
	require.NoError(t, w.CreateRecord(NewInt64Record("stale", nil, []int64{42})))
	require.NoError(t, w.Close())

	require.NoError(t, WriteFixture(path, NewFixture(FloatsDivided)))
	require.NoError(t, WriteFixture(path, NewFixture(FloatsLiteral)))

	r, err := OpenForRead(path)
	require.NoError(t, err)
	require.Equal(t, []string{"floats", "integers", "strings", "twoD"}, r.ListRecordNames())
	require.NoError(t, r.Close())

	got, err := ReadFixture(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, got.Floats[1], 1e-12)
}

func TestWriteFixture_RaggedTwoD(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	fx := NewFixture(FloatsLiteral)
	fx.TwoD = [][]int64{{1, 2, 3}, {4, 5}}

	err := WriteFixture(path, fx)
	require.ErrorIs(t, err, ErrTypeMismatch)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, path, e.Path)
	assert.Equal(t, RecordTwoD, e.Record)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "no container is created for invalid input")
}

func TestReadFixture_Errors(t *testing.T) {
	t.Run("never written", func(t *testing.T) {
		_, err := ReadFixture(filepath.Join(t.TempDir(), DefaultPath))
		require.ErrorIs(t, err, ErrFileAccess)
	})

	t.Run("missing record", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultPath)
		writeRecords(t, path,
			NewInt64Record(RecordIntegers, nil, []int64{1}),
			NewFloat64Record(RecordFloats, nil, []float64{1}),
		)
		_, err := ReadFixture(path)
		require.ErrorIs(t, err, ErrMissingRecord)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, RecordStrings, e.Record)
	})

	t.Run("wrong kind", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultPath)
		writeRecords(t, path,
			NewFloat64Record(RecordIntegers, nil, []float64{1.5}),
			NewFloat64Record(RecordFloats, nil, []float64{1}),
			NewStringRecord(RecordStrings, []string{"a"}),
			NewInt64Record(RecordTwoD, []uint64{1, 1}, []int64{1}),
		)
		_, err := ReadFixture(path)
		require.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("flat twoD", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultPath)
		writeRecords(t, path,
			NewInt64Record(RecordIntegers, nil, []int64{1}),
			NewFloat64Record(RecordFloats, nil, []float64{1}),
			NewStringRecord(RecordStrings, []string{"a"}),
			NewInt64Record(RecordTwoD, nil, []int64{1, 2, 3}),
		)
		_, err := ReadFixture(path)
		require.ErrorIs(t, err, ErrTypeMismatch)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, path, e.Path)
	})
}

func TestWriteFixture_SuperblockVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, WriteFixture(path, NewFixture(FloatsLiteral), WithSuperblockVersion(SuperblockV2)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 8)
	assert.Equal(t, []byte("\x89HDF\r\n\x1a\n"), raw[:8])
	assert.Equal(t, SuperblockV2, raw[8], "superblock version byte")

	got, err := ReadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{1, 2, 3}, {4, 5, 6}}, got.TwoD)
}

func TestWriteFixture_UnsupportedSuperblock(t *testing.T) {
	for _, version := range []uint8{0, 1, 3} {
		path := filepath.Join(t.TempDir(), DefaultPath)
		err := WriteFixture(path, NewFixture(FloatsLiteral), WithSuperblockVersion(version))
		require.ErrorIs(t, err, ErrFileAccess, "version %d", version)
		assert.Contains(t, err.Error(), "cannot hold records")

		_, statErr := os.Stat(path)
		require.True(t, os.IsNotExist(statErr), "version %d must not create a file", version)
	}
}

func TestFixture_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, WriteFixture(path, NewFixture(FloatsLiteral), WithLogger(logger)))
	_, err := ReadFixture(path, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "container written")
	assert.Contains(t, out, "record=twoD")
	assert.Contains(t, out, "container records")
}

// TestFixture_H5Dump checks the container with the reference HDF5 tools when
// they are installed.
func TestFixture_H5Dump(t *testing.T) {
	h5dump, err := exec.LookPath("h5dump")
	if err != nil {
		t.Skip("h5dump not installed")
	}

	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, WriteFixture(path, NewFixture(FloatsLiteral)))

	out, err := exec.Command(h5dump, "-H", path).CombinedOutput()
	require.NoError(t, err, string(out))
	for _, name := range FixtureRecordNames {
		assert.Contains(t, string(out), `DATASET "`+name+`"`)
	}
}
