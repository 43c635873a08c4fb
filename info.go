package h5loader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// datasetInfo is the metadata recovered from hdf5.Dataset.Info().
//
// Info renders as "Dataset: <class> (size=<n> bytes), <dataspace>, <layout>",
// where dataspace is "scalar", "null", "1D array [n]", "2D array [r x c]" or
// "ND array [a b c ...]".
type datasetInfo struct {
	class string // integer, float, string, compound, array, class_N
	size  uint32
	shape []uint64
}

var infoPattern = regexp.MustCompile(
	`^Dataset: (\w+) \(size=(\d+) bytes\), (scalar|null|\d+D array \[[^\]]*\])`)

func parseDatasetInfo(info string) (*datasetInfo, error) {
	m := infoPattern.FindStringSubmatch(info)
	if m == nil {
		return nil, fmt.Errorf("unrecognized dataset info %q", info)
	}

	size, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("element size %q: %w", m[2], err)
	}

	shape, err := parseDataspace(m[3])
	if err != nil {
		return nil, err
	}

	return &datasetInfo{class: m[1], size: uint32(size), shape: shape}, nil
}

func parseDataspace(s string) ([]uint64, error) {
	switch s {
	case "scalar":
		return []uint64{}, nil
	case "null":
		return nil, fmt.Errorf("null dataspace holds no data")
	}

	open := strings.IndexByte(s, '[')
	fields := strings.Fields(strings.ReplaceAll(s[open+1:len(s)-1], "x", " "))
	rank, err := strconv.Atoi(strings.TrimSuffix(s[:strings.IndexByte(s, 'D')], " "))
	if err != nil {
		return nil, fmt.Errorf("dataspace rank in %q: %w", s, err)
	}
	if len(fields) != rank {
		return nil, fmt.Errorf("dataspace %q lists %d dimensions, rank is %d", s, len(fields), rank)
	}

	shape := make([]uint64, rank)
	for i, f := range fields {
		dim, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("dimension %d in %q: %w", i, s, err)
		}
		shape[i] = dim
	}
	return shape, nil
}

// kind maps the HDF5 datatype class onto a record kind.
func (di *datasetInfo) kind() (Kind, error) {
	switch di.class {
	case "integer":
		return Int64, nil
	case "float":
		return Float64, nil
	case "string":
		return String, nil
	default:
		return 0, fmt.Errorf("unsupported dataset class %q", di.class)
	}
}
