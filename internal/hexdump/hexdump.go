// Package hexdump renders a region of a container as a hex/ASCII dump, 16
// bytes per line.
package hexdump

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Dump writes length bytes starting at offset of r to w. A short read at end
// of file is not an error; the returned count is the number of bytes dumped.
func Dump(w io.Writer, r io.ReaderAt, offset int64, length int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("invalid offset: %d", offset)
	}
	if length < 1 {
		return 0, fmt.Errorf("invalid length: %d", length)
	}

	buf := make([]byte, length)
	n, err := r.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("read at offset %d: %w", offset, err)
	}

	var sb strings.Builder
	for i := 0; i < n; i += 16 {
		end := i + 16
		if end > n {
			end = n
		}
		writeLine(&sb, offset+int64(i), buf[i:end])
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return n, err
	}
	return n, nil
}

func writeLine(sb *strings.Builder, addr int64, chunk []byte) {
	fmt.Fprintf(sb, "%08x: ", addr)
	for j := 0; j < 16; j++ {
		if j < len(chunk) {
			fmt.Fprintf(sb, "%02x ", chunk[j])
		} else {
			sb.WriteString("   ")
		}
		if j == 7 {
			sb.WriteByte(' ')
		}
	}

	sb.WriteString(" |")
	for _, b := range chunk {
		if b >= 32 && b <= 126 {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('.')
		}
	}
	sb.WriteString("|\n")
}
