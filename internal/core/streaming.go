package core

// streaming.go provides the reader pipeline that uploads pass through
// before CSV parsing:
//
//   - CountingReader: Tracks bytes read for logging and Dataset.Size
//   - BOMSkippingReader: Removes UTF-8 BOM (0xEF 0xBB 0xBF) from Windows files
//   - StrictUTF8Reader: Fails on invalid UTF-8 sequences or NUL bytes
//
// Unlike a sanitizer, StrictUTF8Reader never rewrites input. A file that is
// not clean UTF-8 text is rejected as a whole.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StrictUTF8Reader wraps an io.Reader and returns an *EncodingError as soon
// as the stream contains an invalid UTF-8 sequence or a NUL byte.
// Multi-byte sequences split across reads are held back until complete.
type StrictUTF8Reader struct {
	reader io.Reader
	buf    []byte
	out    []byte // validated bytes not yet handed to the caller

	// Leftover bytes from previous read that may form a multi-byte sequence
	pending []byte
	offset  int64
	err     error
}

// NewStrictUTF8Reader creates a new validating reader.
func NewStrictUTF8Reader(r io.Reader) *StrictUTF8Reader {
	return &StrictUTF8Reader{reader: r}
}

// Read implements io.Reader.
func (s *StrictUTF8Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 && s.err == nil {
		s.fill()
	}
	if len(s.out) == 0 {
		return 0, s.err
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads the next chunk and validates it. It must only be called once
// out has been drained, since out aliases buf.
func (s *StrictUTF8Reader) fill() {
	if s.buf == nil {
		s.buf = make([]byte, 4096)
	}
	n := copy(s.buf, s.pending)
	m, err := s.reader.Read(s.buf[n:])
	n += m

	chunk := s.buf[:n]
	keep := 0
	if err == nil {
		keep = incompleteTrailingBytes(chunk)
	}
	valid := chunk[:n-keep]

	if bad, nul := firstInvalid(valid); bad >= 0 {
		s.err = &EncodingError{Offset: s.offset + int64(bad), NUL: nul}
		s.out = nil
		return
	}

	s.pending = append(s.pending[:0], chunk[n-keep:]...)
	s.offset += int64(len(valid))
	s.out = valid
	if err != nil {
		s.err = err
	}
}

// firstInvalid returns the index of the first byte that breaks UTF-8 text,
// or -1. nul reports whether that byte is a NUL.
func firstInvalid(data []byte) (int, bool) {
	nulAt := bytes.IndexByte(data, 0)
	if utf8.Valid(data) {
		return nulAt, nulAt >= 0
	}
	for i := 0; i < len(data); {
		if nulAt >= 0 && i >= nulAt {
			return nulAt, true
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i, false
		}
		i += size
	}
	return nulAt, nulAt >= 0
}

// incompleteTrailingBytes returns the number of bytes at the end of data
// that could be the start of an incomplete multi-byte UTF-8 sequence.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		// Anything but a continuation byte ends the scan
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// runeLen returns the expected length of a UTF-8 sequence starting with byte b.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0 // continuation byte
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	}
	return 4
}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
// The UTF-8 BOM is 0xEF 0xBB 0xBF and is commonly added by Excel on Windows.
type BOMSkippingReader struct {
	reader  *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: bufio.NewReader(r)}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		head, err := r.reader.Peek(len(utf8BOM))
		if bytes.Equal(head, utf8BOM) {
			r.reader.Discard(len(utf8BOM))
		} else if err != nil && err != io.EOF {
			return 0, err
		}
	}
	return r.reader.Read(p)
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}
