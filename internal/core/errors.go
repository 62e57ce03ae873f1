package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDataset is returned by Search when no dataset has been uploaded.
var ErrNoDataset = errors.New("no dataset loaded")

// ParseErrorKind classifies why an upload could not be parsed.
type ParseErrorKind int

const (
	// KindMalformed covers CSV syntax problems: bare quotes, rows with
	// more fields than the header.
	KindMalformed ParseErrorKind = iota
	// KindEmpty means the upload contained no header row.
	KindEmpty
	// KindNotText means the content sniffed as a binary format.
	KindNotText
	// KindEncoding means the bytes are not valid UTF-8 text.
	KindEncoding
)

func (k ParseErrorKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNotText:
		return "not_text"
	case KindEncoding:
		return "encoding"
	default:
		return "malformed"
	}
}

// DatasetParseError reports an upload that could not be turned into a
// Dataset. No partial dataset is ever returned alongside it.
type DatasetParseError struct {
	Kind   ParseErrorKind
	Line   int    // 1-indexed source line, 0 if unknown
	Detail string // detected MIME type for KindNotText
	Err    error
}

func (e *DatasetParseError) Error() string {
	switch e.Kind {
	case KindEmpty:
		return "empty file: no header row found"
	case KindNotText:
		return fmt.Sprintf("not a text file (detected %s)", e.Detail)
	case KindEncoding:
		return fmt.Sprintf("encoding error: %v", e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("invalid csv: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("invalid csv: %v", e.Err)
}

func (e *DatasetParseError) Unwrap() error {
	return e.Err
}

// MissingColumnError is returned when the dataset lacks one or more of the
// display columns that search results are projected onto.
type MissingColumnError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing display column(s): %s", strings.Join(e.Missing, ", "))
}

// EncodingError reports the first byte offset at which the input stopped
// being valid UTF-8 text.
type EncodingError struct {
	Offset int64
	NUL    bool
}

func (e *EncodingError) Error() string {
	if e.NUL {
		return fmt.Sprintf("NUL byte at offset %d", e.Offset)
	}
	return fmt.Sprintf("invalid UTF-8 at offset %d", e.Offset)
}
