package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
		{
			name:     "BOM only stripped once",
			input:    []byte{0xEF, 0xBB, 0xBF, 0xEF, 0xBB, 0xBF, 'x'},
			expected: string([]byte{0xEF, 0xBB, 0xBF, 'x'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBOMSkippingReader(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestStrictUTF8Reader_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "ascii", input: "HLA Allele,Disease\nHLA-B27,AS\n"},
		{name: "two byte runes", input: "Behçet,Sjögren"},
		{name: "three byte runes", input: "HLA–B27 → ✓"},
		{name: "four byte runes", input: "🧬🧪"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// One byte at a time forces every multi-byte rune to straddle reads
			reader := NewStrictUTF8Reader(iotest.OneByteReader(strings.NewReader(tt.input)))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.input {
				t.Errorf("got %q, want %q", string(result), tt.input)
			}
		})
	}
}

func TestStrictUTF8Reader_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		wantOffset int64
		wantNUL    bool
	}{
		{name: "lone continuation byte", input: []byte{'h', 'e', 0x80, 'l', 'o'}, wantOffset: 2},
		{name: "latin-1 e acute", input: []byte("caf\xe9,x"), wantOffset: 3},
		{name: "truncated at EOF", input: []byte("ab\xe2\x82"), wantOffset: 2},
		{name: "overlong encoding", input: []byte{'a', 0xC0, 0xAF}, wantOffset: 1},
		{name: "NUL byte", input: []byte{'a', 'b', 0x00, 'c'}, wantOffset: 2, wantNUL: true},
		{name: "NUL before invalid", input: []byte{0x00, 0xFF}, wantOffset: 0, wantNUL: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewStrictUTF8Reader(bytes.NewReader(tt.input))
			_, err := io.ReadAll(reader)

			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("expected *EncodingError, got %v", err)
			}
			if encErr.Offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", encErr.Offset, tt.wantOffset)
			}
			if encErr.NUL != tt.wantNUL {
				t.Errorf("NUL = %v, want %v", encErr.NUL, tt.wantNUL)
			}
		})
	}
}

func TestStrictUTF8Reader_ErrorIsSticky(t *testing.T) {
	reader := NewStrictUTF8Reader(bytes.NewReader([]byte{0xFF, 'a', 'b'}))
	buf := make([]byte, 16)

	_, first := reader.Read(buf)
	_, second := reader.Read(buf)
	if first == nil || first != second {
		t.Errorf("expected the same error twice, got %v then %v", first, second)
	}
}

func TestStrictUTF8Reader_TinyCallerBuffer(t *testing.T) {
	input := "Sjögren,🧬\n"
	reader := iotest.OneByteReader(NewStrictUTF8Reader(strings.NewReader(input)))

	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != input {
		t.Errorf("got %q, want %q", string(result), input)
	}
}

func TestCountingReader(t *testing.T) {
	input := "hello,world\nfoo,bar\n"
	reader := NewCountingReader(strings.NewReader(input))

	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(result) != input {
		t.Errorf("got %q, want %q", string(result), input)
	}

	if reader.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", reader.BytesRead, len(input))
	}
}

func TestStreamingPipeline(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("HLA Allele,Disease\nHLA-B51,Behçet\n")...)

	counter := NewCountingReader(bytes.NewReader(input))
	reader := NewStrictUTF8Reader(NewBOMSkippingReader(counter))

	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "HLA Allele,Disease\nHLA-B51,Behçet\n"
	if string(result) != expected {
		t.Errorf("got %q, want %q", string(result), expected)
	}
	if counter.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", counter.BytesRead, len(input))
	}
}
