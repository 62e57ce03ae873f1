package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NilReaderMeansNoDataset(t *testing.T) {
	ds, err := Load(nil)
	assert.NoError(t, err)
	assert.Nil(t, ds)
}

func TestLoad_ParsesHeaderAndRows(t *testing.T) {
	ds := mustLoad(t, sampleCSV)

	assert.Equal(t, []string{"HLA Allele", "Gene", "Allele Classification", "Disease", "Clinical Significance"}, ds.Header)
	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, 2, ds.Rows[0].Line)
	assert.Equal(t, Digest([]byte(sampleCSV)), ds.Digest)
	assert.Equal(t, int64(len(sampleCSV)), ds.Size)

	cell, ok := ds.Value(2, "Disease")
	require.True(t, ok)
	assert.Equal(t, "Celiac Disease", cell.Value)

	_, ok = ds.Value(2, "Nope")
	assert.False(t, ok)
}

func TestLoad_HeaderOnly(t *testing.T) {
	ds := mustLoad(t, "HLA Allele,Disease\n")
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Head(5))
}

func TestLoad_SkipsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("HLA Allele,Disease\nHLA-B27,AS\n")...)
	ds, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "HLA Allele", ds.Header[0])
	assert.Equal(t, Digest(data), ds.Digest)
}

func TestLoad_NormalizesHeader(t *testing.T) {
	ds := mustLoad(t, "Disease,,Disease,Disease.1\nA,B,C,D\n")
	assert.Equal(t, []string{"Disease", "Unnamed: 1", "Disease.1", "Disease.1.1"}, ds.Header)
}

func TestLoad_PadsShortRows(t *testing.T) {
	ds := mustLoad(t, "a,b,c\n1,2\n")
	require.Len(t, ds.Rows[0].Cells, 3)
	assert.True(t, ds.Rows[0].Cells[2].Null)
}

func TestLoad_QuotedFields(t *testing.T) {
	ds := mustLoad(t, "HLA Allele,Disease\n\"HLA-DRB1*04:01\",\"Arthritis, rheumatoid\"\n")
	assert.Equal(t, []string{"HLA-DRB1*04:01", "Arthritis, rheumatoid"}, ds.Rows[0].Values())
}

func TestLoad_TextWithBinaryMagicPrefix(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "BMP signature", input: "BMI,HLA Allele,Disease\n31.2,HLA-B27,Ankylosing Spondylitis\n"},
		{name: "PE signature", input: "MZ score,HLA Allele,Disease\n0.8,HLA-DR4,Rheumatoid Arthritis\n"},
		{name: "MP3 signature", input: "ID3 region,HLA Allele,Disease\nq21,HLA-DQ2,Celiac Disease\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Load(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, "HLA Allele", ds.Header[1])
			assert.Equal(t, 1, ds.Len())
		})
	}
}

func TestLoad_BareQuotesAreLiteral(t *testing.T) {
	ds := mustLoad(t, "HLA Allele,Disease\nHLA-B27,Spondylitis 5\" lesion\n1,x\"y\n")
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, `Spondylitis 5" lesion`, ds.Rows[0].Cells[1].Value)
	assert.Equal(t, `x"y`, ds.Rows[1].Cells[1].Value)
}

func TestLoad_ParseErrors(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	tests := []struct {
		name     string
		input    []byte
		wantKind ParseErrorKind
		wantLine int
	}{
		{name: "empty input", input: []byte{}, wantKind: KindEmpty},
		{name: "only BOM", input: []byte{0xEF, 0xBB, 0xBF}, wantKind: KindEmpty},
		{name: "png image", input: png, wantKind: KindNotText},
		{name: "latin-1 bytes", input: []byte("a,b\n1,caf\xe9\n"), wantKind: KindEncoding},
		{name: "truncated multibyte at end", input: []byte("a,b\n1,\xc3"), wantKind: KindEncoding},
		{name: "too many fields", input: []byte("a,b\n1,2\n3,4,5\n"), wantKind: KindMalformed, wantLine: 3},
		{name: "zip archive", input: append([]byte("PK\x03\x04"), make([]byte, 64)...), wantKind: KindNotText},
		{name: "NUL in a cell", input: []byte("a,b\n1,x\x00y\n"), wantKind: KindNotText},
		{name: "utf-16 with BOM", input: []byte("\xff\xfea\x00,\x00b\x00\n\x00"), wantKind: KindEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Load(bytes.NewReader(tt.input))
			assert.Nil(t, ds)

			var parseErr *DatasetParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.wantKind, parseErr.Kind, "kind %s", parseErr.Kind)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, parseErr.Line)
			}
		})
	}
}

func TestLoad_ReadErrorIsNotParseError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Load(iotest.ErrReader(boom))

	assert.ErrorIs(t, err, boom)
	var parseErr *DatasetParseError
	assert.False(t, errors.As(err, &parseErr))
}

func TestLoad_OneByteReads(t *testing.T) {
	input := "HLA Allele,Disease\nHLA-B51,Behçet\n"
	ds, err := Load(iotest.OneByteReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, "Behçet", ds.Rows[0].Cells[1].Value)
}

func TestLoader_MemoizesByContent(t *testing.T) {
	l := NewLoader()

	first, cached, err := l.Load([]byte(sampleCSV))
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := l.Load([]byte(sampleCSV))
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Same(t, first, second)

	assert.Equal(t, LoaderStats{Hits: 1, Misses: 1}, l.Stats())
}

func TestLoader_NewContentReplacesSlot(t *testing.T) {
	l := NewLoader()

	first, _, err := l.Load([]byte(sampleCSV))
	require.NoError(t, err)

	other := "HLA Allele,Disease\nHLA-B27,AS\n"
	second, cached, err := l.Load([]byte(other))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotSame(t, first, second)
	assert.Same(t, second, l.Current())

	// The first upload is no longer cached
	third, cached, err := l.Load([]byte(sampleCSV))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotSame(t, first, third)
}

func TestLoader_NilDataLeavesSlot(t *testing.T) {
	l := NewLoader()
	loaded, _, err := l.Load([]byte(sampleCSV))
	require.NoError(t, err)

	ds, cached, err := l.Load(nil)
	assert.NoError(t, err)
	assert.False(t, cached)
	assert.Nil(t, ds)
	assert.Same(t, loaded, l.Current())
}

func TestLoader_ParseErrorKeepsPreviousDataset(t *testing.T) {
	l := NewLoader()
	loaded, _, err := l.Load([]byte(sampleCSV))
	require.NoError(t, err)

	ds, _, err := l.Load([]byte("a,b\n1,2,3\n"))
	var parseErr *DatasetParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Nil(t, ds)
	assert.Same(t, loaded, l.Current())
}

func TestLoader_Clear(t *testing.T) {
	l := NewLoader()
	_, _, err := l.Load([]byte(sampleCSV))
	require.NoError(t, err)

	l.Clear()
	assert.Nil(t, l.Current())

	_, cached, err := l.Load([]byte(sampleCSV))
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestDataset_Head(t *testing.T) {
	ds := mustLoad(t, sampleCSV)

	assert.Len(t, ds.Head(0), DefaultPreviewRows)
	assert.Len(t, ds.Head(2), 2)
	assert.Len(t, ds.Head(100), 5)

	var nilDS *Dataset
	assert.Nil(t, nilDS.Head(5))
	assert.Zero(t, nilDS.Len())
}

func TestDataset_Record(t *testing.T) {
	ds := mustLoad(t, "HLA Allele,Disease,Notes\nHLA-B27,AS,\n")
	assert.Equal(t, map[string]string{"HLA Allele": "HLA-B27", "Disease": "AS"}, ds.Record(0))
}
