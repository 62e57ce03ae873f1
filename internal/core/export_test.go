package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const exportCSV = `HLA Allele,Allele Classification,Disease,Clinical Significance
HLA-B27,Class I,"Spondylitis, ankylosing",High
HLA-C06,Class I,Psoriasis,
HLA-DR4,Class II,Rheumatoid Arthritis,High
`

func exportResult(t *testing.T) *SearchResult {
	t.Helper()
	res, err := Search(mustLoad(t, exportCSV), "class i", SearchOptions{})
	require.NoError(t, err)
	return res
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportResult(t)))

	// "class i" also matches "Class II"
	want := `HLA Allele,Allele Classification,Disease,Clinical Significance
HLA-B27,Class I,"Spondylitis, ankylosing",High
HLA-C06,Class I,Psoriasis,
HLA-DR4,Class II,Rheumatoid Arthritis,High
`
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_NoMatchWritesHeaderOnly(t *testing.T) {
	res, err := Search(mustLoad(t, exportCSV), "lupus", SearchOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))
	assert.Equal(t, "HLA Allele,Allele Classification,Disease,Clinical Significance\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportResult(t)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, DefaultDisplayColumns, rows[0])
	assert.Equal(t, []string{"HLA-B27", "Class I", "Spondylitis, ankylosing", "High"}, rows[1])
	// Trailing blank cells are trimmed by GetRows
	assert.Equal(t, []string{"HLA-C06", "Class I", "Psoriasis"}, rows[2])

	styleID, err := f.GetCellStyle(xlsxSheet, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
