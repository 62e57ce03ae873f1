package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `HLA Allele,Gene,Allele Classification,Disease,Clinical Significance
HLA-B27,HLA-B,Class I,Ankylosing Spondylitis,High
HLA-DR4,HLA-DRB1,Class II,Rheumatoid Arthritis,High
HLA-DQ2,HLA-DQA1,Class II,Celiac Disease,Very High
HLA-DR3,HLA-DRB1,Class II,Type 1 Diabetes,Moderate
HLA-B27,HLA-B,Class I,Reactive Arthritis,Moderate
`

func mustLoad(t *testing.T, data string) *Dataset {
	t.Helper()
	ds, err := Load(strings.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, ds)
	return ds
}

func TestSearch_CaseInsensitiveMatch(t *testing.T) {
	ds := mustLoad(t, sampleCSV)

	res, err := Search(ds, "b27", SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, StatusMatched, res.Status)
	assert.Equal(t, []int{0, 4}, res.Matched)
	assert.Equal(t, DefaultDisplayColumns, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []string{"HLA-B27", "Class I", "Ankylosing Spondylitis", "High"}, res.Rows[0].Values())
	assert.Equal(t, []string{"HLA-B27", "Class I", "Reactive Arthritis", "Moderate"}, res.Rows[1].Values())
}

func TestSearch_SpecExample(t *testing.T) {
	ds := mustLoad(t, `HLA Allele,Disease,Allele Classification,Clinical Significance
HLA-B27,Ankylosing Spondylitis,Class I,High
HLA-DR4,Rheumatoid Arthritis,Class II,High
`)

	res, err := Search(ds, "b27", SearchOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count())
	assert.Equal(t, 0, res.Matched[0])
	assert.Equal(t, map[string]string{
		"HLA Allele":            "HLA-B27",
		"Allele Classification": "Class I",
		"Disease":               "Ankylosing Spondylitis",
		"Clinical Significance": "High",
	}, res.Records()[0])

	res, err = Search(ds, "xyz-not-present", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, res.Status)
	assert.Empty(t, res.Rows)
}

func TestSearch_MatchesAnyColumn(t *testing.T) {
	ds := mustLoad(t, sampleCSV)

	// "DRB1" only appears in the Gene column, which is not displayed
	res, err := Search(ds, "drb1", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, res.Matched)
}

func TestSearch_EmptyQueryMatchesEveryRow(t *testing.T) {
	ds := mustLoad(t, sampleCSV+",,,,\n")

	res, err := Search(ds, "", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, res.Status)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, res.Matched)
	assert.Len(t, res.Rows, ds.Len())
}

func TestSearch_NoDataset(t *testing.T) {
	for _, q := range []string{"", "b27", "anything"} {
		res, err := Search(nil, q, SearchOptions{})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrNoDataset, "query %q", q)
	}
}

func TestSearch_NoMatchIsNotNoDataset(t *testing.T) {
	ds := mustLoad(t, sampleCSV)

	res, err := Search(ds, "lupus", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, res.Status)
	assert.Zero(t, res.Count())
	assert.False(t, errors.Is(err, ErrNoDataset))
}

func TestSearch_PreservesOrderAndReturnsOnlyDatasetRows(t *testing.T) {
	ds := mustLoad(t, sampleCSV)

	res, err := Search(ds, "class ii", SearchOptions{Columns: ds.Header})
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3}, res.Matched)
	for i, m := range res.Matched {
		assert.Equal(t, ds.Rows[m].Values(), res.Rows[i].Values())
		assert.Equal(t, ds.Rows[m].Line, res.Rows[i].Line)
	}
	for i := 1; i < len(res.Matched); i++ {
		assert.Less(t, res.Matched[i-1], res.Matched[i])
	}
}

func TestSearch_Idempotent(t *testing.T) {
	ds := mustLoad(t, sampleCSV)

	first, err := Search(ds, "arthritis", SearchOptions{})
	require.NoError(t, err)
	second, err := Search(ds, "arthritis", SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSearch_NullCellsNeverMatch(t *testing.T) {
	ds := mustLoad(t, `HLA Allele,Allele Classification,Disease,Clinical Significance
HLA-C06,,Psoriasis,NaN
HLA-A01,Class I,NA,Low
`)

	// "nan" and "na" are null markers, not text
	res, err := Search(ds, "nan", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, res.Status)

	res, err = Search(ds, "psoriasis", SearchOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count())
	assert.True(t, res.Rows[0].Cells[1].Null)
	assert.Equal(t, map[string]string{"HLA Allele": "HLA-C06", "Disease": "Psoriasis"}, res.Records()[0])
}

func TestSearch_UnicodeCaseFolding(t *testing.T) {
	ds := mustLoad(t, `HLA Allele,Allele Classification,Disease,Clinical Significance
HLA-B51,Class I,MALADIE DE BEHÇET,High
HLA-DR2,Class II,Sclérose en plaques,High
`)

	res, err := Search(ds, "behçet", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Matched)

	res, err = Search(ds, "SCLÉROSE", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Matched)
}

func TestSearch_QueryIsLiteral(t *testing.T) {
	ds := mustLoad(t, `HLA Allele,Allele Classification,Disease,Clinical Significance
HLA-B*27:05,Class I,Ankylosing Spondylitis,High
HLA-B2705,Class I,Uveitis,Moderate
`)

	res, err := Search(ds, "b*27", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Matched)

	res, err = Search(ds, "B.27", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, res.Status)
}

func TestSearch_MissingDisplayColumns(t *testing.T) {
	ds := mustLoad(t, `HLA Allele,Disease
HLA-B27,Ankylosing Spondylitis
`)

	_, err := Search(ds, "b27", SearchOptions{})
	var colErr *MissingColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"Allele Classification", "Clinical Significance"}, colErr.Missing)
	assert.Equal(t, []string{"HLA Allele", "Disease"}, colErr.Available)
	assert.Contains(t, err.Error(), "Allele Classification, Clinical Significance")
}

func TestSearch_MissingColumnsOnlyCheckedWithMatches(t *testing.T) {
	ds := mustLoad(t, "Gene\nHLA-B\n")

	res, err := Search(ds, "zzz", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, res.Status)
}

func TestSearch_CustomColumns(t *testing.T) {
	ds := mustLoad(t, sampleCSV)

	res, err := Search(ds, "celiac", SearchOptions{Columns: []string{"Disease", "Gene"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Disease", "Gene"}, res.Columns)
	assert.Equal(t, []string{"Celiac Disease", "HLA-DQA1"}, res.Rows[0].Values())
}
