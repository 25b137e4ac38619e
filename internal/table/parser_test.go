package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, input string, d Dialect) ([]Row, error) {
	t.Helper()
	var rows []Row
	for row, err := range Rows(Lines(strings.NewReader(input), d.CommentPrefix), d) {
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func TestRows_RapidSTORMTable(t *testing.T) {
	input := `# <localizations insequence="true" repetitions="variable"><field identifier="Position-0-0" /></localizations>
1523.4 8871.2 0 5021.7 120.5
1600.0 8000.0 0 4100.0 110.2
1700.5 7000.25 1 3900 99
`
	rows, err := parseAll(t, input, DefaultDialect())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []float64{1523.4, 8871.2, 0, 5021.7, 120.5}, rows[0].Fields)
	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, 3, rows[2].Line)
	assert.Equal(t, 7000.25, rows[2].Fields[1])
}

func TestRows_WhitespaceRuns(t *testing.T) {
	rows, err := parseAll(t, "1  2\t3   4 \n", DefaultDialect())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []float64{1, 2, 3, 4}, rows[0].Fields)
}

func TestRows_CustomDelimiter(t *testing.T) {
	d := Dialect{Delimiter: ",", CommentPrefix: "%"}
	rows, err := parseAll(t, "% header\n1.5,2.5,3,4\n", d)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []float64{1.5, 2.5, 3, 4}, rows[0].Fields)
}

func TestRows_CustomDelimiterEmptyFieldIsNotNumeric(t *testing.T) {
	d := Dialect{Delimiter: ",", CommentPrefix: "#"}
	_, err := parseAll(t, "1,,3,4\n", d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestRows_NonNumericFieldIsFatal(t *testing.T) {
	rows, err := parseAll(t, "1 2 3 4\n1 abc 3 4\n5 6 7 8\n", DefaultDialect())
	require.Error(t, err)
	assert.Len(t, rows, 1, "rows before the failure are delivered")

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
	assert.Equal(t, 1, fe.Index)
	assert.Equal(t, "abc", fe.Value)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestRows_NonFiniteFieldIsNotNumeric(t *testing.T) {
	for _, field := range []string{"nan", "NaN", "inf", "+Inf", "-infinity", "1e400"} {
		t.Run(field, func(t *testing.T) {
			_, err := parseAll(t, field+" 200.0 0 50\n", DefaultDialect())
			require.ErrorIs(t, err, ErrNotNumeric)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, 0, fe.Index)
			assert.Equal(t, field, fe.Value)
		})
	}
}

func TestRows_QuotedFieldIsRejected(t *testing.T) {
	_, err := parseAll(t, `1 "2" 3 4`+"\n", DefaultDialect())
	assert.ErrorIs(t, err, ErrQuotedField)
}

func TestRows_ShortRowIsNotValidatedByParser(t *testing.T) {
	rows, err := parseAll(t, "1 2\n", DefaultDialect())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Fields, 2)
}

func TestRows_EmptyLineYieldsEmptyRow(t *testing.T) {
	rows, err := parseAll(t, "1 2 3 4\n\n5 6 7 8\n", DefaultDialect())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Empty(t, rows[1].Fields)
}

func TestRows_CountMatchesNonCommentLines(t *testing.T) {
	input := "#a\n1 0 0 1\n#b\n#c\n2 0 1 1\n3 0 2 1\n#d\n"
	rows, err := parseAll(t, input, DefaultDialect())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, float64(i+1), r.Fields[0])
	}
}

func TestRows_ReadErrorIsWrapped(t *testing.T) {
	var gotErr error
	for _, err := range Rows(Lines(failingReader{}, "#"), DefaultDialect()) {
		gotErr = err
	}
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "reading table")
}

func TestRowField(t *testing.T) {
	r := Row{Line: 7, Fields: []float64{1, 2, 3}}

	v, err := r.Field(2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, err = r.Field(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)

	var ce *ColumnError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 7, ce.Line)
	assert.Equal(t, 3, ce.Column)
	assert.Equal(t, 3, ce.Width)

	_, err = r.Field(-1)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
}
