package table

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrColumnOutOfRange is returned when a configured column is beyond the end of a row.
	ErrColumnOutOfRange = errors.New("column out of range")

	// ErrNotNumeric is returned when an unquoted field is not a number.
	ErrNotNumeric = errors.New("field is not numeric")

	// ErrQuotedField is returned for quoted (textual) fields, which the format does not allow.
	ErrQuotedField = errors.New("quoted field in numeric table")
)

// Dialect describes the layout of a localization table.
type Dialect struct {
	Delimiter     string
	CommentPrefix string
}

// DefaultDialect is the rapidSTORM layout: single-space delimiter, '#' comments.
func DefaultDialect() Dialect {
	return Dialect{Delimiter: " ", CommentPrefix: "#"}
}

// Row is one parsed table record.
type Row struct {
	Line   int // 1-based position among non-comment lines
	Fields []float64
}

// ColumnError reports an access beyond the end of a row.
type ColumnError struct {
	Line   int
	Column int
	Width  int
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("line %d: column %d requested but row has %d fields", e.Line, e.Column, e.Width)
}

func (e *ColumnError) Unwrap() error { return ErrColumnOutOfRange }

// FieldError reports a field that could not be parsed.
type FieldError struct {
	Line  int
	Index int
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: field %d (%q): %v", e.Line, e.Index, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Field returns the value at zero-based column i.
func (r Row) Field(i int) (float64, error) {
	if i < 0 || i >= len(r.Fields) {
		return 0, &ColumnError{Line: r.Line, Column: i, Width: len(r.Fields)}
	}
	return r.Fields[i], nil
}

// Rows parses every line into a Row. The first error is yielded and ends the sequence;
// the row count is never validated against configured columns.
func Rows(lines iter.Seq2[string, error], d Dialect) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		n := 0
		for line, err := range lines {
			if err != nil {
				yield(Row{}, fmt.Errorf("reading table: %w", err))
				return
			}
			n++
			row, err := ParseLine(line, n, d.Delimiter)
			if err != nil {
				yield(Row{}, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// ParseLine splits line on delim and parses every field as a float64.
// Only finite literals are numbers; nan and inf spellings are rejected.
// A single-space delimiter treats any run of whitespace as one separator.
func ParseLine(line string, lineNo int, delim string) (Row, error) {
	row := Row{Line: lineNo}

	var raw []string
	switch {
	case delim == " " || delim == "":
		raw = strings.Fields(line)
	default:
		raw = strings.Split(line, delim)
	}

	row.Fields = make([]float64, 0, len(raw))
	for i, field := range raw {
		field = strings.TrimSpace(field)
		if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
			return row, &FieldError{Line: lineNo, Index: i, Value: field, Err: ErrQuotedField}
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return row, &FieldError{Line: lineNo, Index: i, Value: field, Err: ErrNotNumeric}
		}
		row.Fields = append(row.Fields, v)
	}
	return row, nil
}
