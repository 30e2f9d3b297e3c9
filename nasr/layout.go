// nasr/layout.go
package nasr

import (
	"fmt"

	"github.com/gewnthar/faawaypoints/utils"
)

// Field is a fixed column range in a NASR record: 0-based byte offsets,
// End exclusive.
type Field struct {
	Name       string
	Start, End int
}

// Layout is the column schema of one NASR table. Only the columns the
// extractor reads are listed.
type Layout struct {
	Table  string // human-readable table name, used in errors and logs
	Tag    string // record type literal at the start of each line
	Fields []Field
}

// The record type always starts the line.
func (l Layout) tagField() Field {
	return Field{Name: "tag", Start: 0, End: len(l.Tag)}
}

// Len returns the minimum line length needed to read every field.
func (l Layout) Len() int {
	n := l.tagField().End
	for _, f := range l.Fields {
		n = max(n, f.End)
	}
	return n
}

// Field looks up a column by name.
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Tagged reports whether line carries this table's record type.
func (l Layout) Tagged(line string) bool {
	tf := l.tagField()
	return len(line) >= tf.End && line[tf.Start:tf.End] == l.Tag
}

// Record is one tagged line of a table, already checked to be at least
// Layout.Len() bytes long.
type Record struct {
	Layout *Layout
	Text   string
	Line   int // 1-based line number in the input
}

// Raw returns the exact column text, padding included.
func (r Record) Raw(name string) string {
	f, ok := r.Layout.Field(name)
	if !ok {
		panic(fmt.Sprintf("%s layout has no %q field", r.Layout.Table, name))
	}
	return r.Text[f.Start:f.End]
}

// Trimmed returns the column text with trailing whitespace removed.
func (r Record) Trimmed(name string) string {
	return utils.TrimRight(r.Raw(name))
}

// Title returns the trimmed column text title-cased.
func (r Record) Title(name string) string {
	return utils.TitleCase(r.Trimmed(name))
}

// Byte returns the byte at the given offset.
func (r Record) Byte(offset int) byte {
	return r.Text[offset]
}
