package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
	"time"
)

// Table is tabular data ready to render.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render writes the table through a tabwriter so columns line up.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return nil
}

// TableFormatter formats arbitrary values as an ASCII table. Slices of
// structs become one row per element, a single struct becomes a
// field/value listing, and maps become key/value pairs. Anything else
// falls back to indented JSON.
//
// Struct fields opt out with `table:"-"` and mark wide-only columns
// with `table:"wide"`; the json tag names the column.
type TableFormatter struct {
	Wide bool
}

// Format renders data as a table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	if t, ok := data.(*Table); ok {
		return t.Render(w)
	}
	if t, ok := data.(Table); ok {
		return t.Render(w)
	}

	table, ok := f.tabulate(reflect.ValueOf(data))
	if !ok {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return table.Render(w)
}

func (f *TableFormatter) tabulate(v reflect.Value) (*Table, bool) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return f.rowsFromSlice(v)
	case reflect.Struct:
		return f.fieldListing(v), true
	case reflect.Map:
		table := &Table{Headers: []string{"KEY", "VALUE"}}
		iter := v.MapRange()
		for iter.Next() {
			table.Rows = append(table.Rows, []string{cellValue(iter.Key()), cellValue(iter.Value())})
		}
		return table, true
	default:
		return nil, false
	}
}

// rowsFromSlice renders a slice of structs with one column per visible
// field.
func (f *TableFormatter) rowsFromSlice(v reflect.Value) (*Table, bool) {
	if v.Len() == 0 {
		return &Table{}, true
	}

	elemType := v.Index(0).Type()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return nil, false
	}

	cols := f.columns(elemType)
	table := &Table{}
	for _, col := range cols {
		table.Headers = append(table.Headers, col.header)
	}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		row := make([]string, 0, len(cols))
		for _, col := range cols {
			row = append(row, cellValue(elem.Field(col.index)))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, true
}

// fieldListing renders one struct as field/value rows.
func (f *TableFormatter) fieldListing(v reflect.Value) *Table {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}
	for _, col := range f.columns(v.Type()) {
		table.Rows = append(table.Rows, []string{
			columnName(v.Type().Field(col.index)),
			cellValue(v.Field(col.index)),
		})
	}
	return table
}

type column struct {
	header string
	index  int
}

// columns selects the visible fields of a struct type, honoring the
// table tag and wide mode.
func (f *TableFormatter) columns(t reflect.Type) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		switch tag := field.Tag.Get("table"); {
		case tag == "-":
			continue
		case strings.Contains(tag, "wide") && !f.Wide:
			continue
		}
		cols = append(cols, column{
			header: strings.ToUpper(toSnakeCase(columnName(field))),
			index:  i,
		})
	}
	return cols
}

// columnName prefers the json tag over the Go field name.
func columnName(field reflect.StructField) string {
	if tag := field.Tag.Get("json"); tag != "" {
		name := strings.Split(tag, ",")[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// cellValue renders one value for a table cell. Empty strings and
// empty collections show as "-" so sparse rows stay readable.
func cellValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	if v.Type() == reflect.TypeOf(time.Time{}) {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	}

	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return "-"
		}
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.2f", v.Float())
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// toSnakeCase converts CamelCase to SNAKE_CASE.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return b.String()
}
